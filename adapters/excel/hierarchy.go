package excel

import (
	"context"
	"math"
	"strconv"
	"strings"

	"alocdash/domain/allocation"
)

// HierarchyReader loads the GRE / Polo / Turma / Escola table
type HierarchyReader struct {
	config SheetConfig
}

// NewHierarchyReader creates a reader for the hierarchy workbook
func NewHierarchyReader(config SheetConfig) *HierarchyReader {
	return &HierarchyReader{config: config}
}

// LoadHierarchy reads one HierarchyRow per spreadsheet row. Rows are not
// validated here; rows lacking a parent reference are reported by the joiner.
func (h *HierarchyReader) LoadHierarchy(ctx context.Context, path string) ([]allocation.HierarchyRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := NewDataReader(path, h.config).ReadData(columnGRE, columnPolo, columnEscola)
	if err != nil {
		return nil, err
	}

	greCol, _ := data.Column(columnGRE...)
	poloCol, _ := data.Column(columnPolo...)
	escolaCol, _ := data.Column(columnEscola...)
	inepCol, hasINEP := data.Column(columnINEP...)
	turmaCol, hasTurma := data.Column(columnTurma...)
	dirCol, hasDirQuota := data.Column(columnDirectorQuota...)
	coordCol, hasCoordQuota := data.Column(columnCoordinatorQuota...)

	rows := make([]allocation.HierarchyRow, 0, len(data.Rows))
	for i, raw := range data.Rows {
		row := allocation.HierarchyRow{
			Row:    data.RowNumbers[i],
			GRE:    allocation.CleanLabel(raw[greCol]),
			Polo:   allocation.CleanLabel(raw[poloCol]),
			Escola: allocation.CleanLabel(raw[escolaCol]),
		}
		if hasINEP {
			row.INEP = cleanCode(raw[inepCol])
		}
		if hasTurma {
			row.Turma = allocation.CleanLabel(raw[turmaCol])
		}
		if hasDirQuota {
			row.Directors = parseQuota(raw[dirCol], row.Row, dirCol)
		}
		if hasCoordQuota {
			row.Coordinators = parseQuota(raw[coordCol], row.Row, coordCol)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseQuota reads a non-negative count; Excel often stores integers as "1.0".
// Blank or unreadable cells yield nil so the configured default applies.
func parseQuota(cell string, row int, column string) *int {
	cell = strings.TrimSpace(strings.ReplaceAll(cell, ",", "."))
	if cell == "" {
		return nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		logger.Warn("Row %d: ignoring unreadable %s value %q", row, column, cell)
		return nil
	}
	n := int(math.Round(f))
	return &n
}

// cleanCode normalizes numeric codes such as INEP, which Excel may render as "26123456.0"
func cleanCode(cell string) string {
	cell = strings.TrimSpace(cell)
	if strings.HasSuffix(cell, ".0") {
		if _, err := strconv.Atoi(strings.TrimSuffix(cell, ".0")); err == nil {
			return strings.TrimSuffix(cell, ".0")
		}
	}
	return cell
}
