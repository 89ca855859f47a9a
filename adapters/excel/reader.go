package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"alocdash/domain/allocation"
	"alocdash/domain/core"
	"alocdash/internal"

	"github.com/xuri/excelize/v2"
)

var logger = internal.DefaultLogger.With("DataReader")

// headerScanLimit bounds how far below the configured header row we look
// for a row that carries the required columns
const headerScanLimit = 10

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    SheetConfig
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string, sheet SheetConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	switch ext {
	case ".csv":
		fileType = "csv"
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
	default:
		fileType = ext
	}
	return &DataReader{filePath: filePath, fileType: fileType, sheet: sheet}
}

// ReadData reads the configured sheet. required lists alias groups of which
// at least one alias must appear in the header row.
func (r *DataReader) ReadData(required ...[]string) (*ExcelData, error) {
	logger.Debug("Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrSourceNotFound, r.filePath)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", r.filePath, err)
	}

	var (
		rows  [][]string
		sheet string
		err   error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, sheet, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedType, r.fileType)
	}
	if err != nil {
		return nil, err
	}

	data, err := r.processRows(rows, required)
	if err != nil {
		return nil, err
	}
	data.Sheet = sheet
	return data, nil
}

// readExcelRows reads the configured sheet, or the first one when none is set
func (r *DataReader) readExcelRows() ([][]string, string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet, err := r.resolveSheet(f.GetSheetList())
	if err != nil {
		return nil, "", err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	logger.Debug("Sheet %q read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, sheet, nil
}

func (r *DataReader) resolveSheet(sheets []string) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("%w: workbook %s has no sheets", core.ErrSheetNotFound, r.filePath)
	}
	if r.sheet.Sheet == "" {
		return sheets[0], nil
	}
	for _, name := range sheets {
		if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(r.sheet.Sheet)) {
			return name, nil
		}
	}
	if len(sheets) == 1 {
		logger.Warn("Sheet %q not found in %s, using its only sheet %q", r.sheet.Sheet, r.filePath, sheets[0])
		return sheets[0], nil
	}
	return "", fmt.Errorf("%w: %q in %s (available: %s)", core.ErrSheetNotFound, r.sheet.Sheet, r.filePath, strings.Join(sheets, ", "))
}

// readCSVRows reads CSV data; semicolon-separated files are detected from the first line
func (r *DataReader) readCSVRows() ([][]string, error) {
	content, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	firstLine := content
	if idx := bytes.IndexByte(content, '\n'); idx >= 0 {
		firstLine = content[:idx]
	}
	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		reader.Comma = ';'
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// processRows locates the header row and converts the rows below it
func (r *DataReader) processRows(rows [][]string, required [][]string) (*ExcelData, error) {
	headerIdx, err := r.locateHeader(rows, required)
	if err != nil {
		return nil, err
	}

	headers := make([]string, len(rows[headerIdx]))
	for i, header := range rows[headerIdx] {
		headers[i] = allocation.NormalizeKey(header)
	}

	data := &ExcelData{Source: r.filePath}
	for _, header := range headers {
		if header != "" {
			data.Headers = append(data.Headers, header)
		}
	}

	for i := headerIdx + 1; i < len(rows); i++ {
		rowData := make(RawRowData)
		blank := true
		for j, cell := range rows[i] {
			if j >= len(headers) || headers[j] == "" {
				continue
			}
			value := strings.TrimSpace(cell)
			if _, seen := rowData[headers[j]]; seen {
				continue // duplicated header: first column wins
			}
			rowData[headers[j]] = value
			if value != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		data.Rows = append(data.Rows, rowData)
		data.RowNumbers = append(data.RowNumbers, i+1)
	}

	if len(data.Rows) == 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrEmptyTable, r.filePath)
	}

	logger.Info("%s processed (%d columns, %d rows, header at row %d)",
		filepath.Base(r.filePath), len(data.Headers), len(data.Rows), headerIdx+1)
	return data, nil
}

// locateHeader prefers the configured row and otherwise scans the first rows
// of the sheet for one that names every required column group.
func (r *DataReader) locateHeader(rows [][]string, required [][]string) (int, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: %s", core.ErrEmptyTable, r.filePath)
	}

	start := r.sheet.HeaderRow
	if start < len(rows) && headerHasColumns(rows[start], required) {
		return start, nil
	}

	limit := start + headerScanLimit
	if limit > len(rows) {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		if headerHasColumns(rows[i], required) {
			if i != start {
				logger.Debug("Header of %s found at row %d instead of %d", r.filePath, i+1, start+1)
			}
			return i, nil
		}
	}

	missing := "?"
	if start < len(rows) {
		for _, group := range required {
			if !rowHasAny(rows[start], group) {
				missing = group[0]
				break
			}
		}
	} else if len(required) > 0 {
		missing = required[0][0]
	}
	return 0, core.NewColumnNotFoundError(missing, filepath.Base(r.filePath))
}

func headerHasColumns(row []string, required [][]string) bool {
	for _, group := range required {
		if !rowHasAny(row, group) {
			return false
		}
	}
	return true
}

func rowHasAny(row []string, aliases []string) bool {
	for _, cell := range row {
		key := allocation.NormalizeKey(cell)
		for _, alias := range aliases {
			if key == alias {
				return true
			}
		}
	}
	return false
}
