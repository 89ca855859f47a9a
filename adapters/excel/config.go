package excel

import "alocdash/domain/allocation"

// SheetConfig selects the sheet of a workbook and where its header sits
type SheetConfig struct {
	Sheet     string `json:"sheet"`      // Empty selects the first sheet
	HeaderRow int    `json:"header_row"` // 0-based row expected to hold the header
}

// ExcelConfig holds configuration for both source workbooks
type ExcelConfig struct {
	Hierarchy   SheetConfig     `json:"hierarchy"`
	Allocation  SheetConfig     `json:"allocation"`
	DefaultRole allocation.Role `json:"default_role"`
}

// DefaultExcelConfig matches the layout of the published workbooks: the
// allocation report has a title row above its header, on sheet "Planilha1".
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		Hierarchy:   SheetConfig{},
		Allocation:  SheetConfig{Sheet: "Planilha1", HeaderRow: 1},
		DefaultRole: allocation.RoleDirector,
	}
}

// Column aliases, already normalized (upper case, no accents)
var (
	columnGRE    = []string{"GRE", "REGIONAL", "GERENCIA REGIONAL"}
	columnPolo   = []string{"POLO", "NOME DO POLO"}
	columnEscola = []string{"ESCOLA", "NOME DA ESCOLA", "UNIDADE ESCOLAR"}
	columnINEP   = []string{"INEP", "CODIGO INEP", "COD INEP", "COD. INEP"}
	columnTurma  = []string{"TURMA", "TURMAS"}
	columnPerson = []string{"NOME DO COORDENADOR", "COORDENADOR", "NOME DO DIRETOR", "DIRETOR", "NOME"}
	columnRole   = []string{"FUNCAO", "CARGO", "PAPEL"}

	columnDirectorQuota    = []string{"DIRETORES", "QTD DIRETORES", "DIRETORES NECESSARIOS"}
	columnCoordinatorQuota = []string{"COORDENADORES", "QTD COORDENADORES", "COORDENADORES NECESSARIOS"}
)
