package excel

// RawRowData represents a row of raw spreadsheet data keyed by normalized header
type RawRowData map[string]string

// ExcelData represents one sheet read from a workbook or CSV file
type ExcelData struct {
	Source     string       // File the data came from
	Sheet      string       // Sheet name; empty for CSV
	Headers    []string     // Normalized column headers
	Rows       []RawRowData // Data rows, blank rows removed
	RowNumbers []int        // 1-based spreadsheet row of each entry in Rows
}

// Column returns the first header present among the aliases
func (d *ExcelData) Column(aliases ...string) (string, bool) {
	for _, alias := range aliases {
		for _, header := range d.Headers {
			if header == alias {
				return header, true
			}
		}
	}
	return "", false
}
