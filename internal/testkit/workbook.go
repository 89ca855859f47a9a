package testkit

import (
	"fmt"
	"os"
	"path/filepath"

	"alocdash/internal/config"

	"github.com/xuri/excelize/v2"
)

// Files are the paths written by WriteNetwork
type Files struct {
	Hierarchy  string
	Allocation string
}

// WriteWorkbook saves rows on the named sheet of a new workbook at path.
// An empty sheet keeps the default "Sheet1".
func WriteWorkbook(path, sheet string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if sheet != "" && sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("failed to rename sheet: %w", err)
		}
	} else {
		sheet = defaultSheet
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// WriteNetwork writes both workbooks into dir under their default names
func WriteNetwork(dir string, n *Network) (Files, error) {
	files := Files{
		Hierarchy:  filepath.Join(dir, config.DefaultHierarchyFile),
		Allocation: filepath.Join(dir, config.DefaultAllocationFile),
	}
	if err := WriteWorkbook(files.Hierarchy, "", n.Hierarchy); err != nil {
		return Files{}, fmt.Errorf("writing %s: %w", files.Hierarchy, err)
	}
	if err := WriteWorkbook(files.Allocation, config.DefaultAllocationTab, n.Allocation); err != nil {
		return Files{}, fmt.Errorf("writing %s: %w", files.Allocation, err)
	}
	return files, nil
}
