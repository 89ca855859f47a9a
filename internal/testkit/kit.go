// Package testkit builds sample workbooks and a dashboard service wired to
// them, for tests and for the CLI's sample command.
package testkit

import (
	"alocdash/adapters/excel"
	"alocdash/app"
	"alocdash/internal/config"
)

// TestKit is a data directory holding both workbooks and a service reading it
type TestKit struct {
	Dir     string
	Files   Files
	Service *app.DashboardService
}

// NewTestKit writes n into dir and wires the Excel readers into a service
// configured like a default deployment
func NewTestKit(dir string, n *Network) (*TestKit, error) {
	files, err := WriteNetwork(dir, n)
	if err != nil {
		return nil, err
	}

	excelConfig := excel.DefaultExcelConfig()
	service := app.NewDashboardService(
		excel.NewHierarchyReader(excelConfig.Hierarchy),
		excel.NewAllocationReader(excelConfig.Allocation, excelConfig.DefaultRole),
		app.ServiceOptions{
			DataDir: dir,
			Defaults: app.Sources{
				HierarchyPath:  config.DefaultHierarchyFile,
				AllocationPath: config.DefaultAllocationFile,
			},
			Quotas:       app.Quotas{Directors: 1, Coordinators: 0},
			CacheEnabled: true,
		},
	)

	return &TestKit{Dir: dir, Files: files, Service: service}, nil
}
