package container

import (
	"fmt"

	"alocdash/adapters/excel"
	"alocdash/app"
	"alocdash/internal/api"
	"alocdash/internal/config"
	"alocdash/ui"
)

// Container holds the application dependencies built from a Config
type Container struct {
	Config *config.Config

	// Loaders
	ExcelConfig excel.ExcelConfig
	Hierarchy   *excel.HierarchyReader
	Allocations *excel.AllocationReader

	// Services
	Dashboard *app.DashboardService

	// Presentation, set by InitServer
	Server *ui.Server
}

// New wires the loaders and the dashboard service. It leaves the process
// log level alone; main and the CLI set it from cfg.Logging.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{Config: cfg, ExcelConfig: excel.DefaultExcelConfig()}
	c.ExcelConfig.Hierarchy = excel.SheetConfig{Sheet: cfg.Data.HierarchySheet, HeaderRow: cfg.Data.HierarchyHeaderRow}
	c.ExcelConfig.Allocation = excel.SheetConfig{Sheet: cfg.Data.AllocationSheet, HeaderRow: cfg.Data.AllocationHeaderRow}

	c.Hierarchy = excel.NewHierarchyReader(c.ExcelConfig.Hierarchy)
	c.Allocations = excel.NewAllocationReader(c.ExcelConfig.Allocation, c.ExcelConfig.DefaultRole)
	c.Dashboard = app.NewDashboardService(c.Hierarchy, c.Allocations, app.ServiceOptions{
		DataDir: cfg.Data.Dir,
		Defaults: app.Sources{
			HierarchyPath:  cfg.Data.HierarchyFile,
			AllocationPath: cfg.Data.AllocationFile,
		},
		Quotas: app.Quotas{
			Directors:    cfg.Quotas.Directors,
			Coordinators: cfg.Quotas.Coordinators,
		},
		CacheEnabled: cfg.Data.CacheEnabled,
	})

	return c, nil
}

// InitServer builds the HTML server with the JSON API mounted under /api
func (c *Container) InitServer() error {
	server := ui.NewServer(c.Dashboard, ui.Assets)
	if err := server.Initialize(api.NewRouter(c.Dashboard)); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}
	c.Server = server
	return nil
}
