package ui

import (
	"html/template"
	"net/url"

	"alocdash/app"
	"alocdash/domain/allocation"
)

const (
	reportAllocation  = "diretores"
	reportApplicators = app.ApplicatorsKey

	orderPercentage = "percentual"
	orderSource     = "origem"
)

// dashboardQuery is the parsed query string of GET /
type dashboardQuery struct {
	Report  string
	Role    allocation.Role
	Region  string
	Hub     string
	Order   string
	Sources app.Sources
}

// link builds a dashboard URL keeping report, role, order and source overrides
func (q dashboardQuery) link(region, hub string) string {
	v := url.Values{}
	if q.Report != reportAllocation {
		v.Set("relatorio", q.Report)
	}
	if q.Role != allocation.RoleDirector {
		v.Set("funcao", string(q.Role))
	}
	if q.Order != orderPercentage {
		v.Set("ordem", q.Order)
	}
	if q.Sources.AllocationPath != "" {
		v.Set("alocacao", q.Sources.AllocationPath)
	}
	if q.Sources.HierarchyPath != "" {
		v.Set("totais", q.Sources.HierarchyPath)
	}
	if region != "" {
		v.Set("gre", region)
	}
	if hub != "" {
		v.Set("polo", hub)
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

// with returns a copy of q switched to another report or role
func (q dashboardQuery) with(report string, role allocation.Role) dashboardQuery {
	q.Report = report
	if role != "" {
		q.Role = role
	}
	return q
}

type ProgressView struct {
	app.Progress
	Href   string
	Active bool
}

type RegionRow struct {
	allocation.RegionSummary
	Href     string
	Selected bool
}

type HubRow struct {
	allocation.HubSummary
	Href           string
	Selected       bool
	ClassesMissing int
}

type SchoolRow struct {
	allocation.SchoolSummary
	StatusLabel string
}

// StatusCount is one slice of the per-polo status breakdown
type StatusCount struct {
	Status  allocation.FillStatus
	Label   string
	Schools int
	Classes int
}

type RoleOption struct {
	Role     allocation.Role
	Label    string
	Href     string
	Selected bool
}

type OrderOption struct {
	Key      string
	Label    string
	Href     string
	Selected bool
}

// DashboardView is the data behind index.html
type DashboardView struct {
	Title      string
	Report     string
	Role       allocation.Role
	RoleLabel  string
	RoleSingle string
	Roles      []RoleOption
	Orders     []OrderOption

	Progress []ProgressView
	Overall  allocation.Percentage
	Totals   allocation.Counts
	Stats    app.CoverageStats

	Regions []RegionRow
	Region  *RegionRow
	Hubs    []HubRow
	Hub     *HubRow
	Schools []SchoolRow
	Status  []StatusCount

	Panel   template.HTML
	About   template.HTML
	Notices []string
	Dropped []allocation.DroppedRow

	LoadID          string
	LoadedAt        string
	HierarchySource string
	AllocationFile  string
}

// ErrorView is the data behind error.html
type ErrorView struct {
	Title   string
	Status  int
	Code    string
	Message string
	Home    string
}
