package ui

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"alocdash/app"
	"alocdash/domain/allocation"
	"alocdash/internal/errors"

	"github.com/gin-gonic/gin"
)

// handleDashboard renders GET /
func (s *Server) handleDashboard(c *gin.Context) {
	q, err := parseDashboardQuery(c)
	if err != nil {
		s.renderError(c, err)
		return
	}

	dashboard, err := s.service.Dashboard(c.Request.Context(), q.Sources, q.Role)
	if err != nil {
		s.renderError(c, err)
		return
	}

	s.renderTemplate(c, http.StatusOK, "index.html", s.buildDashboardView(dashboard, q))
}

func parseDashboardQuery(c *gin.Context) (dashboardQuery, error) {
	q := dashboardQuery{
		Report: strings.ToLower(strings.TrimSpace(c.DefaultQuery("relatorio", reportAllocation))),
		Role:   allocation.RoleDirector,
		Region: strings.TrimSpace(c.Query("gre")),
		Hub:    strings.TrimSpace(c.Query("polo")),
		Order:  strings.ToLower(strings.TrimSpace(c.DefaultQuery("ordem", orderPercentage))),
		Sources: app.Sources{
			HierarchyPath:  strings.TrimSpace(c.Query("totais")),
			AllocationPath: strings.TrimSpace(c.Query("alocacao")),
		},
	}

	switch q.Report {
	case reportAllocation, reportApplicators:
	default:
		return q, errors.InvalidInput(fmt.Sprintf("relatório desconhecido: %q", q.Report))
	}
	switch q.Order {
	case orderPercentage, orderSource:
	default:
		return q, errors.InvalidInput(fmt.Sprintf("ordenação desconhecida: %q", q.Order))
	}
	if raw := strings.TrimSpace(c.Query("funcao")); raw != "" {
		role, err := allocation.ParseRole(raw)
		if err != nil {
			return q, errors.WithCode(errors.CodeInvalidInput, err)
		}
		q.Role = role
	}
	return q, nil
}

func (s *Server) buildDashboardView(d *app.Dashboard, q dashboardQuery) DashboardView {
	report := d.Report
	view := DashboardView{
		Title:           "Dashboard de Alocações",
		Report:          q.Report,
		Role:            d.Role,
		RoleLabel:       d.Role.Label(),
		RoleSingle:      d.Role.Singular(),
		Overall:         report.Percentage,
		Totals:          report.Totals,
		Stats:           d.Stats,
		About:           s.panels["sobre"],
		Dropped:         report.Dropped,
		LoadID:          d.LoadID.Short(),
		LoadedAt:        d.LoadedAt.Format("02/01/2006 15:04:05"),
		HierarchySource: filepath.Base(d.Sources.HierarchyPath),
		AllocationFile:  filepath.Base(d.Sources.AllocationPath),
	}

	for _, p := range d.Progress {
		entry := ProgressView{Progress: p}
		if p.Key == app.ApplicatorsKey {
			entry.Href = q.with(reportApplicators, "").link("", "")
			entry.Active = q.Report == reportApplicators
		} else {
			role := allocation.Role(p.Key)
			entry.Href = q.with(reportAllocation, role).link("", "")
			entry.Active = q.Report == reportAllocation && role == d.Role
		}
		view.Progress = append(view.Progress, entry)
	}

	if q.Report == reportApplicators {
		view.Title = "Alocação de Aplicadores"
		view.Panel = s.panels[app.ApplicatorsKey]
		view.Overall = allocation.NA()
		view.Totals = allocation.Counts{}
		return view
	}

	for _, role := range allocation.Roles {
		view.Roles = append(view.Roles, RoleOption{
			Role:     role,
			Label:    role.Label(),
			Href:     q.with(reportAllocation, role).link(q.Region, q.Hub),
			Selected: role == d.Role,
		})
	}
	for _, order := range []struct{ key, label string }{
		{orderPercentage, "Maior percentual"},
		{orderSource, "Ordem da planilha"},
	} {
		oq := q
		oq.Order = order.key
		view.Orders = append(view.Orders, OrderOption{
			Key:      order.key,
			Label:    order.label,
			Href:     oq.link(q.Region, q.Hub),
			Selected: order.key == q.Order,
		})
	}

	regions := report.Regions
	if q.Order == orderPercentage {
		regions = allocation.SortRegionsByPercentage(regions)
	}
	regionID := ""
	if q.Region != "" {
		regionID = app.RegionID(q.Region)
	}
	for _, region := range regions {
		row := RegionRow{
			RegionSummary: region,
			Href:          q.link(region.Name, ""),
			Selected:      region.ID == regionID,
		}
		view.Regions = append(view.Regions, row)
		if row.Selected {
			selected := row
			view.Region = &selected
		}
	}

	if q.Region != "" && view.Region == nil {
		view.Notices = append(view.Notices, fmt.Sprintf("GRE %q não encontrada na base de totais.", q.Region))
		return view
	}
	if view.Region == nil {
		if q.Hub != "" {
			view.Notices = append(view.Notices, "Selecione uma GRE para detalhar o polo.")
		}
		return view
	}

	hubs := view.Region.Hubs
	if q.Order == orderPercentage {
		hubs = allocation.SortHubsByPercentage(hubs)
	}
	hubID := ""
	if q.Hub != "" {
		hubID = app.HubID(q.Region, q.Hub)
	}
	for _, hub := range hubs {
		row := HubRow{
			HubSummary:     hub,
			Href:           q.link(view.Region.Name, hub.Name),
			Selected:       hub.ID == hubID,
			ClassesMissing: hub.Classes - hub.ClassesFilled,
		}
		view.Hubs = append(view.Hubs, row)
		if row.Selected {
			selected := row
			view.Hub = &selected
		}
	}

	if q.Hub != "" && view.Hub == nil {
		view.Notices = append(view.Notices, fmt.Sprintf("Polo %q não encontrado na GRE %s.", q.Hub, view.Region.Name))
		return view
	}
	if view.Hub == nil {
		return view
	}

	view.Schools, view.Status = schoolRows(view.Hub.Schools, d.Role)
	return view
}

// schoolRows keeps the schools in source order and tallies them by status
func schoolRows(schools []allocation.SchoolSummary, role allocation.Role) ([]SchoolRow, []StatusCount) {
	order := []allocation.FillStatus{
		allocation.StatusComplete,
		allocation.StatusPartial,
		allocation.StatusEmpty,
		allocation.StatusNotRequired,
	}
	tally := make(map[allocation.FillStatus]*StatusCount, len(order))
	for _, status := range order {
		tally[status] = &StatusCount{Status: status, Label: status.Label(role)}
	}

	rows := make([]SchoolRow, 0, len(schools))
	for _, school := range schools {
		rows = append(rows, SchoolRow{SchoolSummary: school, StatusLabel: school.Status.Label(role)})
		if count, ok := tally[school.Status]; ok {
			count.Schools++
			count.Classes += school.Classes
		}
	}

	counts := make([]StatusCount, 0, len(order))
	for _, status := range order {
		if tally[status].Schools > 0 {
			counts = append(counts, *tally[status])
		}
	}
	return rows, counts
}

// renderError shows err as a page, with a status derived from its code
func (s *Server) renderError(c *gin.Context, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Dashboard failed (%s): %v", code, err)
	} else {
		s.logger.Warn("Rejected request (%s): %v", code, err)
	}

	s.renderTemplate(c, status, "error.html", ErrorView{
		Title:   "Dashboard de Alocações",
		Status:  status,
		Code:    code,
		Message: err.Error(),
		Home:    "/",
	})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
