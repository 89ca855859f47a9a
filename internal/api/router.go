// Package api serves the dashboard data as JSON for scripts and other tools.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"alocdash/app"
	"alocdash/domain/allocation"
	"alocdash/domain/core"
	"alocdash/internal"
	"alocdash/internal/errors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Prefix is where the router expects to be mounted
const Prefix = "/api"

const requestTimeout = 60 * time.Second

// Handler answers the JSON endpoints from a DashboardService
type Handler struct {
	service *app.DashboardService
	logger  *internal.Logger
}

// NewRouter builds the chi router with every endpoint under Prefix
func NewRouter(service *app.DashboardService) http.Handler {
	h := &Handler{
		service: service,
		logger:  internal.DefaultLogger.With("API"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(h.logRequests)

	r.Route(Prefix, func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/report", h.report)
		r.Get("/progress", h.progress)
		r.Get("/regions/{region}", h.region)
		r.Get("/regions/{region}/hubs/{hub}", h.hub)
		r.Post("/cache/invalidate", h.invalidateCache)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeError(w, errors.NotFound("endpoint "+r.URL.Path))
	})
	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("%s %s -> %d in %s [%s]", r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
	})
}

// reportResponse is the body of GET /api/report
type reportResponse struct {
	LoadID   string                    `json:"load_id"`
	Role     allocation.Role           `json:"role"`
	Sources  app.Sources               `json:"sources"`
	LoadedAt time.Time                 `json:"loaded_at"`
	Stats    app.CoverageStats         `json:"stats"`
	Report   *allocation.Report        `json:"report,omitempty"`
	Region   *allocation.RegionSummary `json:"region,omitempty"`
	Hub      *allocation.HubSummary    `json:"hub,omitempty"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	d, err := h.load(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newReportResponse(d))
}

func (h *Handler) progress(w http.ResponseWriter, r *http.Request) {
	d, err := h.load(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"load_id":  d.LoadID.String(),
		"progress": d.Progress,
	})
}

func (h *Handler) region(w http.ResponseWriter, r *http.Request) {
	region, err := pathParam(r, "region")
	if err != nil {
		h.writeError(w, err)
		return
	}
	d, err := h.load(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	summary, ok := d.Report.Region(app.RegionID(region))
	if !ok {
		h.writeError(w, errors.WithCode(errors.CodeNotFound, fmt.Errorf("%w: %s", core.ErrRegionNotFound, region)))
		return
	}
	resp := newReportResponse(d)
	resp.Report = nil
	resp.Region = summary
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) hub(w http.ResponseWriter, r *http.Request) {
	region, err := pathParam(r, "region")
	if err != nil {
		h.writeError(w, err)
		return
	}
	hub, err := pathParam(r, "hub")
	if err != nil {
		h.writeError(w, err)
		return
	}
	d, err := h.load(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	summary, ok := d.Report.Hub(app.HubID(region, hub))
	if !ok {
		h.writeError(w, errors.WithCode(errors.CodeNotFound, fmt.Errorf("%w: %s / %s", core.ErrHubNotFound, region, hub)))
		return
	}
	resp := newReportResponse(d)
	resp.Report = nil
	resp.Hub = summary
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) invalidateCache(w http.ResponseWriter, r *http.Request) {
	h.service.InvalidateCache()
	h.logger.Info("Table cache invalidated [%s]", middleware.GetReqID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// load reads funcao, alocacao and totais from the query and builds the dashboard
func (h *Handler) load(r *http.Request) (*app.Dashboard, error) {
	query := r.URL.Query()
	role := allocation.RoleDirector
	if raw := strings.TrimSpace(query.Get("funcao")); raw != "" {
		parsed, err := allocation.ParseRole(raw)
		if err != nil {
			return nil, errors.WithCode(errors.CodeInvalidInput, err)
		}
		role = parsed
	}
	overrides := app.Sources{
		HierarchyPath:  query.Get("totais"),
		AllocationPath: query.Get("alocacao"),
	}
	return h.service.Dashboard(r.Context(), overrides, role)
}

func newReportResponse(d *app.Dashboard) reportResponse {
	return reportResponse{
		LoadID: d.LoadID.String(),
		Role:   d.Role,
		Sources: app.Sources{
			HierarchyPath:  filepath.Base(d.Sources.HierarchyPath),
			AllocationPath: filepath.Base(d.Sources.AllocationPath),
		},
		LoadedAt: d.LoadedAt,
		Stats:    d.Stats,
		Report:   d.Report,
	}
}

// pathParam returns a decoded URL parameter. chi routes on RawPath when the
// request has one, so only then is the value still escaped.
func pathParam(r *http.Request, key string) (string, error) {
	value := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return value, nil
	}
	value, err := url.PathUnescape(value)
	if err != nil {
		return "", errors.WithCode(errors.CodeInvalidInput, err)
	}
	return value, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := errors.GetCode(err)
	switch code {
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed (%s): %v", code, err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "code": code})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
