package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"alocdash/domain/allocation"
	"alocdash/domain/core"
	"alocdash/internal"
	"alocdash/internal/errors"
	"alocdash/ports"

	"golang.org/x/sync/errgroup"
)

// Sources names the two files a dashboard is built from
type Sources struct {
	HierarchyPath  string `json:"hierarchy_path"`
	AllocationPath string `json:"allocation_path"`
}

// ServiceOptions configures a DashboardService
type ServiceOptions struct {
	DataDir      string
	Defaults     Sources
	Quotas       Quotas
	CacheEnabled bool
}

// Snapshot is one load of both tables. It is immutable and may be shared.
type Snapshot struct {
	LoadID    core.LoadID
	Sources   Sources
	Hierarchy []allocation.HierarchyRow
	Records   []allocation.AllocationRecord
	Directory *Directory
	LoadedAt  time.Time
	CacheHits int
}

// Progress is one sidebar entry
type Progress struct {
	Key         string                `json:"key"`
	Label       string                `json:"label"`
	Percentage  allocation.Percentage `json:"percentage"`
	Counts      allocation.Counts     `json:"counts"`
	Source      string                `json:"source"`
	Placeholder bool                  `json:"placeholder"`
}

// ApplicatorsKey identifies the applicator report, which has no data source yet
const ApplicatorsKey = "aplicadores"

// Dashboard is everything one page render needs
type Dashboard struct {
	LoadID   core.LoadID                           `json:"load_id"`
	Role     allocation.Role                       `json:"role"`
	Report   *allocation.Report                    `json:"report"`
	Reports  map[allocation.Role]*allocation.Report `json:"-"`
	Progress []Progress                            `json:"progress"`
	Stats    CoverageStats                         `json:"stats"`
	Sources  Sources                               `json:"sources"`
	LoadedAt time.Time                             `json:"loaded_at"`
}

// DashboardService loads the two tables and builds dashboards from them
type DashboardService struct {
	hierarchy   ports.HierarchySource
	allocations ports.AllocationSource
	aggregator  *Aggregator
	options     ServiceOptions
	logger      *internal.Logger

	hierarchyCache  *tableCache[[]allocation.HierarchyRow]
	allocationCache *tableCache[[]allocation.AllocationRecord]
}

// NewDashboardService wires the loaders into a service
func NewDashboardService(hierarchy ports.HierarchySource, allocations ports.AllocationSource, options ServiceOptions) *DashboardService {
	if options.DataDir == "" {
		options.DataDir = "."
	}
	return &DashboardService{
		hierarchy:       hierarchy,
		allocations:     allocations,
		aggregator:      NewAggregator(),
		options:         options,
		logger:          internal.DefaultLogger.With("DashboardService"),
		hierarchyCache:  newTableCache[[]allocation.HierarchyRow](),
		allocationCache: newTableCache[[]allocation.AllocationRecord](),
	}
}

// Defaults returns the configured source files
func (s *DashboardService) Defaults() Sources {
	return s.options.Defaults
}

// ResolveSources fills blanks with the defaults and resolves relative paths
// against the data directory. User-supplied paths may not leave that directory.
func (s *DashboardService) ResolveSources(overrides Sources) (Sources, error) {
	hierarchy, err := s.resolvePath(overrides.HierarchyPath, s.options.Defaults.HierarchyPath)
	if err != nil {
		return Sources{}, err
	}
	allocations, err := s.resolvePath(overrides.AllocationPath, s.options.Defaults.AllocationPath)
	if err != nil {
		return Sources{}, err
	}
	return Sources{HierarchyPath: hierarchy, AllocationPath: allocations}, nil
}

func (s *DashboardService) resolvePath(override, fallback string) (string, error) {
	override = strings.TrimSpace(override)
	if override == "" {
		if filepath.IsAbs(fallback) {
			return filepath.Clean(fallback), nil
		}
		return filepath.Join(s.options.DataDir, fallback), nil
	}

	root, err := filepath.Abs(s.options.DataDir)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve data directory")
	}
	candidate := override
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(root, candidate)
	}
	candidate = filepath.Clean(candidate)

	rel, err := filepath.Rel(root, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("%w: %s", core.ErrPathOutsideRoot, override))
	}
	return candidate, nil
}

// Load reads both tables concurrently, reusing cached tables whose files did
// not change. Any read failure fails the whole load with LOAD_FAILURE.
func (s *DashboardService) Load(ctx context.Context, sources Sources) (*Snapshot, error) {
	snapshot := &Snapshot{
		LoadID:  core.NewLoadID(),
		Sources: sources,
	}

	var hierarchyHit, allocationHit bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, hit, err := s.loadHierarchy(gctx, sources.HierarchyPath)
		if err != nil {
			return errors.LoadFailure("a base de totais ("+filepath.Base(sources.HierarchyPath)+")", err)
		}
		snapshot.Hierarchy, hierarchyHit = rows, hit
		return nil
	})
	g.Go(func() error {
		records, hit, err := s.loadAllocations(gctx, sources.AllocationPath)
		if err != nil {
			return errors.LoadFailure("a base de alocação ("+filepath.Base(sources.AllocationPath)+")", err)
		}
		snapshot.Records, allocationHit = records, hit
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Load %s failed: %v", snapshot.LoadID, err)
		return nil, err
	}

	for _, hit := range []bool{hierarchyHit, allocationHit} {
		if hit {
			snapshot.CacheHits++
		}
	}
	snapshot.Directory = BuildDirectory(snapshot.Hierarchy, s.options.Quotas)
	snapshot.LoadedAt = time.Now()

	s.logger.Info("Load %s: %d hierarchy rows, %d schools, %d allocation records (%d cached tables)",
		snapshot.LoadID, len(snapshot.Hierarchy), len(snapshot.Directory.Schools), len(snapshot.Records), snapshot.CacheHits)
	return snapshot, nil
}

func (s *DashboardService) loadHierarchy(ctx context.Context, path string) ([]allocation.HierarchyRow, bool, error) {
	load := func() ([]allocation.HierarchyRow, error) {
		return s.hierarchy.LoadHierarchy(ctx, path)
	}
	if !s.options.CacheEnabled {
		rows, err := load()
		return rows, false, err
	}
	return s.hierarchyCache.get(path, load)
}

func (s *DashboardService) loadAllocations(ctx context.Context, path string) ([]allocation.AllocationRecord, bool, error) {
	load := func() ([]allocation.AllocationRecord, error) {
		return s.allocations.LoadAllocations(ctx, path)
	}
	if !s.options.CacheEnabled {
		records, err := load()
		return records, false, err
	}
	return s.allocationCache.get(path, load)
}

// InvalidateCache forgets every cached table
func (s *DashboardService) InvalidateCache() {
	s.hierarchyCache.invalidate()
	s.allocationCache.invalidate()
}

// Report joins and aggregates a snapshot for one role
func (s *DashboardService) Report(snapshot *Snapshot, role allocation.Role) *allocation.Report {
	rows, dropped := Join(snapshot.Directory, snapshot.Records, role)
	return s.aggregator.Aggregate(role, rows, dropped)
}

// Build computes the reports of every role and the sidebar progress.
// role selects the report shown in the main area.
func (s *DashboardService) Build(snapshot *Snapshot, role allocation.Role) *Dashboard {
	if role == "" {
		role = allocation.RoleDirector
	}

	dashboard := &Dashboard{
		LoadID:   snapshot.LoadID,
		Role:     role,
		Reports:  make(map[allocation.Role]*allocation.Report, len(allocation.Roles)),
		Sources:  snapshot.Sources,
		LoadedAt: snapshot.LoadedAt,
	}
	for _, r := range allocation.Roles {
		report := s.Report(snapshot, r)
		dashboard.Reports[r] = report
		dashboard.Progress = append(dashboard.Progress, Progress{
			Key:        string(r),
			Label:      "Alocação de " + r.Label(),
			Percentage: report.Percentage,
			Counts:     report.Totals,
			Source:     filepath.Base(snapshot.Sources.AllocationPath),
		})
	}
	dashboard.Progress = append(dashboard.Progress, Progress{
		Key:         ApplicatorsKey,
		Label:       "Alocação de Aplicadores",
		Percentage:  allocation.NA(),
		Source:      "será adicionada futuramente",
		Placeholder: true,
	})

	dashboard.Report = dashboard.Reports[role]
	dashboard.Stats = ComputeCoverageStats(dashboard.Report)
	return dashboard
}

// Dashboard resolves the sources, loads them and builds the dashboard for role
func (s *DashboardService) Dashboard(ctx context.Context, overrides Sources, role allocation.Role) (*Dashboard, error) {
	sources, err := s.ResolveSources(overrides)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.Load(ctx, sources)
	if err != nil {
		return nil, err
	}
	return s.Build(snapshot, role), nil
}
