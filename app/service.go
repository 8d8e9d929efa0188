// Package app wires the repository, planning core and observability
// sinks into the service surface consumed by the presentation layer.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/citadelmro/capplan/config"
	"github.com/citadelmro/capplan/core/calendar"
	"github.com/citadelmro/capplan/core/capacity"
	"github.com/citadelmro/capplan/core/hangar"
	"github.com/citadelmro/capplan/core/load"
	coremetrics "github.com/citadelmro/capplan/core/metrics"
	"github.com/citadelmro/capplan/core/model"
	coremon "github.com/citadelmro/capplan/core/monitoring"
	"github.com/citadelmro/capplan/core/repository"
	"github.com/citadelmro/capplan/core/whatif"
	"github.com/citadelmro/capplan/infra/logger"
	_ "github.com/citadelmro/capplan/infra/metrics" // register sinks
	"github.com/citadelmro/capplan/infra/monitoring"
	_ "github.com/citadelmro/capplan/infra/store" // register backends
	"github.com/citadelmro/capplan/internal/eventbus"
)

// Snapshot is one immutable read of the repository. Computations always
// run against a single snapshot; a refresh swaps in a new one whole.
type Snapshot struct {
	Confirmed   []model.Project    `json:"projects"`
	Potential   []model.Project    `json:"potential"`
	Actual      []model.Project    `json:"actual"`
	Departments []model.Department `json:"depts"`
	TakenAt     time.Time          `json:"taken_at"`
}

// Service exposes the dashboard computation surface.
type Service struct {
	repo    repository.Repository
	sink    coremetrics.PlanSink
	monitor coremon.Monitor
	bus     eventbus.EventBus
	engine  *hangar.Engine
	log     logger.Logger

	params    capacity.Params
	overrides []hangar.Override
	planner   config.PlannerConfig

	mu        sync.RWMutex
	snapshot  Snapshot
	potFilter map[string]bool

	// Today anchors actual-truncation and lead-time math; overridable
	// for tests.
	Today time.Time
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	repo, err := repository.NewBackend(cfg.Repository)
	if err != nil {
		return nil, fmt.Errorf("repository backend: %w", err)
	}
	sink, err := coremetrics.NewPlanSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("plan sink: %w", err)
	}
	monitor, err := monitoring.NewSentryMonitor(monitoring.Config{
		DSN:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Release:          cfg.Sentry.Release,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry monitor: %w", err)
	}
	return &Service{
		repo:      repo,
		sink:      sink,
		monitor:   monitor,
		bus:       eventbus.New(),
		engine:    hangar.NewEngine(logg),
		log:       logg,
		params:    cfg.Planner.Params(),
		overrides: cfg.Planner.HangarOverrides(),
		planner:   cfg.Planner,
		Today:     time.Now().UTC(),
	}, nil
}

// NewWithRepository builds a Service around an existing repository,
// bypassing configuration. Used by tests and embedders.
func NewWithRepository(repo repository.Repository, planner config.PlannerConfig, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	planner.SetDefaults()
	return &Service{
		repo:      repo,
		sink:      coremetrics.NopSink{},
		monitor:   coremon.NopMonitor{},
		bus:       eventbus.New(),
		engine:    hangar.NewEngine(log),
		log:       log,
		params:    planner.Params(),
		overrides: planner.HangarOverrides(),
		planner:   planner,
		Today:     time.Now().UTC(),
	}
}

// Events returns the bus announcing snapshot and plan activity.
func (s *Service) Events() eventbus.EventBus { return s.bus }

// SetPotentialFilter restricts the potential dataset to the given
// project numbers on the next refresh. An empty list includes all.
func (s *Service) SetPotentialFilter(numbers []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(numbers) == 0 {
		s.potFilter = nil
		return
	}
	s.potFilter = make(map[string]bool, len(numbers))
	for _, n := range numbers {
		s.potFilter[n] = true
	}
}

// SetParams replaces the capacity parameters, clamped to their domain.
func (s *Service) SetParams(p capacity.Params) {
	s.mu.Lock()
	s.params = p.Clamp()
	s.mu.Unlock()
}

// Refresh reads a fresh snapshot from the repository. The newest
// snapshot always wins; computations in flight keep their old copy.
func (s *Service) Refresh(ctx context.Context) error {
	confirmed, err := s.listDataset(ctx, model.CategoryConfirmed)
	if err != nil {
		return err
	}
	potential, err := s.listDataset(ctx, model.CategoryPotential)
	if err != nil {
		return err
	}
	actual, err := s.listDataset(ctx, model.CategoryActual)
	if err != nil {
		return err
	}
	depts, err := s.repo.ListDepartments(ctx)
	if err != nil {
		s.monitor.CaptureException(err, map[string]string{"stage": "departments"})
		return fmt.Errorf("list departments: %w", err)
	}

	s.mu.Lock()
	if s.potFilter != nil {
		filtered := potential[:0]
		for _, p := range potential {
			if s.potFilter[p.Number] {
				filtered = append(filtered, p)
			}
		}
		potential = filtered
	}
	s.snapshot = Snapshot{
		Confirmed:   confirmed,
		Potential:   potential,
		Actual:      actual,
		Departments: depts,
		TakenAt:     time.Now().UTC(),
	}
	snap := s.snapshot
	s.mu.Unlock()

	s.bus.Publish(SnapshotEvent{
		Projects:    len(snap.Confirmed) + len(snap.Potential) + len(snap.Actual),
		Departments: len(snap.Departments),
		At:          snap.TakenAt,
	})
	s.log.Infof("snapshot: %d confirmed, %d potential, %d actual, %d departments",
		len(snap.Confirmed), len(snap.Potential), len(snap.Actual), len(snap.Departments))
	return nil
}

func (s *Service) listDataset(ctx context.Context, c model.Category) ([]model.Project, error) {
	out, err := s.repo.ListProjects(ctx, c)
	if err != nil {
		s.monitor.CaptureException(err, map[string]string{"stage": "projects", "category": c.String()})
		return nil, fmt.Errorf("list %s: %w", c, err)
	}
	return out, nil
}

// CurrentSnapshot returns the snapshot computations run against.
func (s *Service) CurrentSnapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// SnapshotJSON serializes the current snapshot for export.
func (s *Service) SnapshotJSON() ([]byte, error) {
	snap := s.CurrentSnapshot()
	return json.MarshalIndent(snap, "", "  ")
}

// Periods returns the label sequence spanning the current snapshot.
func (s *Service) Periods(g calendar.Granularity) []calendar.Period {
	snap := s.CurrentSnapshot()
	return calendar.Labels(g, s.Today, snap.Confirmed, snap.Potential, snap.Actual)
}

func (s *Service) department(key string) (model.Department, error) {
	for _, d := range s.CurrentSnapshot().Departments {
		if d.Key == key {
			return d, nil
		}
	}
	return model.Department{}, fmt.Errorf("unknown department %q", key)
}

func (s *Service) dataset(snap Snapshot, c model.Category) []model.Project {
	switch c {
	case model.CategoryPotential:
		return snap.Potential
	case model.CategoryActual:
		return snap.Actual
	default:
		return snap.Confirmed
	}
}

// GetLoadSeries aggregates one dataset for one department.
func (s *Service) GetLoadSeries(deptKey string, category model.Category, g calendar.Granularity) (load.Series, error) {
	dept, err := s.department(deptKey)
	if err != nil {
		return load.Series{}, err
	}
	snap := s.CurrentSnapshot()
	agg := load.New(s.Today, s.log)
	return agg.Build(dept, s.dataset(snap, category), s.Periods(g)), nil
}

// GetCapacitySeries returns the per-period capacity for a department.
func (s *Service) GetCapacitySeries(deptKey string, g calendar.Granularity) ([]float64, error) {
	dept, err := s.department(deptKey)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	params := s.params
	s.mu.RUnlock()
	return capacity.Series(dept, s.Periods(g), params), nil
}

// GetUtilizationSeries derives utilization, optionally counting the
// potential dataset on top of confirmed load.
func (s *Service) GetUtilizationSeries(deptKey string, g calendar.Granularity, includePotential bool) ([]float64, error) {
	loadSeries, err := s.combinedLoad(deptKey, g, includePotential)
	if err != nil {
		return nil, err
	}
	capSeries, err := s.GetCapacitySeries(deptKey, g)
	if err != nil {
		return nil, err
	}
	util := capacity.UtilizationSeries(loadSeries, capSeries)
	s.recordUtilization(deptKey, s.Periods(g), loadSeries, capSeries, util)
	return util, nil
}

func (s *Service) combinedLoad(deptKey string, g calendar.Granularity, includePotential bool) ([]float64, error) {
	confirmed, err := s.GetLoadSeries(deptKey, model.CategoryConfirmed, g)
	if err != nil {
		return nil, err
	}
	total := append([]float64(nil), confirmed.Values...)
	if includePotential {
		potential, err := s.GetLoadSeries(deptKey, model.CategoryPotential, g)
		if err != nil {
			return nil, err
		}
		for i := range total {
			total[i] += potential.Values[i]
		}
	}
	return total, nil
}

// Summary computes the dashboard metric bar for one department.
func (s *Service) Summary(deptKey string, g calendar.Granularity, includePotential bool) (capacity.Summary, error) {
	dept, err := s.department(deptKey)
	if err != nil {
		return capacity.Summary{}, err
	}
	loadSeries, err := s.combinedLoad(deptKey, g, includePotential)
	if err != nil {
		return capacity.Summary{}, err
	}
	s.mu.RLock()
	params := s.params
	s.mu.RUnlock()
	periods := s.Periods(g)
	capSeries := capacity.Series(dept, periods, params)
	return capacity.Summarize(periods, loadSeries, capSeries, capacity.Weekly(dept, params)), nil
}

// ComputeWhatIf runs the advisory impact calculation against the
// confirmed load of the current snapshot.
func (s *Service) ComputeWhatIf(req whatif.Request) (whatif.Result, error) {
	snap := s.CurrentSnapshot()
	s.mu.RLock()
	params := s.params
	s.mu.RUnlock()
	periods := s.Periods(calendar.Weekly)
	agg := load.New(s.Today, s.log)
	confirmedLoad := make(map[string][]float64, len(snap.Departments))
	for _, d := range snap.Departments {
		confirmedLoad[d.Key] = agg.Build(d, snap.Confirmed, periods).Values
	}
	calc := whatif.Calculator{Today: s.Today, Params: params}
	return calc.Compute(req, snap.Departments, periods, confirmedLoad), nil
}

// ComputeHangarPlan assigns bays for `count` periods starting at the
// period containing `from` (or the first snapshot period when zero).
// Overrides passed here extend the configured pin list.
func (s *Service) ComputeHangarPlan(from time.Time, count int, includePotential bool, overrides []hangar.Override) []hangar.PeriodAssignment {
	snap := s.CurrentSnapshot()
	periods := s.Periods(calendar.Weekly)
	if !from.IsZero() {
		trimmed := periods[:0:0]
		for _, p := range periods {
			if _, end := p.Bounds(); !end.Before(from) {
				trimmed = append(trimmed, p)
			}
		}
		periods = trimmed
	}
	if count <= 0 {
		count = s.planner.PlanPeriods
	}
	if count > 0 && count < len(periods) {
		periods = periods[:count]
	}
	s.mu.RLock()
	pins := append(append([]hangar.Override(nil), s.overrides...), overrides...)
	s.mu.RUnlock()

	plan := s.engine.Plan(periods, includePotential, pins, snap.Confirmed, snap.Potential)
	s.recordPlan(plan)
	return plan
}

func (s *Service) recordPlan(plan []hangar.PeriodAssignment) {
	now := time.Now().UTC()
	records := make([]coremetrics.PlanRecord, 0, len(plan))
	conflicts := 0
	for _, pa := range plan {
		occupied := 0
		for _, b := range pa.Bays {
			occupied += len(b.Occupants)
		}
		records = append(records, coremetrics.PlanRecord{
			Period:    pa.Period,
			Occupied:  occupied,
			Conflicts: len(pa.Conflicts),
			Computed:  now,
		})
		conflicts += len(pa.Conflicts)
		if len(pa.Conflicts) > 0 {
			s.bus.Publish(ConflictEvent{Period: pa.Period.Label(), Aircraft: pa.Conflicts})
		}
	}
	if err := s.sink.RecordPlan(records); err != nil {
		s.log.Errorf("plan sink: %v", err)
	}
	s.bus.Publish(PlanEvent{Periods: len(plan), Conflicts: conflicts, At: now})
}

func (s *Service) recordUtilization(deptKey string, periods []calendar.Period, loadSeries, capSeries, util []float64) {
	ur, ok := s.sink.(coremetrics.UtilizationRecorder)
	if !ok {
		return
	}
	now := time.Now().UTC()
	samples := make([]coremetrics.UtilizationSample, 0, len(periods))
	for i := range periods {
		samples = append(samples, coremetrics.UtilizationSample{
			Department:  deptKey,
			Period:      periods[i],
			LoadHours:   loadSeries[i],
			Capacity:    capSeries[i],
			Utilization: util[i],
			Computed:    now,
		})
	}
	if err := ur.RecordUtilization(samples); err != nil {
		s.log.Errorf("utilization sink: %v", err)
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	s.monitor.Flush()
	return s.repo.Close()
}
