// Package viewstate owns the catalog filter criteria and the derived visible
// subset.
//
// A State is constructed explicitly and handed to the presentation layer.
// Every mutation holds a single lock while it updates the criteria and
// re-derives the visible subset, so a caller issuing mutations sequentially
// never observes a view that is stale with respect to the criteria.
package viewstate

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/daviddao/agents_catalog_viewer/internal/catalog"
	"github.com/daviddao/agents_catalog_viewer/internal/snapshot"
)

// Loader produces the full record collection or fails with a
// human-readable error.
type Loader interface {
	Load(ctx context.Context) ([]catalog.Agent, error)
}

// State is the view state container.
type State struct {
	mu  sync.Mutex
	log *zap.Logger

	records  []catalog.Agent
	facets   catalog.Facets
	criteria catalog.Criteria
	visible  []catalog.Agent

	phase    snapshot.Phase
	loadErr  error
	loadedAt time.Time
}

// New returns an idle State with default criteria and no records.
// A nil logger disables logging.
func New(log *zap.Logger) *State {
	if log == nil {
		log = zap.NewNop()
	}
	return &State{
		log:      log,
		criteria: catalog.DefaultCriteria(),
		visible:  []catalog.Agent{},
	}
}

// derive recomputes the visible subset. Callers must hold s.mu.
func (s *State) derive() {
	s.visible = catalog.Derive(s.records, s.criteria)
	s.log.Debug("derived visible subset",
		zap.Int("visible", len(s.visible)),
		zap.Int("total", len(s.records)),
		zap.String("sort", string(s.criteria.SortBy)))
}

// mutate applies fn to the criteria and re-derives under the lock.
func (s *State) mutate(fn func(c *catalog.Criteria)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.criteria)
	s.derive()
}

// --- Load lifecycle ---

// BeginLoad moves the state to loading and clears any previous error.
// Records, facets and criteria are left untouched.
func (s *State) BeginLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = snapshot.PhaseLoading
	s.loadErr = nil
}

// Load replaces the record collection, recomputes the facet option sets and
// re-derives the visible subset with the current criteria. Criteria are not
// reset. The state becomes ready.
//
// Records are normalized first. A collection with duplicate ids is rejected
// through FailLoad and the error is returned.
func (s *State) Load(records []catalog.Agent) error {
	records, err := catalog.Normalize(records)
	if err != nil {
		s.FailLoad(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.facets = catalog.ComputeFacets(s.records)
	s.phase = snapshot.PhaseReady
	s.loadErr = nil
	s.loadedAt = time.Now()
	s.derive()
	s.log.Info("catalog loaded", zap.Int("records", len(s.records)))
	return nil
}

// FailLoad records a load failure. The record collection is unchanged and
// nothing is retried.
func (s *State) FailLoad(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = snapshot.PhaseFailed
	s.loadErr = err
	s.log.Warn("catalog load failed", zap.Error(err))
}

// Fetch runs a complete load cycle against l.
func (s *State) Fetch(ctx context.Context, l Loader) error {
	s.BeginLoad()
	records, err := l.Load(ctx)
	if err != nil {
		s.FailLoad(err)
		return err
	}
	return s.Load(records)
}

// --- Criteria mutations ---

// SetSearchQuery replaces the search text.
func (s *State) SetSearchQuery(q string) {
	s.mutate(func(c *catalog.Criteria) { c.SearchQuery = q })
}

// SetSortKey replaces the sort key. Unrecognized keys are stored as given and
// leave records in load order.
func (s *State) SetSortKey(k catalog.SortKey) {
	s.mutate(func(c *catalog.Criteria) { c.SortBy = k })
}

// SetPricingModelFilter selects one pricing model, or catalog.PricingAll.
func (s *State) SetPricingModelFilter(v string) {
	s.mutate(func(c *catalog.Criteria) { c.PricingModel = v })
}

// AddStatusFilter adds status to the selection. Adding twice is a no-op.
func (s *State) AddStatusFilter(status string) {
	s.mutate(func(c *catalog.Criteria) { c.Statuses = catalog.AddTo(c.Statuses, status) })
}

// RemoveStatusFilter drops status from the selection.
func (s *State) RemoveStatusFilter(status string) {
	s.mutate(func(c *catalog.Criteria) { c.Statuses = catalog.RemoveFrom(c.Statuses, status) })
}

// ToggleStatusFilter adds status when checked and removes it otherwise.
func (s *State) ToggleStatusFilter(status string, checked bool) {
	if checked {
		s.AddStatusFilter(status)
		return
	}
	s.RemoveStatusFilter(status)
}

// SetStatusFilters replaces the whole status selection.
func (s *State) SetStatusFilters(statuses []string) {
	s.mutate(func(c *catalog.Criteria) { c.Statuses = catalog.Dedupe(statuses) })
}

// AddCategoryFilter adds category to the selection. Adding twice is a no-op.
func (s *State) AddCategoryFilter(category string) {
	s.mutate(func(c *catalog.Criteria) { c.Categories = catalog.AddTo(c.Categories, category) })
}

// RemoveCategoryFilter drops category from the selection.
func (s *State) RemoveCategoryFilter(category string) {
	s.mutate(func(c *catalog.Criteria) { c.Categories = catalog.RemoveFrom(c.Categories, category) })
}

// ToggleCategoryFilter adds category when checked and removes it otherwise.
func (s *State) ToggleCategoryFilter(category string, checked bool) {
	if checked {
		s.AddCategoryFilter(category)
		return
	}
	s.RemoveCategoryFilter(category)
}

// SetCategoryFilters replaces the whole category selection.
func (s *State) SetCategoryFilters(categories []string) {
	s.mutate(func(c *catalog.Criteria) { c.Categories = catalog.Dedupe(categories) })
}

// ClearAllFilters resets every criterion, including the sort key, to its
// default.
func (s *State) ClearAllFilters() {
	s.mutate(func(c *catalog.Criteria) { *c = catalog.DefaultCriteria() })
}

// --- Reads ---

// Visible returns a copy of the derived visible subset.
func (s *State) Visible() []catalog.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.visible)
}

// Criteria returns a copy of the current criteria.
func (s *State) Criteria() catalog.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria.Clone()
}

// Facets returns the option sets computed at the last successful load.
func (s *State) Facets() catalog.Facets {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneFacets(s.facets)
}

// HasActiveFilters reports whether any filter dimension is restricting.
func (s *State) HasActiveFilters() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria.HasActiveFilters()
}

// Phase returns the load lifecycle stage.
func (s *State) Phase() snapshot.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Err returns the last load failure, or nil.
func (s *State) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Total returns the size of the full record collection.
func (s *State) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// LoadedAt returns when the last successful load completed.
func (s *State) LoadedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadedAt
}

// Snapshot captures the whole state under one lock.
func (s *State) Snapshot() *snapshot.DataSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var msg string
	if s.loadErr != nil {
		msg = s.loadErr.Error()
	}
	return &snapshot.DataSnapshot{
		Phase:            s.phase,
		Err:              msg,
		Criteria:         s.criteria.Clone(),
		Facets:           cloneFacets(s.facets),
		Visible:          slices.Clone(s.visible),
		Total:            len(s.records),
		HasActiveFilters: s.criteria.HasActiveFilters(),
		LoadedAt:         s.loadedAt,
		BuiltAt:          time.Now(),
	}
}

func cloneFacets(f catalog.Facets) catalog.Facets {
	return catalog.Facets{
		Statuses:      slices.Clone(f.Statuses),
		Categories:    slices.Clone(f.Categories),
		PricingModels: slices.Clone(f.PricingModels),
	}
}
