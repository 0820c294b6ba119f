// Package snapshot defines immutable views of the catalog view state.
//
// A DataSnapshot captures the load phase, the active criteria, the facet
// option sets and the derived visible subset at a point in time. Snapshots
// are rebuilt after every state change and swapped into the UI model, so
// rendering never observes a half-applied mutation.
package snapshot

import (
	"fmt"
	"time"

	"github.com/daviddao/agents_catalog_viewer/internal/catalog"
)

// Phase is the load lifecycle stage of the view state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseFailed:
		return "failed"
	}
	return "?"
}

// DataSnapshot is a self-contained copy of the view state. None of its
// slices are shared with the state it was taken from.
type DataSnapshot struct {
	Phase Phase
	// Err is the load failure message, empty unless Phase is PhaseFailed.
	Err string

	Criteria catalog.Criteria
	Facets   catalog.Facets
	Visible  []catalog.Agent

	// Total is the size of the full record collection.
	Total            int
	HasActiveFilters bool

	// LoadedAt is the completion time of the last successful load.
	LoadedAt time.Time
	BuiltAt  time.Time
}

// Summary renders the "Showing X of Y" line shown above the results.
func (s *DataSnapshot) Summary() string {
	line := fmt.Sprintf("Showing %d of %d AI agents", len(s.Visible), s.Total)
	if s.HasActiveFilters {
		line += " (filtered)"
	}
	return line
}

// Find returns the visible record with the given id.
func (s *DataSnapshot) Find(id string) (catalog.Agent, bool) {
	for _, a := range s.Visible {
		if a.ID == id {
			return a, true
		}
	}
	return catalog.Agent{}, false
}

// IndexOf returns the position of id in the visible subset, or -1.
func (s *DataSnapshot) IndexOf(id string) int {
	for i, a := range s.Visible {
		if a.ID == id {
			return i
		}
	}
	return -1
}
