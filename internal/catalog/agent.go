// Package catalog holds the agent record model and the pure filter/sort
// engine that projects a record collection onto the visible subset.
//
// Nothing in this package performs I/O or keeps state between calls.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrDuplicateID is returned by Normalize when two records share an id.
var ErrDuplicateID = errors.New("duplicate agent id")

// Agent is one catalog entry. Records are treated as immutable once loaded.
type Agent struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	Category     string `json:"category" yaml:"category"`
	Status       string `json:"status" yaml:"status"`
	PricingModel string `json:"pricingModel" yaml:"pricingModel"`
}

// Normalize trims every field, assigns a random id to records without one,
// and rejects collections in which an id appears twice.
// The input slice is not modified.
func Normalize(agents []Agent) ([]Agent, error) {
	out := make([]Agent, len(agents))
	seen := make(map[string]int, len(agents))
	for i, a := range agents {
		a.ID = strings.TrimSpace(a.ID)
		a.Name = strings.TrimSpace(a.Name)
		a.Description = strings.TrimSpace(a.Description)
		a.Category = strings.TrimSpace(a.Category)
		a.Status = strings.TrimSpace(a.Status)
		a.PricingModel = strings.TrimSpace(a.PricingModel)
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if prev, ok := seen[a.ID]; ok {
			return nil, fmt.Errorf("%w %q (records %d and %d)", ErrDuplicateID, a.ID, prev, i)
		}
		seen[a.ID] = i
		out[i] = a
	}
	return out, nil
}
