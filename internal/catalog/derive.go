package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Derive returns the records of agents that satisfy c, ordered by c.SortBy.
//
// Filter dimensions combine with AND; values selected within one dimension
// combine with OR. The sort is stable, so records comparing equal keep their
// input order. An unrecognized sort key leaves the filtered records in input
// order. agents is never modified.
func Derive(agents []Agent, c Criteria) []Agent {
	m := newMatcher(c)
	out := make([]Agent, 0, len(agents))
	for _, a := range agents {
		if m.match(a) {
			out = append(out, a)
		}
	}

	field := sortField(c.SortBy)
	if field == nil {
		return out
	}
	// Collators carry internal buffers and are not safe for concurrent use.
	col := collate.New(language.English)
	slices.SortStableFunc(out, func(a, b Agent) int {
		return col.CompareString(field(a), field(b))
	})
	return out
}

// Matches reports whether a satisfies every filter dimension of c.
func Matches(a Agent, c Criteria) bool {
	return newMatcher(c).match(a)
}

type matcher struct {
	query      string
	statuses   []string
	categories []string
	pricing    string
}

func newMatcher(c Criteria) matcher {
	return matcher{
		query:      strings.ToLower(c.SearchQuery),
		statuses:   c.Statuses,
		categories: c.Categories,
		pricing:    c.PricingModel,
	}
}

func (m matcher) match(a Agent) bool {
	if m.query != "" &&
		!strings.Contains(strings.ToLower(a.Name), m.query) &&
		!strings.Contains(strings.ToLower(a.Description), m.query) {
		return false
	}
	if len(m.statuses) > 0 && !slices.Contains(m.statuses, a.Status) {
		return false
	}
	if len(m.categories) > 0 && !slices.Contains(m.categories, a.Category) {
		return false
	}
	if m.pricing != PricingAll && m.pricing != a.PricingModel {
		return false
	}
	return true
}

func sortField(k SortKey) func(Agent) string {
	switch k {
	case SortByName:
		return func(a Agent) string { return a.Name }
	case SortByCategory:
		return func(a Agent) string { return a.Category }
	case SortByStatus:
		return func(a Agent) string { return a.Status }
	case SortByPricingModel:
		return func(a Agent) string { return a.PricingModel }
	}
	return nil
}
