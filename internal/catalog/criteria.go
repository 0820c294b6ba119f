package catalog

import (
	"slices"
	"strings"
)

// PricingAll is the pricing-model value that imposes no restriction.
const PricingAll = "all"

// SortKey names the record field the visible subset is ordered by.
type SortKey string

const (
	SortByName         SortKey = "name"
	SortByCategory     SortKey = "category"
	SortByStatus       SortKey = "status"
	SortByPricingModel SortKey = "pricingModel"
)

// SortKeys lists the recognized sort keys in display order.
var SortKeys = []SortKey{SortByName, SortByCategory, SortByStatus, SortByPricingModel}

// ParseSortKey maps user input to a SortKey. Matching is case-insensitive and
// "pricing" is accepted for pricingModel.
func ParseSortKey(s string) (SortKey, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name":
		return SortByName, true
	case "category":
		return SortByCategory, true
	case "status":
		return SortByStatus, true
	case "pricingmodel", "pricing", "pricing_model":
		return SortByPricingModel, true
	}
	return "", false
}

// Next returns the sort key after k in SortKeys, wrapping around.
// Unrecognized keys advance to the first key.
func (k SortKey) Next() SortKey {
	i := slices.Index(SortKeys, k)
	return SortKeys[(i+1)%len(SortKeys)]
}

// Label is the human-readable name of the key.
func (k SortKey) Label() string {
	switch k {
	case SortByName:
		return "Name"
	case SortByCategory:
		return "Category"
	case SortByStatus:
		return "Status"
	case SortByPricingModel:
		return "Pricing Model"
	}
	return string(k)
}

// Criteria is the full set of filter and sort inputs for Derive.
type Criteria struct {
	SearchQuery  string   `json:"searchQuery"`
	Statuses     []string `json:"selectedStatuses"`
	Categories   []string `json:"selectedCategories"`
	PricingModel string   `json:"selectedPricingModel"`
	SortBy       SortKey  `json:"sortBy"`
}

// DefaultCriteria matches every record and sorts by name.
func DefaultCriteria() Criteria {
	return Criteria{
		PricingModel: PricingAll,
		SortBy:       SortByName,
	}
}

// HasActiveFilters reports whether any filter dimension restricts the view.
// The sort key is not a filter.
func (c Criteria) HasActiveFilters() bool {
	return c.SearchQuery != "" ||
		len(c.Statuses) > 0 ||
		len(c.Categories) > 0 ||
		c.PricingModel != PricingAll
}

// Clone returns a copy that shares no slices with c.
func (c Criteria) Clone() Criteria {
	c.Statuses = slices.Clone(c.Statuses)
	c.Categories = slices.Clone(c.Categories)
	return c
}

// addUnique appends v to set unless already present.
func addUnique(set []string, v string) []string {
	if slices.Contains(set, v) {
		return set
	}
	return append(set, v)
}

// AddTo returns set with v inserted, keeping insertion order and set semantics.
func AddTo(set []string, v string) []string {
	return addUnique(slices.Clone(set), v)
}

// RemoveFrom returns set without v. The input is not modified.
func RemoveFrom(set []string, v string) []string {
	out := make([]string, 0, len(set))
	for _, s := range set {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

// Dedupe returns values with duplicates dropped, first occurrence wins.
func Dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = addUnique(out, v)
	}
	return out
}
