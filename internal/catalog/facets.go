package catalog

// Facets are the distinct values observed for each filterable dimension.
// They are computed from the full record collection and are not narrowed by
// the current selection.
type Facets struct {
	Statuses      []string `json:"statuses"`
	Categories    []string `json:"categories"`
	PricingModels []string `json:"pricingModels"`
}

// ComputeFacets collects distinct status, category and pricing values in
// first-seen order.
func ComputeFacets(agents []Agent) Facets {
	var (
		f                    Facets
		statuses, categories = map[string]bool{}, map[string]bool{}
		pricing              = map[string]bool{}
	)
	for _, a := range agents {
		if !statuses[a.Status] {
			statuses[a.Status] = true
			f.Statuses = append(f.Statuses, a.Status)
		}
		if !categories[a.Category] {
			categories[a.Category] = true
			f.Categories = append(f.Categories, a.Category)
		}
		if !pricing[a.PricingModel] {
			pricing[a.PricingModel] = true
			f.PricingModels = append(f.PricingModels, a.PricingModel)
		}
	}
	return f
}
