package main

import (
	"context"
	"fmt"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/daviddao/agents_catalog_viewer/internal/catalog"
	"github.com/daviddao/agents_catalog_viewer/internal/snapshot"
	"github.com/daviddao/agents_catalog_viewer/internal/viewstate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonOutput is the structure for --json mode.
type jsonOutput struct {
	Agents   []catalog.Agent  `json:"agents"`
	Criteria catalog.Criteria `json:"criteria"`
	Facets   jsonFacets       `json:"facets"`
	Stats    jsonStats        `json:"stats"`
}

type jsonFacets struct {
	Statuses      []string `json:"statuses"`
	Categories    []string `json:"categories"`
	PricingModels []string `json:"pricingModels"`
}

type jsonStats struct {
	Visible          int    `json:"visible"`
	Total            int    `json:"total"`
	HasActiveFilters bool   `json:"hasActiveFilters"`
	Summary          string `json:"summary"`
	LoadedAt         string `json:"loadedAt"`
}

// writeJSON loads the catalog synchronously and prints the visible subset.
// A non-empty agent restricts the output to that visible agent.
func writeJSON(ctx context.Context, w io.Writer, state *viewstate.State, loader viewstate.Loader, timeout time.Duration, agent string) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := state.Fetch(ctx, loader); err != nil {
		return err
	}

	out := buildJSONOutput(state.Snapshot())
	if agent != "" {
		var found []catalog.Agent
		for _, a := range out.Agents {
			if a.ID == agent {
				found = append(found, a)
			}
		}
		if len(found) == 0 {
			return fmt.Errorf("agent %q is not in the filtered catalog", agent)
		}
		out.Agents = found
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("json: %w", err)
	}
	return nil
}

// buildJSONOutput converts a snapshot into the JSON output structure. Empty
// collections are emitted as [] rather than null.
func buildJSONOutput(snap *snapshot.DataSnapshot) jsonOutput {
	crit := snap.Criteria.Clone()
	crit.Statuses = nonNil(crit.Statuses)
	crit.Categories = nonNil(crit.Categories)

	var loadedAt string
	if !snap.LoadedAt.IsZero() {
		loadedAt = snap.LoadedAt.Format(time.RFC3339)
	}

	agents := snap.Visible
	if agents == nil {
		agents = []catalog.Agent{}
	}

	return jsonOutput{
		Agents:   agents,
		Criteria: crit,
		Facets: jsonFacets{
			Statuses:      nonNil(snap.Facets.Statuses),
			Categories:    nonNil(snap.Facets.Categories),
			PricingModels: nonNil(snap.Facets.PricingModels),
		},
		Stats: jsonStats{
			Visible:          len(snap.Visible),
			Total:            snap.Total,
			HasActiveFilters: snap.HasActiveFilters,
			Summary:          snap.Summary(),
			LoadedAt:         loadedAt,
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
