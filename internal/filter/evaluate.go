package filter

import (
	"fmt"
	"math"

	"github.com/gyaneshwarpardhi/modgraph/internal/bundle"
	"github.com/gyaneshwarpardhi/modgraph/internal/graph"
)

// Stats counts the outcome of a filter pass.
type Stats struct {
	Visible int `json:"visible"`
	Hidden  int `json:"hidden"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// Summary renders the status line shown under the filter bar.
func (s Stats) Summary() string {
	return fmt.Sprintf("Showing %d of %d nodes (%d%%)", s.Visible, s.Total, s.Percent)
}

// Outcome is the visible part of the graph under a set of toggles.
// Edges are visible only when both endpoints are.
type Outcome struct {
	Visible graph.Subset
	Stats   Stats
}

// Evaluate runs IsVisible over every node of g.
func Evaluate(g *graph.Graph, r Rules, t Toggles) Outcome {
	visible := graph.NewSubset()
	for _, n := range g.Nodes() {
		var rec *bundle.ModuleRecord
		if m, ok := g.Module(n.Label); ok {
			rec = &m
		}
		if r.IsVisible(n, rec, t) {
			visible.Nodes[n.ID] = struct{}{}
		}
	}
	for _, e := range g.Edges() {
		if visible.HasNode(e.Source) && visible.HasNode(e.Target) {
			visible.Edges[e.ID] = struct{}{}
		}
	}

	total := g.NodeCount()
	stats := Stats{Visible: visible.Len(), Hidden: total - visible.Len(), Total: total}
	if total > 0 {
		stats.Percent = int(math.Round(float64(stats.Visible) / float64(total) * 100))
	}
	return Outcome{Visible: visible, Stats: stats}
}
