package view_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/modgraph/internal/bundle"
	"github.com/gyaneshwarpardhi/modgraph/internal/graph"
)

// build turns "a>b" edge specs into a graph whose node ids double as labels.
func build(t *testing.T, ids []string, edges ...string) *graph.Graph {
	t.Helper()
	b := &bundle.Bundle{Modules: map[string]bundle.ModuleRecord{}}
	for _, id := range ids {
		b.Nodes = append(b.Nodes, bundle.NodeRecord{ID: id, Label: id})
	}
	for _, pair := range edges {
		src, tgt, ok := strings.Cut(pair, ">")
		require.True(t, ok, "bad edge pair %q", pair)
		b.Edges = append(b.Edges, bundle.EdgeRecord{Source: src, Target: tgt})
	}
	g, err := graph.Build(b)
	require.NoError(t, err)
	return g
}

func diamond(t *testing.T) *graph.Graph {
	return build(t, []string{"A", "B", "C", "D"}, "A>B", "A>C", "B>D", "C>D")
}
