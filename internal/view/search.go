package view

import (
	"strings"

	"github.com/gyaneshwarpardhi/modgraph/internal/graph"
)

// SearchOutcome tells the caller how to present a search.
type SearchOutcome string

const (
	SearchNone   SearchOutcome = "none"   // report "no modules found"
	SearchSingle SearchOutcome = "single" // open the module and centre on it
	SearchMany   SearchOutcome = "many"   // highlight matches, dim the rest
)

// SearchResult lists the node ids whose label contains the query.
type SearchResult struct {
	Query   string        `json:"query"`
	Matches []string      `json:"matches"`
	Outcome SearchOutcome `json:"outcome"`
}

// Search does a case-insensitive substring match of query against node
// labels, in bundle order. A blank query matches nothing.
func Search(g *graph.Graph, query string) SearchResult {
	q := strings.TrimSpace(query)
	res := SearchResult{Query: q, Matches: []string{}, Outcome: SearchNone}
	if q == "" {
		return res
	}
	q = strings.ToLower(q)
	for _, n := range g.Nodes() {
		if strings.Contains(strings.ToLower(n.Label), q) {
			res.Matches = append(res.Matches, n.ID)
		}
	}
	switch len(res.Matches) {
	case 0:
	case 1:
		res.Outcome = SearchSingle
	default:
		res.Outcome = SearchMany
	}
	return res
}
