// Package view builds the neighbourhood views the explorer shows: dependency
// views in four direction modes, ego-radius neighbourhoods and name search.
//
// Builders are pure functions of the graph and their arguments. They never
// touch display state; callers apply the returned subsets.
package view

import (
	"errors"
	"fmt"

	"github.com/gyaneshwarpardhi/modgraph/internal/graph"
)

// ErrModuleNotFound is returned when a requested module label has no node.
var ErrModuleNotFound = errors.New("module not found in graph")

// Kind names the operation that produced a Result.
type Kind string

const (
	KindDependencies Kind = "dependencies"
	KindEgo          Kind = "ego"
)

// Result is the outcome of a view builder.
type Result struct {
	Kind   Kind         `json:"kind"`
	Center string       `json:"center"`
	Mode   Mode         `json:"mode"`
	Depth  int          `json:"depth"`
	Subset graph.Subset `json:"-"`
}

// resolve maps a label to the first node carrying it.
func resolve(g *graph.Graph, label string) (string, error) {
	id, ok := g.FirstByLabel(label)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrModuleNotFound, label)
	}
	return id, nil
}

// Dependencies builds the dependency view of the module named label.
func Dependencies(g *graph.Graph, label string, depth int, mode Mode) (Result, error) {
	id, err := resolve(g, label)
	if err != nil {
		return Result{}, err
	}
	return DependenciesFromNode(g, id, depth, mode)
}

// DependenciesFromNode builds the dependency view centred on a node id, as
// used when a node is clicked rather than named.
func DependenciesFromNode(g *graph.Graph, id string, depth int, mode Mode) (Result, error) {
	if g.Node(id) == nil {
		return Result{}, fmt.Errorf("%w: node %q", ErrModuleNotFound, id)
	}
	var subset graph.Subset
	switch mode {
	case ModeUpstream:
		subset = g.Traverse(id, depth, graph.Predecessors)
	case ModeDownstream:
		subset = g.Traverse(id, depth, graph.Successors)
	case ModeBoth:
		subset = g.Traverse(id, depth, graph.Undirected)
	case ModePaths:
		up := g.Traverse(id, depth, graph.Predecessors)
		down := g.Traverse(id, depth, graph.Successors)
		subset = up.Union(down)
	default:
		return Result{}, fmt.Errorf("invalid dependency mode %d", int(mode))
	}
	return Result{Kind: KindDependencies, Center: id, Mode: mode, Depth: depth, Subset: subset}, nil
}
