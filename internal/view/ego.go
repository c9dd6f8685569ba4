package view

import (
	"fmt"

	"github.com/gyaneshwarpardhi/modgraph/internal/graph"
)

// EgoRadius returns every node within radius undirected hops of the module
// named label, with the edges among them that the traversal keeps.
func EgoRadius(g *graph.Graph, label string, radius int) (Result, error) {
	id, err := resolve(g, label)
	if err != nil {
		return Result{}, err
	}
	return EgoFromNode(g, id, radius)
}

// EgoFromNode is EgoRadius centred on a node id.
func EgoFromNode(g *graph.Graph, id string, radius int) (Result, error) {
	if g.Node(id) == nil {
		return Result{}, fmt.Errorf("%w: node %q", ErrModuleNotFound, id)
	}
	return Result{
		Kind:   KindEgo,
		Center: id,
		Mode:   ModeBoth,
		Depth:  radius,
		Subset: g.Traverse(id, radius, graph.Undirected),
	}, nil
}
