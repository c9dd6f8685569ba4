package graph

import (
	"fmt"
	"sort"
)

// Direction selects which adjacency a traversal follows.
type Direction int

const (
	// Predecessors follows edges backwards, towards the modules a node consumes.
	Predecessors Direction = iota
	// Successors follows edges forwards, towards the modules consuming a node.
	Successors
	// Undirected follows edges either way.
	Undirected
)

func (d Direction) String() string {
	switch d {
	case Predecessors:
		return "predecessors"
	case Successors:
		return "successors"
	case Undirected:
		return "undirected"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Subset is a set of node ids and edge ids. Membership is what matters;
// use SortedNodes/SortedEdges when a stable order is needed.
type Subset struct {
	Nodes map[string]struct{}
	Edges map[string]struct{}
}

// NewSubset returns an empty subset.
func NewSubset() Subset {
	return Subset{
		Nodes: make(map[string]struct{}),
		Edges: make(map[string]struct{}),
	}
}

// HasNode reports whether id is in the subset.
func (s Subset) HasNode(id string) bool {
	_, ok := s.Nodes[id]
	return ok
}

// HasEdge reports whether id is in the subset.
func (s Subset) HasEdge(id string) bool {
	_, ok := s.Edges[id]
	return ok
}

// Len returns the node count.
func (s Subset) Len() int { return len(s.Nodes) }

// Union returns a new subset holding the members of both.
func (s Subset) Union(other Subset) Subset {
	out := NewSubset()
	for id := range s.Nodes {
		out.Nodes[id] = struct{}{}
	}
	for id := range other.Nodes {
		out.Nodes[id] = struct{}{}
	}
	for id := range s.Edges {
		out.Edges[id] = struct{}{}
	}
	for id := range other.Edges {
		out.Edges[id] = struct{}{}
	}
	return out
}

// SortedNodes returns the node ids in lexical order.
func (s Subset) SortedNodes() []string { return sortedKeys(s.Nodes) }

// SortedEdges returns the edge ids in lexical order.
func (s Subset) SortedEdges() []string { return sortedKeys(s.Edges) }

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Traverse runs a breadth-first search from start for at most maxDepth hops
// in direction dir and returns the reached nodes and the edges kept by the
// direction's edge rule (see EdgesBetween).
//
// A node enters the visited set once and is never expanded twice, so the
// search terminates on cyclic graphs. maxDepth <= 0 returns only start.
// An unknown start returns an empty subset.
func (g *Graph) Traverse(start string, maxDepth int, dir Direction) Subset {
	if dir < Predecessors || dir > Undirected {
		panic(fmt.Sprintf("graph: invalid direction %d", dir))
	}
	result := NewSubset()
	if g.nodes[start] == nil {
		return result
	}

	visited := map[string]struct{}{start: {}}
	result.Nodes[start] = struct{}{}
	frontier := []string{start}

	for depth := 0; depth < maxDepth; depth++ {
		var next []string
		for _, id := range frontier {
			for _, nb := range g.Neighbors(id, dir) {
				if _, seen := visited[nb]; seen {
					continue
				}
				visited[nb] = struct{}{}
				result.Nodes[nb] = struct{}{}
				next = append(next, nb)
			}
			for _, eid := range g.EdgesBetween(visited, dir, id) {
				result.Edges[eid] = struct{}{}
			}
		}
		frontier = next
		if len(frontier) == 0 {
			break
		}
	}
	return result
}
