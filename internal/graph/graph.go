// Package graph holds the immutable module dependency graph and the bounded
// breadth-first traversal used by every neighbourhood view.
//
// Edges point from producer to consumer: the predecessors of X are the modules
// X consumes, the successors of X are the modules consuming X.
//
// A Graph is built once from a bundle and never mutated, so it is safe to
// share between goroutines; a regenerated bundle produces a new Graph.
package graph

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/gyaneshwarpardhi/modgraph/internal/bundle"
)

// Sentinel errors for graph construction.
var (
	// ErrUnknownNode is returned when an edge references a node id that is not in the bundle.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateNode is returned when two bundle nodes share an id.
	ErrDuplicateNode = errors.New("duplicate node id")
)

// Node is a graph vertex. Render hints are carried through untouched.
type Node struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	FillColor string `json:"fillcolor,omitempty"`
	Shape     string `json:"shape,omitempty"`
	Color     string `json:"color,omitempty"`
	Tooltip   string `json:"tooltip,omitempty"`
}

// Edge is a directed producer → consumer relation.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Color  string `json:"color,omitempty"`
}

// Graph holds nodes, edges and their adjacency.
type Graph struct {
	nodes     map[string]*Node
	nodeOrder []string
	edges     map[string]*Edge
	edgeOrder []string

	in       map[string][]*Edge // target id → incoming edges, bundle order
	out      map[string][]*Edge // source id → outgoing edges, bundle order
	incident map[string][]*Edge // node id → in and out edges, bundle order

	labels  map[string][]string // label → node ids, insertion order
	modules map[string]bundle.ModuleRecord
}

// Build constructs a Graph from a bundle. Module records are copied and their
// input tags re-resolved against the label index (first match wins).
func Build(b *bundle.Bundle) (*Graph, error) {
	g := &Graph{
		nodes:    make(map[string]*Node, len(b.Nodes)),
		edges:    make(map[string]*Edge, len(b.Edges)),
		in:       make(map[string][]*Edge),
		out:      make(map[string][]*Edge),
		incident: make(map[string][]*Edge),
		labels:   make(map[string][]string),
		modules:  make(map[string]bundle.ModuleRecord, len(b.Modules)),
	}

	for _, rec := range b.Nodes {
		if _, exists := g.nodes[rec.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, rec.ID)
		}
		n := &Node{
			ID:        rec.ID,
			Label:     rec.DisplayLabel(),
			FillColor: rec.FillColor,
			Shape:     rec.Shape,
			Color:     rec.Color,
			Tooltip:   rec.Tooltip,
		}
		g.nodes[n.ID] = n
		g.nodeOrder = append(g.nodeOrder, n.ID)
		g.labels[n.Label] = append(g.labels[n.Label], n.ID)
	}

	for i, rec := range b.Edges {
		if _, ok := g.nodes[rec.Source]; !ok {
			return nil, fmt.Errorf("edges[%d]: source %q: %w", i, rec.Source, ErrUnknownNode)
		}
		if _, ok := g.nodes[rec.Target]; !ok {
			return nil, fmt.Errorf("edges[%d]: target %q: %w", i, rec.Target, ErrUnknownNode)
		}
		e := &Edge{
			ID:     g.edgeID(rec.Source, rec.Target),
			Source: rec.Source,
			Target: rec.Target,
			Color:  rec.Color,
		}
		g.edges[e.ID] = e
		g.edgeOrder = append(g.edgeOrder, e.ID)
		g.out[e.Source] = append(g.out[e.Source], e)
		g.in[e.Target] = append(g.in[e.Target], e)
		g.incident[e.Source] = append(g.incident[e.Source], e)
		if e.Target != e.Source {
			g.incident[e.Target] = append(g.incident[e.Target], e)
		}
	}

	for label, rec := range b.Modules {
		g.modules[label] = g.resolveTags(rec)
	}
	return g, nil
}

// edgeID derives a stable identifier from the endpoint pair. Parallel edges
// and accidental collisions get a numeric suffix in bundle order.
func (g *Graph) edgeID(source, target string) string {
	base := source + "->" + target
	id := base
	for n := 1; ; n++ {
		if _, taken := g.edges[id]; !taken {
			return id
		}
		id = base + "#" + strconv.Itoa(n)
	}
}

func (g *Graph) resolveTags(rec bundle.ModuleRecord) bundle.ModuleRecord {
	if len(rec.InputTags) == 0 {
		return rec
	}
	tags := make([]bundle.InputTagRecord, len(rec.InputTags))
	for i, tag := range rec.InputTags {
		if id, ok := g.FirstByLabel(tag.Module); ok {
			tag.Found = true
			tag.TargetID = id
		} else {
			tag.Found = false
			tag.TargetID = ""
		}
		tags[i] = tag
	}
	rec.InputTags = tags
	return rec
}

// Node returns a node by id (nil if not found).
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// Edge returns an edge by id (nil if not found).
func (g *Graph) Edge(id string) *Edge {
	return g.edges[id]
}

// Nodes returns all nodes in bundle order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodeOrder))
	for i, id := range g.nodeOrder {
		out[i] = g.nodes[id]
	}
	return out
}

// Edges returns all edges in bundle order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, len(g.edgeOrder))
	for i, id := range g.edgeOrder {
		out[i] = g.edges[id]
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodeOrder) }

// EdgeCount returns the number of edges, parallel edges included.
func (g *Graph) EdgeCount() int { return len(g.edgeOrder) }

// ModuleCount returns the number of module records.
func (g *Graph) ModuleCount() int { return len(g.modules) }

// Neighbors returns the ids adjacent to id in the given direction, each once,
// in order of first appearance along the node's edges. Unknown ids yield nil.
func (g *Graph) Neighbors(id string, dir Direction) []string {
	var edges []*Edge
	switch dir {
	case Predecessors:
		edges = g.in[id]
	case Successors:
		edges = g.out[id]
	case Undirected:
		edges = g.incident[id]
	default:
		panic(fmt.Sprintf("graph: invalid direction %d", dir))
	}

	seen := make(map[string]struct{}, len(edges))
	var out []string
	for _, e := range edges {
		other := e.Source
		switch {
		case dir == Successors:
			other = e.Target
		case dir == Undirected && e.Source == id:
			other = e.Target
		}
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		out = append(out, other)
	}
	return out
}

// EdgesBetween returns the ids of the edges incident on id that the
// traversal in direction dir keeps, given the current visited set:
//   - Predecessors: target is id and source is visited
//   - Successors:   source is id and target is visited
//   - Undirected:   both endpoints are visited
func (g *Graph) EdgesBetween(visited map[string]struct{}, dir Direction, id string) []string {
	var out []string
	for _, e := range g.incident[id] {
		if keepEdge(e, visited, dir, id) {
			out = append(out, e.ID)
		}
	}
	return out
}

func keepEdge(e *Edge, visited map[string]struct{}, dir Direction, id string) bool {
	_, srcSeen := visited[e.Source]
	_, tgtSeen := visited[e.Target]
	switch dir {
	case Predecessors:
		return e.Target == id && srcSeen
	case Successors:
		return e.Source == id && tgtSeen
	case Undirected:
		return srcSeen && tgtSeen
	default:
		panic(fmt.Sprintf("graph: invalid direction %d", dir))
	}
}

// FindByLabel returns every node id carrying label, in insertion order.
func (g *Graph) FindByLabel(label string) []string {
	ids := g.labels[label]
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// FirstByLabel resolves a label to a node id. When several nodes share the
// label the first one in bundle order wins.
func (g *Graph) FirstByLabel(label string) (string, bool) {
	ids := g.labels[label]
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}

// AmbiguousLabels returns, sorted, the labels carried by more than one node.
func (g *Graph) AmbiguousLabels() []string {
	var out []string
	for label, ids := range g.labels {
		if len(ids) > 1 {
			out = append(out, label)
		}
	}
	sort.Strings(out)
	return out
}

// Module returns the module record for a label.
func (g *Graph) Module(label string) (bundle.ModuleRecord, bool) {
	rec, ok := g.modules[label]
	return rec, ok
}

// ModuleForNode joins a node to its module record through the node's label.
func (g *Graph) ModuleForNode(id string) (bundle.ModuleRecord, bool) {
	n := g.nodes[id]
	if n == nil {
		return bundle.ModuleRecord{}, false
	}
	return g.Module(n.Label)
}
