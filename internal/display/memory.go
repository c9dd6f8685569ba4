package display

import (
	"sort"

	"github.com/gyaneshwarpardhi/modgraph/internal/graph"
)

// Memory is a Display that only records state. It backs server-side
// sessions, whose snapshots the front-end applies to the real canvas.
// It is not safe for concurrent use.
type Memory struct {
	nodes       []string
	edges       []EdgeRef
	hidden      map[string]struct{}
	highlighted []string
	dimmed      bool
	fitted      []string
}

// Snapshot is the observable state of a Memory display.
type Snapshot struct {
	HiddenNodes []string `json:"hidden_nodes"`
	HiddenEdges []string `json:"hidden_edges"`
	Highlighted []string `json:"highlighted"`
	Dimmed      bool     `json:"dimmed"`
	// Fitted is nil when the whole graph is framed.
	Fitted []string `json:"fitted"`
}

// NewMemory returns a display holding every node and edge of g, all visible.
func NewMemory(g *graph.Graph) *Memory {
	m := &Memory{hidden: make(map[string]struct{})}
	for _, n := range g.Nodes() {
		m.nodes = append(m.nodes, n.ID)
	}
	for _, e := range g.Edges() {
		m.edges = append(m.edges, EdgeRef{ID: e.ID, Source: e.Source, Target: e.Target})
	}
	return m
}

func (m *Memory) AllNodes() []string  { return m.nodes }
func (m *Memory) AllEdges() []EdgeRef { return m.edges }

func (m *Memory) SetHidden(id string, hidden bool) {
	if hidden {
		m.hidden[id] = struct{}{}
	} else {
		delete(m.hidden, id)
	}
}

func (m *Memory) FitView(ids []string) {
	if ids == nil {
		m.fitted = nil
		return
	}
	m.fitted = append([]string{}, ids...)
}

func (m *Memory) Highlight(ids ...string) {
	m.highlighted = append([]string(nil), ids...)
}

func (m *Memory) SetDimmed(on bool) { m.dimmed = on }

// Hidden reports whether a node or edge is hidden.
func (m *Memory) Hidden(id string) bool {
	_, ok := m.hidden[id]
	return ok
}

// Snapshot copies the current state. Hidden ids follow graph order.
func (m *Memory) Snapshot() Snapshot {
	s := Snapshot{
		HiddenNodes: []string{},
		HiddenEdges: []string{},
		Highlighted: append([]string{}, m.highlighted...),
		Dimmed:      m.dimmed,
	}
	for _, id := range m.nodes {
		if m.Hidden(id) {
			s.HiddenNodes = append(s.HiddenNodes, id)
		}
	}
	for _, e := range m.edges {
		if m.Hidden(e.ID) {
			s.HiddenEdges = append(s.HiddenEdges, e.ID)
		}
	}
	if m.fitted != nil {
		s.Fitted = append([]string{}, m.fitted...)
		sort.Strings(s.Fitted)
	}
	return s
}
