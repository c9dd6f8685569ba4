// Package display applies computed visibility to a graph display.
//
// Every helper takes a result that is already fully computed and only then
// touches the display, so a failed lookup never leaves it half updated.
package display

import "github.com/gyaneshwarpardhi/modgraph/internal/graph"

// EdgeRef identifies an edge and its endpoints.
type EdgeRef struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Display is the rendering surface the explorer drives. Node and edge ids
// share one namespace for SetHidden.
type Display interface {
	AllNodes() []string
	AllEdges() []EdgeRef
	SetHidden(id string, hidden bool)
	// FitView frames the given nodes; nil frames everything.
	FitView(ids []string)
	// Highlight marks the given nodes; no ids clears the highlight.
	Highlight(ids ...string)
	// SetDimmed fades everything that is not highlighted.
	SetDimmed(on bool)
}

// ApplySubset shows exactly the nodes and edges of s, highlights center and
// frames the subset.
func ApplySubset(d Display, s graph.Subset, center string) {
	for _, id := range d.AllNodes() {
		d.SetHidden(id, !s.HasNode(id))
	}
	for _, e := range d.AllEdges() {
		d.SetHidden(e.ID, !s.HasEdge(e.ID))
	}
	d.SetDimmed(false)
	highlight(d, center)
	d.FitView(s.SortedNodes())
}

// ApplyFilter hides every node outside visible and every edge with a hidden
// endpoint. The view is framed on what remains, if anything does.
func ApplyFilter(d Display, visible graph.Subset) {
	var shown []string
	for _, id := range d.AllNodes() {
		ok := visible.HasNode(id)
		d.SetHidden(id, !ok)
		if ok {
			shown = append(shown, id)
		}
	}
	for _, e := range d.AllEdges() {
		d.SetHidden(e.ID, !visible.HasNode(e.Source) || !visible.HasNode(e.Target))
	}
	if len(shown) > 0 {
		d.FitView(shown)
	}
}

// ApplyComposite shows the part of a traversal subset that also passes the
// filter: a node needs both, an edge needs to be in s with both endpoints
// shown.
func ApplyComposite(d Display, s graph.Subset, visible graph.Subset, center string) {
	shown := make(map[string]struct{})
	var order []string
	for _, id := range d.AllNodes() {
		ok := s.HasNode(id) && visible.HasNode(id)
		d.SetHidden(id, !ok)
		if ok {
			shown[id] = struct{}{}
			order = append(order, id)
		}
	}
	for _, e := range d.AllEdges() {
		_, src := shown[e.Source]
		_, tgt := shown[e.Target]
		d.SetHidden(e.ID, !(s.HasEdge(e.ID) && src && tgt))
	}
	d.SetDimmed(false)
	highlight(d, center)
	if len(order) > 0 {
		d.FitView(order)
	}
}

// ApplySearch highlights and frames the matches. More than one match dims
// the rest. No match leaves the display as it is.
func ApplySearch(d Display, matches []string) {
	if len(matches) == 0 {
		return
	}
	d.Highlight(matches...)
	d.SetDimmed(len(matches) > 1)
	d.FitView(matches)
}

// Reset shows everything, clears highlight and dimming and frames the graph.
func Reset(d Display) {
	for _, id := range d.AllNodes() {
		d.SetHidden(id, false)
	}
	for _, e := range d.AllEdges() {
		d.SetHidden(e.ID, false)
	}
	d.Highlight()
	d.SetDimmed(false)
	d.FitView(nil)
}

func highlight(d Display, center string) {
	if center == "" {
		d.Highlight()
		return
	}
	d.Highlight(center)
}
