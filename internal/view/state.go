package view

import (
	"github.com/gyaneshwarpardhi/modgraph/internal/filter"
)

// State is the explorer state of one session: the module open in the
// details panel, its breadcrumb history, the last neighbourhood view and the
// filter toggles. Operations take a State and return the next one.
type State struct {
	Selected     string         `json:"selected,omitempty"`
	SelectedNode string         `json:"selected_node,omitempty"`
	History      []string       `json:"history"`
	View         *Result        `json:"view,omitempty"`
	Filters      filter.Toggles `json:"filters"`
	Highlighted  []string       `json:"highlighted,omitempty"`
	Dimmed       bool           `json:"dimmed,omitempty"`
}

// NewState returns the initial state: nothing selected, every filter on.
func NewState() State {
	return State{History: []string{}, Filters: filter.AllOn()}
}

// Select opens a module. It is appended to the history unless it is already
// the last entry.
func (s State) Select(label, nodeID string) State {
	next := s.clone()
	next.Selected = label
	next.SelectedNode = nodeID
	if n := len(next.History); n == 0 || next.History[n-1] != label {
		next.History = append(next.History, label)
	}
	if nodeID != "" {
		next.Highlighted = []string{nodeID}
	} else {
		next.Highlighted = nil
	}
	next.Dimmed = false
	return next
}

// BackTo truncates the history after index and reports the label to reopen.
// ok is false for an out-of-range index.
func (s State) BackTo(index int) (next State, label string, ok bool) {
	if index < 0 || index >= len(s.History) {
		return s, "", false
	}
	next = s.clone()
	next.History = next.History[:index+1]
	return next, next.History[index], true
}

// Close closes the details panel: selection, history and highlight are cleared.
func (s State) Close() State {
	next := s.clone()
	next.Selected = ""
	next.SelectedNode = ""
	next.History = []string{}
	next.Highlighted = nil
	next.Dimmed = false
	return next
}

// WithView records a neighbourhood view and highlights its centre.
func (s State) WithView(r Result) State {
	next := s.clone()
	next.View = &r
	next.Highlighted = []string{r.Center}
	next.Dimmed = false
	return next
}

// WithFilters replaces the filter toggles.
func (s State) WithFilters(t filter.Toggles) State {
	next := s.clone()
	next.Filters = t
	return next
}

// WithSearch records the highlight produced by a search.
func (s State) WithSearch(r SearchResult) State {
	next := s.clone()
	next.Highlighted = append([]string(nil), r.Matches...)
	next.Dimmed = r.Outcome == SearchMany
	return next
}

// Reset drops the neighbourhood view and highlights; selection and filters stay.
func (s State) Reset() State {
	next := s.clone()
	next.View = nil
	next.Highlighted = nil
	next.Dimmed = false
	return next
}

func (s State) clone() State {
	out := s
	out.History = append([]string{}, s.History...)
	out.Highlighted = append([]string(nil), s.Highlighted...)
	if s.View != nil {
		v := *s.View
		out.View = &v
	}
	return out
}
