package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/modgraph/internal/details"
	"github.com/gyaneshwarpardhi/modgraph/internal/display"
	"github.com/gyaneshwarpardhi/modgraph/internal/filter"
	"github.com/gyaneshwarpardhi/modgraph/internal/graph"
	"github.com/gyaneshwarpardhi/modgraph/internal/metrics"
	"github.com/gyaneshwarpardhi/modgraph/internal/view"
)

// Session is one explorer: its view state and the display it drives.
type Session struct {
	ID string

	mu       sync.Mutex
	graph    *graph.Graph
	state    view.State
	disp     *display.Memory
	stats    *filter.Stats
	lastUsed time.Time
}

// Snapshot is what every session operation returns.
type Snapshot struct {
	SessionID string             `json:"session_id"`
	State     view.State         `json:"state"`
	Display   display.Snapshot   `json:"display"`
	Filter    *filter.Stats      `json:"filter_stats,omitempty"`
	Details   *details.Details   `json:"details,omitempty"`
	Search    *view.SearchResult `json:"search,omitempty"`
}

// CreateSession opens a session on the current graph.
func (e *Engine) CreateSession() *Snapshot {
	g := e.graph.Load()
	s := &Session{
		ID:       uuid.NewString(),
		graph:    g,
		state:    view.NewState(),
		disp:     display.NewMemory(g),
		lastUsed: e.now(),
	}
	e.mu.Lock()
	e.sessions[s.ID] = s
	n := len(e.sessions)
	e.mu.Unlock()
	metrics.SessionsActive.Set(float64(n))

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Session returns the current snapshot of a session.
func (e *Engine) Session(id string) (*Snapshot, error) {
	return e.withSession(id, "view", func(*Session, *graph.Graph, *Snapshot) error { return nil })
}

// DeleteSession closes a session.
func (e *Engine) DeleteSession(id string) error {
	e.mu.Lock()
	_, ok := e.sessions[id]
	delete(e.sessions, id)
	n := len(e.sessions)
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	metrics.SessionsActive.Set(float64(n))
	return nil
}

// ExpireIdle closes sessions unused for longer than the configured TTL and
// returns how many were closed. A zero TTL disables expiry.
func (e *Engine) ExpireIdle() int {
	ttl := e.conf.SessionTTL()
	if ttl <= 0 {
		return 0
	}
	cutoff := e.now().Add(-ttl)

	e.mu.Lock()
	defer e.mu.Unlock()
	expired := 0
	for id, s := range e.sessions {
		s.mu.Lock()
		idle := s.lastUsed.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(e.sessions, id)
			expired++
		}
	}
	metrics.SessionsActive.Set(float64(len(e.sessions)))
	return expired
}

// Select opens a module: its details and a highlight on its node. With
// autoDeps the configured dependency view is shown around it as well.
func (e *Engine) Select(id, label string, autoDeps bool) (*Snapshot, error) {
	return e.withSession(id, "select", func(s *Session, g *graph.Graph, out *Snapshot) error {
		nodeID, err := resolve(g, label)
		if err != nil {
			return err
		}
		var res view.Result
		if autoDeps {
			mode, err := view.ParseMode(e.explorer.AutoDependencyMode)
			if err != nil {
				return err
			}
			res, err = view.DependenciesFromNode(g, nodeID, e.clampDepth(e.explorer.DefaultDepth), mode)
			if err != nil {
				return err
			}
		}

		d := details.Build(g, label)
		out.Details = &d
		s.state = s.state.Select(label, nodeID)
		if autoDeps {
			e.applyView(s, res)
			return nil
		}
		s.disp.Highlight(nodeID)
		s.disp.SetDimmed(false)
		s.disp.FitView([]string{nodeID})
		return nil
	})
}

// BackTo reopens the module at a breadcrumb index and drops later entries.
func (e *Engine) BackTo(id string, index int) (*Snapshot, error) {
	return e.withSession(id, "back", func(s *Session, g *graph.Graph, out *Snapshot) error {
		next, label, ok := s.state.BackTo(index)
		if !ok {
			return fmt.Errorf("%w: %d not in [0, %d)", ErrHistoryIndex, index, len(s.state.History))
		}
		nodeID, err := resolve(g, label)
		if err != nil {
			return err
		}
		d := details.Build(g, label)
		out.Details = &d
		s.state = next.Select(label, nodeID)
		s.disp.Highlight(nodeID)
		s.disp.SetDimmed(false)
		s.disp.FitView([]string{nodeID})
		return nil
	})
}

// Close closes the details panel and clears the highlight.
func (e *Engine) Close(id string) (*Snapshot, error) {
	return e.withSession(id, "close", func(s *Session, _ *graph.Graph, _ *Snapshot) error {
		s.state = s.state.Close()
		s.disp.Highlight()
		s.disp.SetDimmed(false)
		return nil
	})
}

// ShowDependencies shows the dependency view of label, or of the selected
// module when label is empty.
func (e *Engine) ShowDependencies(id, label string, depth int, mode view.Mode) (*Snapshot, error) {
	return e.withSession(id, "dependencies", func(s *Session, g *graph.Graph, _ *Snapshot) error {
		nodeID, err := e.target(s, g, label)
		if err != nil {
			return err
		}
		res, err := view.DependenciesFromNode(g, nodeID, e.clampDepth(depth), mode)
		if err != nil {
			return err
		}
		e.applyView(s, res)
		return nil
	})
}

// ShowEgo shows the ego neighbourhood of label, or of the selected module
// when label is empty.
func (e *Engine) ShowEgo(id, label string, radius int) (*Snapshot, error) {
	return e.withSession(id, "ego", func(s *Session, g *graph.Graph, _ *Snapshot) error {
		nodeID, err := e.target(s, g, label)
		if err != nil {
			return err
		}
		res, err := view.EgoFromNode(g, nodeID, e.clampDepth(radius))
		if err != nil {
			return err
		}
		e.applyView(s, res)
		return nil
	})
}

// ApplyFilters replaces the filter toggles. With a view open the filter
// applies within it; otherwise it applies to the whole graph.
func (e *Engine) ApplyFilters(id string, t filter.Toggles) (*Snapshot, error) {
	return e.withSession(id, "filters", func(s *Session, g *graph.Graph, _ *Snapshot) error {
		e.applyFilters(s, g, t)
		return nil
	})
}

// PatchFilters changes only the toggles set in p. The merge happens under
// the session lock, so concurrent patches to different toggles all land.
func (e *Engine) PatchFilters(id string, p filter.Patch) (*Snapshot, error) {
	return e.withSession(id, "filters", func(s *Session, g *graph.Graph, _ *Snapshot) error {
		e.applyFilters(s, g, p.Apply(s.state.Filters))
		return nil
	})
}

func (e *Engine) applyFilters(s *Session, g *graph.Graph, t filter.Toggles) {
	out := filter.Evaluate(g, e.rules, t)
	metrics.FilterEvaluations.Inc()

	s.state = s.state.WithFilters(t)
	s.stats = &out.Stats
	if v := s.state.View; v != nil {
		display.ApplyComposite(s.disp, v.Subset, out.Visible, v.Center)
		return
	}
	display.ApplyFilter(s.disp, out.Visible)
}

// Search highlights modules whose label contains query. A single match is
// also opened.
func (e *Engine) Search(id, query string) (*Snapshot, error) {
	return e.withSession(id, "search", func(s *Session, g *graph.Graph, out *Snapshot) error {
		res := view.Search(g, query)
		out.Search = &res
		if res.Outcome == view.SearchNone {
			return nil
		}
		if res.Outcome == view.SearchSingle {
			nodeID := res.Matches[0]
			label := g.Node(nodeID).Label
			d := details.Build(g, label)
			out.Details = &d
			s.state = s.state.Select(label, nodeID)
		}
		s.state = s.state.WithSearch(res)
		display.ApplySearch(s.disp, res.Matches)
		return nil
	})
}

// Reset shows the whole graph again. Selection and toggles are kept.
func (e *Engine) Reset(id string) (*Snapshot, error) {
	return e.withSession(id, "reset", func(s *Session, _ *graph.Graph, _ *Snapshot) error {
		s.state = s.state.Reset()
		s.stats = nil
		display.Reset(s.disp)
		return nil
	})
}

// withSession runs fn under the session lock against one graph snapshot.
// fn must compute everything that can fail before it mutates the session.
func (e *Engine) withSession(id, op string, fn func(*Session, *graph.Graph, *Snapshot) error) (*Snapshot, error) {
	e.mu.RLock()
	s, ok := e.sessions[id]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	g := e.graph.Load()
	prev := s.bound()
	s.rebind(g)
	out := &Snapshot{}
	if err := fn(s, g, out); err != nil {
		if errors.Is(err, view.ErrModuleNotFound) {
			metrics.ModulesNotFound.Inc()
		}
		// A failed operation leaves the session as it was, including the
		// graph generation it is bound to.
		s.restore(prev)
		return nil, err
	}
	s.lastUsed = e.now()
	metrics.OperationDuration.WithLabelValues(op).Observe(float64(time.Since(start).Microseconds()) / 1000)

	snap := s.snapshot()
	snap.Details = out.Details
	snap.Search = out.Search
	return snap, nil
}

// applyView shows a built view on the session display.
func (e *Engine) applyView(s *Session, res view.Result) {
	s.state = s.state.WithView(res)
	s.stats = nil
	display.ApplySubset(s.disp, res.Subset, res.Center)
	metrics.ViewsBuilt.WithLabelValues(string(res.Kind), res.Mode.String()).Inc()
	metrics.ViewSize.Observe(float64(res.Subset.Len()))
}

// target resolves the module an operation centres on: label when given,
// otherwise the selected module.
func (e *Engine) target(s *Session, g *graph.Graph, label string) (string, error) {
	if label != "" {
		return resolve(g, label)
	}
	if s.state.Selected == "" {
		return "", ErrNoSelection
	}
	if s.state.SelectedNode != "" && g.Node(s.state.SelectedNode) != nil {
		return s.state.SelectedNode, nil
	}
	return resolve(g, s.state.Selected)
}

func resolve(g *graph.Graph, label string) (string, error) {
	id, ok := g.FirstByLabel(label)
	if !ok {
		return "", fmt.Errorf("%w: %q", view.ErrModuleNotFound, label)
	}
	return id, nil
}

// rebind moves a session onto a new graph generation. The display starts
// over and the open view is dropped; the selection survives if its module
// still exists.
func (s *Session) rebind(g *graph.Graph) {
	if s.graph == g {
		return
	}
	s.graph = g
	s.disp = display.NewMemory(g)
	s.stats = nil
	s.state = s.state.Reset()
	if s.state.Selected == "" {
		return
	}
	if id, ok := g.FirstByLabel(s.state.Selected); ok {
		s.state.SelectedNode = id
		s.disp.Highlight(id)
		return
	}
	s.state = s.state.Close()
}

// binding is the part of a session that rebind replaces.
type binding struct {
	graph *graph.Graph
	state view.State
	disp  *display.Memory
	stats *filter.Stats
}

func (s *Session) bound() binding {
	return binding{graph: s.graph, state: s.state, disp: s.disp, stats: s.stats}
}

func (s *Session) restore(b binding) {
	s.graph, s.state, s.disp, s.stats = b.graph, b.state, b.disp, b.stats
}

func (s *Session) snapshot() *Snapshot {
	return &Snapshot{
		SessionID: s.ID,
		State:     s.state,
		Display:   s.disp.Snapshot(),
		Filter:    s.stats,
	}
}
