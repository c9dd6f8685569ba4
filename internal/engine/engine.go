// Package engine serves the explorer: it holds the current graph, the open
// sessions with their view state and display, and a worker pool for
// stateless batch traversals.
//
// Graphs are immutable once built, so a swap only replaces a pointer and
// every operation works on the snapshot it loaded first. Operations on one
// session are serialized by that session's mutex.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gyaneshwarpardhi/modgraph/internal/bundle"
	"github.com/gyaneshwarpardhi/modgraph/internal/config"
	"github.com/gyaneshwarpardhi/modgraph/internal/filter"
	"github.com/gyaneshwarpardhi/modgraph/internal/graph"
	"github.com/gyaneshwarpardhi/modgraph/internal/metrics"
)

var (
	// ErrSessionNotFound is returned for an unknown or expired session id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrQueueFull is returned when the batch queue cannot take every query.
	ErrQueueFull = errors.New("batch queue full")
	// ErrNoSelection is returned when an operation defaults to the selected
	// module and none is selected.
	ErrNoSelection = errors.New("select a module first")
	// ErrHistoryIndex is returned for a breadcrumb index outside the history.
	ErrHistoryIndex = errors.New("breadcrumb index out of range")
)

// Engine owns the graph and the sessions.
type Engine struct {
	graph    atomic.Pointer[graph.Graph]
	rules    filter.Rules
	explorer config.ExplorerConf
	conf     config.EngineConf

	mu       sync.RWMutex
	sessions map[string]*Session

	batchPool *workerPool[*queryWork]
	now       func() time.Time
}

// New creates an Engine serving g and starts the batch workers. The workers
// stop when ctx is cancelled or Shutdown is called.
func New(ctx context.Context, g *graph.Graph, cfg *config.ServiceConfig) *Engine {
	e := &Engine{
		rules:    cfg.Filter.Rules(),
		explorer: cfg.Explorer,
		conf:     cfg.Engine,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
	e.SwapGraph(g)

	e.batchPool = newWorkerPool[*queryWork](
		ctx,
		cfg.Engine.BatchWorkers,
		cfg.Engine.QueueDepth,
		func(ctx context.Context, w *queryWork) {
			w.done <- queryDone{index: w.index, result: e.runQuery(w)}
		},
	)
	return e
}

// Graph returns the graph currently served.
func (e *Engine) Graph() *graph.Graph {
	return e.graph.Load()
}

// SwapGraph atomically replaces the graph (used on hot-reload). Sessions
// pick up the new graph on their next operation.
func (e *Engine) SwapGraph(g *graph.Graph) {
	e.graph.Store(g)
	metrics.GraphNodes.Set(float64(g.NodeCount()))
}

// LoadBundle builds a graph from b and serves it.
func (e *Engine) LoadBundle(b *bundle.Bundle) (*graph.Graph, error) {
	g, err := graph.Build(b)
	if err != nil {
		metrics.BundleReloads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("build graph: %w", err)
	}
	e.SwapGraph(g)
	metrics.BundleReloads.WithLabelValues("ok").Inc()
	return g, nil
}

// Rules returns the filter classification in use.
func (e *Engine) Rules() filter.Rules { return e.rules }

// QueueUtilization returns batch queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.batchPool.QueueCap() == 0 {
		return 0
	}
	return float64(e.batchPool.QueueLen()) / float64(e.batchPool.QueueCap())
}

// clampDepth bounds a requested depth to [0, max_depth].
func (e *Engine) clampDepth(d int) int {
	if d < 0 {
		return 0
	}
	if d > e.explorer.MaxDepth {
		return e.explorer.MaxDepth
	}
	return d
}

// Shutdown drains the batch pool.
func (e *Engine) Shutdown() {
	e.batchPool.Drain()
}
