package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/modgraph/internal/graph"
	"github.com/gyaneshwarpardhi/modgraph/internal/metrics"
	"github.com/gyaneshwarpardhi/modgraph/internal/view"
)

// Query is one stateless dependency traversal.
type Query struct {
	Module string    `json:"module"`
	Depth  int       `json:"depth"`
	Mode   view.Mode `json:"mode"`
}

// QueryResult is the outcome of one Query. Error is set instead of the
// subset when the module is unknown.
type QueryResult struct {
	Module string    `json:"module"`
	Mode   view.Mode `json:"mode"`
	Depth  int       `json:"depth"`
	Center string    `json:"center,omitempty"`
	Nodes  []string  `json:"nodes"`
	Edges  []string  `json:"edges"`
	Error  string    `json:"error,omitempty"`
}

// BatchResult collects the results of RunBatch in query order.
type BatchResult struct {
	BatchID string        `json:"batch_id"`
	Results []QueryResult `json:"results"`
}

type queryWork struct {
	index int
	query Query
	graph *graph.Graph
	done  chan<- queryDone
}

type queryDone struct {
	index  int
	result QueryResult
}

// RunBatch fans the queries out over the batch workers against a single
// graph snapshot. If the queue cannot take every query it returns
// ErrQueueFull; queries already queued still run but their results are
// discarded.
func (e *Engine) RunBatch(ctx context.Context, queries []Query) (*BatchResult, error) {
	g := e.graph.Load()
	done := make(chan queryDone, len(queries))

	for i, q := range queries {
		if !e.batchPool.Submit(&queryWork{index: i, query: q, graph: g, done: done}) {
			metrics.BatchQueries.WithLabelValues("dropped").Add(float64(len(queries) - i))
			return nil, fmt.Errorf("%w (capacity %d)", ErrQueueFull, e.batchPool.QueueCap())
		}
	}
	metrics.QueueUtilization.Set(e.QueueUtilization())

	out := &BatchResult{BatchID: uuid.NewString(), Results: make([]QueryResult, len(queries))}
	for range queries {
		select {
		case d := <-done:
			out.Results[d.index] = d.result
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return out, nil
}

func (e *Engine) runQuery(w *queryWork) QueryResult {
	q := w.query
	depth := e.clampDepth(q.Depth)
	res := QueryResult{Module: q.Module, Mode: q.Mode, Depth: depth, Nodes: []string{}, Edges: []string{}}

	v, err := view.Dependencies(w.graph, q.Module, depth, q.Mode)
	if err != nil {
		if errors.Is(err, view.ErrModuleNotFound) {
			metrics.ModulesNotFound.Inc()
		}
		metrics.BatchQueries.WithLabelValues("error").Inc()
		res.Error = err.Error()
		return res
	}
	metrics.BatchQueries.WithLabelValues("ok").Inc()
	res.Center = v.Center
	res.Nodes = v.Subset.SortedNodes()
	res.Edges = v.Subset.SortedEdges()
	return res
}
