package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ViewsBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modgraph_views_built_total",
		Help: "Total number of neighbourhood views built, labelled by kind and mode.",
	}, []string{"kind", "mode"})

	ModulesNotFound = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modgraph_module_not_found_total",
		Help: "Total number of requests naming a module absent from the graph.",
	})

	ViewSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "modgraph_view_nodes",
		Help:    "Number of nodes in each built view.",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	FilterEvaluations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modgraph_filter_evaluations_total",
		Help: "Total number of filter passes over the graph.",
	})

	BundleReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modgraph_bundle_reloads_total",
		Help: "Total number of bundle reload attempts, labelled by status.",
	}, []string{"status"})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "modgraph_graph_nodes",
		Help: "Number of nodes in the graph currently served.",
	})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "modgraph_sessions_active",
		Help: "Number of open explorer sessions.",
	})

	BatchQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modgraph_batch_queries_total",
		Help: "Total number of batch traversal queries, labelled by status.",
	}, []string{"status"})

	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "modgraph_operation_duration_ms",
		Help:    "Session operation latency in milliseconds.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250, 1000},
	}, []string{"op"})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "modgraph_batch_queue_utilization_ratio",
		Help: "Current batch queue utilization (0–1).",
	})
)
