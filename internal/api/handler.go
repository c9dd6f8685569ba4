package api

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/modgraph/internal/bundle"
	"github.com/gyaneshwarpardhi/modgraph/internal/config"
	"github.com/gyaneshwarpardhi/modgraph/internal/details"
	"github.com/gyaneshwarpardhi/modgraph/internal/engine"
	"github.com/gyaneshwarpardhi/modgraph/internal/metrics"
	"github.com/gyaneshwarpardhi/modgraph/internal/view"
)

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng      *engine.Engine
	loader   *bundle.Loader
	explorer config.ExplorerConf
	mux      *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(eng *engine.Engine, loader *bundle.Loader, cfg *config.ServiceConfig) http.Handler {
	h := &Handler{eng: eng, loader: loader, explorer: cfg.Explorer, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /v1/graph", h.graphInfo)
	h.mux.HandleFunc("GET /v1/bundle", h.getBundle)
	h.mux.HandleFunc("POST /v1/bundle/reload", h.reloadBundle)
	h.mux.HandleFunc("GET /v1/modules/{label}", h.moduleDetails)

	h.mux.HandleFunc("POST /v1/sessions", h.createSession)
	h.mux.HandleFunc("DELETE /v1/sessions/{id}", h.deleteSession)
	h.mux.HandleFunc("GET /v1/sessions/{id}/view", h.sessionView)
	h.mux.HandleFunc("POST /v1/sessions/{id}/select", h.selectModule)
	h.mux.HandleFunc("POST /v1/sessions/{id}/back", h.back)
	h.mux.HandleFunc("POST /v1/sessions/{id}/close", h.closePanel)
	h.mux.HandleFunc("POST /v1/sessions/{id}/dependencies", h.dependencies)
	h.mux.HandleFunc("POST /v1/sessions/{id}/ego", h.ego)
	h.mux.HandleFunc("PUT /v1/sessions/{id}/filters", h.filters)
	h.mux.HandleFunc("POST /v1/sessions/{id}/search", h.search)
	h.mux.HandleFunc("POST /v1/sessions/{id}/reset", h.reset)

	h.mux.HandleFunc("POST /v1/queries/batch", h.batch)

	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return corsMiddleware(cfg.Server.CORSAllowedOrigin, loggingMiddleware(h.mux))
}

// GET /v1/graph — graph statistics and labels carried by several nodes.
func (h *Handler) graphInfo(w http.ResponseWriter, r *http.Request) {
	g := h.eng.Graph()
	ambiguous := g.AmbiguousLabels()
	if ambiguous == nil {
		ambiguous = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"node_count":       g.NodeCount(),
		"edge_count":       g.EdgeCount(),
		"module_count":     g.ModuleCount(),
		"ambiguous_labels": ambiguous,
	})
}

// GET /v1/bundle — the bundle as loaded, for the viewer to render.
func (h *Handler) getBundle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.loader.Bundle())
}

// POST /v1/bundle/reload — re-read the bundle from disk. Registered
// OnChange callbacks swap the graph.
func (h *Handler) reloadBundle(w http.ResponseWriter, r *http.Request) {
	if _, err := h.loader.Reload(); err != nil {
		metrics.BundleReloads.WithLabelValues("error").Inc()
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	g := h.eng.Graph()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded":   true,
		"node_count": g.NodeCount(),
		"edge_count": g.EdgeCount(),
	})
}

// GET /v1/modules/{label} — details panel data.
func (h *Handler) moduleDetails(w http.ResponseWriter, r *http.Request) {
	label := r.PathValue("label")
	g := h.eng.Graph()
	d := details.Build(g, label)
	if d.NodeID == "" && !d.Available {
		metrics.ModulesNotFound.Inc()
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s: %q", view.ErrModuleNotFound, label))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz — 503 if the batch queue is >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
		"nodes":             h.eng.Graph().NodeCount(),
	})
}
