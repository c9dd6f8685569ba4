package api

import (
	"fmt"
	"net/http"

	"github.com/gyaneshwarpardhi/modgraph/internal/engine"
	"github.com/gyaneshwarpardhi/modgraph/internal/filter"
	"github.com/gyaneshwarpardhi/modgraph/internal/view"
)

// POST /v1/sessions
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, h.eng.CreateSession())
}

// DELETE /v1/sessions/{id}
func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.eng.DeleteSession(r.PathValue("id")); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /v1/sessions/{id}/view
func (h *Handler) sessionView(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.eng.Session(r.PathValue("id")))
}

// POST /v1/sessions/{id}/select — open a module; auto dependencies default on.
func (h *Handler) selectModule(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	auto := true
	if req.AutoDependencies != nil {
		auto = *req.AutoDependencies
	}
	h.respond(w)(h.eng.Select(r.PathValue("id"), req.Module, auto))
}

// POST /v1/sessions/{id}/back — breadcrumb navigation.
func (h *Handler) back(w http.ResponseWriter, r *http.Request) {
	var req backRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respond(w)(h.eng.BackTo(r.PathValue("id"), *req.Index))
}

// POST /v1/sessions/{id}/close
func (h *Handler) closePanel(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.eng.Close(r.PathValue("id")))
}

// POST /v1/sessions/{id}/dependencies
func (h *Handler) dependencies(w http.ResponseWriter, r *http.Request) {
	var req dependenciesRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	depth := h.explorer.DefaultDepth
	if req.Depth != nil {
		depth = *req.Depth
	}
	mode, err := view.ParseMode(h.explorer.AutoDependencyMode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if req.Mode != nil {
		mode = *req.Mode
	}
	h.respond(w)(h.eng.ShowDependencies(r.PathValue("id"), req.Module, depth, mode))
}

// POST /v1/sessions/{id}/ego
func (h *Handler) ego(w http.ResponseWriter, r *http.Request) {
	var req egoRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	radius := h.explorer.DefaultRadius
	if req.Radius != nil {
		radius = *req.Radius
	}
	h.respond(w)(h.eng.ShowEgo(r.PathValue("id"), req.Module, radius))
}

// PUT /v1/sessions/{id}/filters — omitted toggles keep their current value.
func (h *Handler) filters(w http.ResponseWriter, r *http.Request) {
	var patch filter.Patch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respond(w)(h.eng.PatchFilters(r.PathValue("id"), patch))
}

// POST /v1/sessions/{id}/search
func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respond(w)(h.eng.Search(r.PathValue("id"), req.Query))
}

// POST /v1/sessions/{id}/reset
func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.eng.Reset(r.PathValue("id")))
}

// POST /v1/queries/batch — stateless traversals (up to 100 queries).
func (h *Handler) batch(w http.ResponseWriter, r *http.Request) {
	var reqs []batchQuery
	if err := decodeJSON(w, r, &reqs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(reqs) == 0 {
		writeError(w, http.StatusBadRequest, "batch must contain at least one query")
		return
	}
	if len(reqs) > maxBatchSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("batch size %d exceeds max %d", len(reqs), maxBatchSize))
		return
	}
	if err := check(validate.Var(reqs, "dive")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mode, err := view.ParseMode(h.explorer.AutoDependencyMode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	queries := make([]engine.Query, len(reqs))
	for i, q := range reqs {
		queries[i] = engine.Query{Module: q.Module, Depth: h.explorer.DefaultDepth, Mode: mode}
		if q.Depth != nil {
			queries[i].Depth = *q.Depth
		}
		if q.Mode != nil {
			queries[i].Mode = *q.Mode
		}
	}

	res, err := h.eng.RunBatch(r.Context(), queries)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// respond writes a session snapshot or the error that replaced it.
func (h *Handler) respond(w http.ResponseWriter) func(*engine.Snapshot, error) {
	return func(snap *engine.Snapshot, err error) {
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}
