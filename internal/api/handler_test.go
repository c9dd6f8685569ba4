package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/modgraph/internal/api"
	"github.com/gyaneshwarpardhi/modgraph/internal/bundle"
	"github.com/gyaneshwarpardhi/modgraph/internal/config"
	"github.com/gyaneshwarpardhi/modgraph/internal/engine"
	"github.com/gyaneshwarpardhi/modgraph/internal/graph"
)

const sampleBundle = `{
  "nodes": [
    {"id": "1", "label": "source"},
    {"id": "2", "label": "tracks", "fillcolor": "green"},
    {"id": "3", "label": "patMuons", "fillcolor": "lightgrey"},
    {"id": "4", "label": "hltMuons", "fillcolor": "green"},
    {"id": "5", "label": "analyzer", "fillcolor": "lightgrey"},
    {"id": "6", "label": "tracks", "fillcolor": "green"}
  ],
  "edges": [
    {"source": "1", "target": "2"},
    {"source": "2", "target": "3"},
    {"source": "2", "target": "4"},
    {"source": "3", "target": "5"},
    {"source": "4", "target": "5"}
  ],
  "modules": {
    "tracks": {"type": "EDProducer", "plugin": "TrackProducer"},
    "analyzer": {
      "type": "EDAnalyzer",
      "plugin": "MuonAnalyzer",
      "inputTags": [{"field": "src", "type": "InputTag", "module": "patMuons"}],
      "parameters": {"src": {"type": "InputTag", "value": "patMuons"}, "ptMin": {"type": "double", "value": "5"}}
    }
  }
}`

type testServer struct {
	handler http.Handler
	path    string
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleBundle), 0o644))

	loader, err := bundle.NewLoader(path)
	require.NoError(t, err)

	cfg := config.Default()
	ctx, cancel := context.WithCancel(context.Background())
	g, err := graph.Build(loader.Bundle())
	require.NoError(t, err)
	eng := engine.New(ctx, g, cfg)
	loader.OnChange(func(b *bundle.Bundle) { _, _ = eng.LoadBundle(b) })
	t.Cleanup(func() {
		eng.Shutdown()
		cancel()
	})

	return &testServer{handler: api.New(eng, loader, cfg), path: path}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) session(t *testing.T) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/v1/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var snap engine.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.NotEmpty(t, snap.SessionID)
	return snap.SessionID
}

func snapshot(t *testing.T, rec *httptest.ResponseRecorder) engine.Snapshot {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var snap engine.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decodeBody(t, rec)["status"])

	rec = s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "modgraph_graph_nodes")
}

func TestCORS(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodOptions, "/v1/graph", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = s.do(t, http.MethodGet, "/v1/graph", "")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGraphAndBundle(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodGet, "/v1/graph", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 6, body["node_count"])
	assert.EqualValues(t, 5, body["edge_count"])
	assert.Equal(t, []interface{}{"tracks"}, body["ambiguous_labels"])

	rec = s.do(t, http.MethodGet, "/v1/bundle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["nodes"], 6)
}

func TestReload(t *testing.T) {
	s := newServer(t)

	smaller := strings.Replace(sampleBundle, `,
    {"id": "6", "label": "tracks", "fillcolor": "green"}`, "", 1)
	require.NoError(t, os.WriteFile(s.path, []byte(smaller), 0o644))

	rec := s.do(t, http.MethodPost, "/v1/bundle/reload", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 5, decodeBody(t, rec)["node_count"])

	require.NoError(t, os.WriteFile(s.path, []byte(`{"nodes": [{"id": ""}]}`), 0o644))
	rec = s.do(t, http.MethodPost, "/v1/bundle/reload", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "validation")

	rec = s.do(t, http.MethodGet, "/v1/graph", "")
	assert.EqualValues(t, 5, decodeBody(t, rec)["node_count"], "bad bundle keeps the old graph")
}

func TestModuleDetails(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodGet, "/v1/modules/analyzer", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "EDAnalyzer", body["type"])
	assert.Equal(t, true, body["available"])
	params := body["parameters"].([]interface{})
	require.Len(t, params, 1)
	assert.Equal(t, "ptMin", params[0].(map[string]interface{})["name"])

	rec = s.do(t, http.MethodGet, "/v1/modules/source", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, false, body["available"])
	assert.Equal(t, "N/A", body["type"])

	rec = s.do(t, http.MethodGet, "/v1/modules/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "module not found")
}

func TestSessionFlow(t *testing.T) {
	s := newServer(t)
	id := s.session(t)
	base := "/v1/sessions/" + id

	// Dependencies without a module need a selection.
	rec := s.do(t, http.MethodPost, base+"/dependencies", `{"depth": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "select a module first", decodeBody(t, rec)["error"])

	snap := snapshot(t, s.do(t, http.MethodPost, base+"/select", `{"module": "analyzer", "auto_dependencies": false}`))
	assert.Equal(t, "analyzer", snap.State.Selected)
	require.NotNil(t, snap.Details)
	assert.Equal(t, "MuonAnalyzer", snap.Details.Plugin)

	snap = snapshot(t, s.do(t, http.MethodPost, base+"/dependencies", `{"depth": 1, "mode": "upstream"}`))
	assert.Equal(t, []string{"1", "2", "6"}, snap.Display.HiddenNodes)
	assert.Equal(t, []string{"5"}, snap.Display.Highlighted)

	snap = snapshot(t, s.do(t, http.MethodPost, base+"/ego", `{"module": "source", "radius": 0}`))
	assert.Len(t, snap.Display.HiddenNodes, 5)

	snap = snapshot(t, s.do(t, http.MethodPut, base+"/filters", `{"sub_x": false}`))
	require.NotNil(t, snap.Filter)
	assert.False(t, snap.State.Filters.SubX)
	assert.True(t, snap.State.Filters.StageA, "omitted toggles keep their value")

	snap = snapshot(t, s.do(t, http.MethodPost, base+"/search", `{"query": "muons"}`))
	require.NotNil(t, snap.Search)
	assert.Equal(t, []string{"3", "4"}, snap.Search.Matches)

	snap = snapshot(t, s.do(t, http.MethodPost, base+"/reset", ""))
	assert.Empty(t, snap.Display.HiddenNodes)

	snap = snapshot(t, s.do(t, http.MethodPost, base+"/select", `{"module": "tracks"}`))
	require.NotNil(t, snap.State.View, "auto dependencies default on")
	assert.Equal(t, "2", snap.State.View.Center, "first node with the label wins")

	snap = snapshot(t, s.do(t, http.MethodPost, base+"/back", `{"index": 0}`))
	assert.Equal(t, []string{"analyzer"}, snap.State.History)

	snap = snapshot(t, s.do(t, http.MethodPost, base+"/close", ""))
	assert.Empty(t, snap.State.Selected)

	snap = snapshot(t, s.do(t, http.MethodGet, base+"/view", ""))
	assert.Equal(t, id, snap.SessionID)

	rec = s.do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, base+"/view", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionErrors(t *testing.T) {
	s := newServer(t)
	base := "/v1/sessions/" + s.session(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown session", http.MethodPost, "/v1/sessions/nope/reset", "", http.StatusNotFound},
		{"unknown module", http.MethodPost, base + "/dependencies", `{"module": "ghost"}`, http.StatusNotFound},
		{"bad json", http.MethodPost, base + "/select", `{`, http.StatusBadRequest},
		{"missing module", http.MethodPost, base + "/select", `{}`, http.StatusBadRequest},
		{"negative depth", http.MethodPost, base + "/dependencies", `{"module": "tracks", "depth": -1}`, http.StatusBadRequest},
		{"bad mode", http.MethodPost, base + "/dependencies", `{"module": "tracks", "mode": "sideways"}`, http.StatusBadRequest},
		{"control chars", http.MethodPost, base + "/search", `{"query": "a\u0007b"}`, http.StatusBadRequest},
		{"missing index", http.MethodPost, base + "/back", `{}`, http.StatusBadRequest},
		{"index out of range", http.MethodPost, base + "/back", `{"index": 3}`, http.StatusBadRequest},
		{"filters unknown session", http.MethodPut, "/v1/sessions/nope/filters", `{}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decodeBody(t, rec)["error"])
		})
	}
}

func TestBatch(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/v1/queries/batch", `[
		{"module": "analyzer", "depth": 1, "mode": "upstream"},
		{"module": "ghost"},
		{"module": "source"}
	]`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res engine.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Results, 3)
	assert.Equal(t, []string{"3", "4", "5"}, res.Results[0].Nodes)
	assert.NotEmpty(t, res.Results[1].Error)
	assert.Equal(t, 2, res.Results[2].Depth, "default depth applies")
	assert.Equal(t, []string{"1", "2", "3", "4"}, res.Results[2].Nodes)

	rec = s.do(t, http.MethodPost, "/v1/queries/batch", `[]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/queries/batch", `[{"depth": 1}]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	big := "[" + strings.TrimSuffix(strings.Repeat(`{"module": "source"},`, 101), ",") + "]"
	rec = s.do(t, http.MethodPost, "/v1/queries/batch", big)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "exceeds max 100")
}
