package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/modgraph/internal/view"
)

const testBundle = `{
  "nodes": [
    {"id": "1", "label": "tracks", "fillcolor": "green"},
    {"id": "2", "label": "patMuons", "fillcolor": "lightgrey"},
    {"id": "3", "label": "analyzer", "fillcolor": "lightgrey"}
  ],
  "edges": [
    {"source": "1", "target": "2"},
    {"source": "2", "target": "3"}
  ],
  "modules": {
    "analyzer": {
      "type": "EDAnalyzer",
      "plugin": "MuonAnalyzer",
      "inputTags": [{"field": "src", "type": "InputTag", "module": "patMuons"}],
      "rawSnippet": "analyzer = cms.EDAnalyzer(\"MuonAnalyzer\")"
    },
    "patMuons": {"type": "EDProducer"}
  }
}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(path, []byte(testBundle), 0o644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--bundle", path}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestDeps(t *testing.T) {
	out, err := run(t, "deps", "patMuons", "--depth", "1", "--mode", "downstream")
	require.NoError(t, err)
	assert.Contains(t, out, "dependencies of patMuons (2), downstream, depth 1")
	assert.Contains(t, out, "patMuons (2) -> analyzer (3)")
	assert.NotContains(t, out, "tracks")

	out, err = run(t, "deps", "patMuons", "--json")
	require.NoError(t, err)
	var res struct {
		Mode  view.Mode `json:"mode"`
		Nodes []string  `json:"nodes"`
		Edges []string  `json:"edges"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, view.ModePaths, res.Mode)
	assert.Equal(t, []string{"1", "2", "3"}, res.Nodes)
	assert.Equal(t, []string{"1->2", "2->3"}, res.Edges)
}

func TestDeps_Errors(t *testing.T) {
	_, err := run(t, "deps", "ghost")
	assert.ErrorIs(t, err, view.ErrModuleNotFound)

	_, err = run(t, "deps", "tracks", "--mode", "sideways")
	assert.ErrorContains(t, err, "sideways")

	_, err = run(t, "deps", "tracks", "--depth", "99")
	assert.ErrorContains(t, err, "exceeds max")

	_, err = run(t, "deps")
	assert.Error(t, err)
}

func TestEgo(t *testing.T) {
	out, err := run(t, "ego", "tracks", "--radius", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "nodes (1):")
	assert.Contains(t, out, "edges (0):")
}

func TestSearch(t *testing.T) {
	out, err := run(t, "search", "MUON")
	require.NoError(t, err)
	assert.Equal(t, "patMuons (2)\n", out)

	out, err = run(t, "search", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, `No modules found matching "zzz"`)
}

func TestFilter(t *testing.T) {
	out, err := run(t, "filter")
	require.NoError(t, err)
	assert.Equal(t, "Showing 3 of 3 nodes (100%)\n", out)

	out, err = run(t, "filter", "--sub-x=false", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 2 of 3 nodes (67%)")
	assert.Contains(t, out, "hidden: patMuons (2)")
}

func TestDetails(t *testing.T) {
	out, err := run(t, "details", "analyzer")
	require.NoError(t, err)
	assert.Contains(t, out, "type:   EDAnalyzer")
	assert.Contains(t, out, "src [InputTag] = patMuons")
	assert.Contains(t, out, `analyzer = cms.EDAnalyzer("MuonAnalyzer")`)

	out, err = run(t, "details", "tracks")
	require.NoError(t, err)
	assert.Contains(t, out, "Module data not available")

	_, err = run(t, "details", "ghost")
	assert.ErrorIs(t, err, view.ErrModuleNotFound)
}

func TestStats(t *testing.T) {
	out, err := run(t, "stats")
	require.NoError(t, err)
	assert.Equal(t, "Nodes: 3\nEdges: 2\nModules: 2\n", out)
}
