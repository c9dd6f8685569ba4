package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/modgraph/internal/bundle"
	"github.com/gyaneshwarpardhi/modgraph/internal/config"
	"github.com/gyaneshwarpardhi/modgraph/internal/filter"
	"github.com/gyaneshwarpardhi/modgraph/internal/graph"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	bundlePath string
	configPath string
	jsonOut    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "modgraph",
		Short:         "Explore a module dependency graph bundle",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.bundlePath, "bundle", "data/bundle.json", "path to the graph bundle JSON")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "service YAML config for filter rules and depth limits")
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		newDepsCmd(opts),
		newEgoCmd(opts),
		newSearchCmd(opts),
		newFilterCmd(opts),
		newDetailsCmd(opts),
		newStatsCmd(opts),
	)
	return root
}

// workspace is what a subcommand operates on.
type workspace struct {
	cfg   *config.ServiceConfig
	graph *graph.Graph
	rules filter.Rules
}

func (o *options) load() (*workspace, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	loader, err := bundle.NewLoader(o.bundlePath)
	if err != nil {
		return nil, err
	}
	g, err := graph.Build(loader.Bundle())
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	if labels := g.AmbiguousLabels(); len(labels) > 0 {
		slog.Debug("duplicate node labels, first node wins", "labels", labels)
	}
	return &workspace{cfg: cfg, graph: g, rules: cfg.Filter.Rules()}, nil
}

// label renders a node as "label (id)".
func (w *workspace) label(id string) string {
	if n := w.graph.Node(id); n != nil && n.Label != id {
		return fmt.Sprintf("%s (%s)", n.Label, id)
	}
	return id
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
