package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/modgraph/internal/details"
	"github.com/gyaneshwarpardhi/modgraph/internal/filter"
	"github.com/gyaneshwarpardhi/modgraph/internal/view"
)

// viewOutput is the JSON form of a dependency or ego view.
type viewOutput struct {
	view.Result
	Nodes []string `json:"nodes"`
	Edges []string `json:"edges"`
}

func newDepsCmd(opts *options) *cobra.Command {
	var depth int
	var mode string
	cmd := &cobra.Command{
		Use:   "deps <module>",
		Short: "Show the dependency view of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := view.ParseMode(mode)
			if err != nil {
				return err
			}
			ws, err := opts.load()
			if err != nil {
				return err
			}
			if depth > ws.cfg.Explorer.MaxDepth {
				return fmt.Errorf("depth %d exceeds max %d", depth, ws.cfg.Explorer.MaxDepth)
			}
			res, err := view.Dependencies(ws.graph, args[0], depth, m)
			if err != nil {
				return err
			}
			return ws.printView(cmd.OutOrStdout(), opts.jsonOut, res)
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 2, "maximum number of hops")
	cmd.Flags().StringVar(&mode, "mode", "paths", "upstream, downstream, both or paths")
	return cmd
}

func newEgoCmd(opts *options) *cobra.Command {
	var radius int
	cmd := &cobra.Command{
		Use:   "ego <module>",
		Short: "Show every module within a radius of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.load()
			if err != nil {
				return err
			}
			if radius > ws.cfg.Explorer.MaxDepth {
				return fmt.Errorf("radius %d exceeds max %d", radius, ws.cfg.Explorer.MaxDepth)
			}
			res, err := view.EgoRadius(ws.graph, args[0], radius)
			if err != nil {
				return err
			}
			return ws.printView(cmd.OutOrStdout(), opts.jsonOut, res)
		},
	}
	cmd.Flags().IntVar(&radius, "radius", 2, "number of undirected hops")
	return cmd
}

func (w *workspace) printView(out io.Writer, asJSON bool, res view.Result) error {
	nodes, edges := res.Subset.SortedNodes(), res.Subset.SortedEdges()
	if asJSON {
		return printJSON(out, viewOutput{Result: res, Nodes: nodes, Edges: edges})
	}
	fmt.Fprintf(out, "%s of %s, %s, depth %d\n", res.Kind, w.label(res.Center), res.Mode, res.Depth)
	fmt.Fprintf(out, "nodes (%d):\n", len(nodes))
	for _, id := range nodes {
		fmt.Fprintf(out, "  %s\n", w.label(id))
	}
	fmt.Fprintf(out, "edges (%d):\n", len(edges))
	for _, id := range edges {
		e := w.graph.Edge(id)
		fmt.Fprintf(out, "  %s -> %s\n", w.label(e.Source), w.label(e.Target))
	}
	return nil
}

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find modules whose name contains a substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.load()
			if err != nil {
				return err
			}
			res := view.Search(ws.graph, args[0])
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return printJSON(out, res)
			}
			if res.Outcome == view.SearchNone {
				fmt.Fprintf(out, "No modules found matching %q\n", res.Query)
				return nil
			}
			for _, id := range res.Matches {
				fmt.Fprintln(out, ws.label(id))
			}
			return nil
		},
	}
}

func newFilterCmd(opts *options) *cobra.Command {
	t := filter.AllOn()
	var listHidden bool
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Count the modules visible under a set of filter toggles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.load()
			if err != nil {
				return err
			}
			res := filter.Evaluate(ws.graph, ws.rules, t)
			var hidden []string
			for _, n := range ws.graph.Nodes() {
				if !res.Visible.HasNode(n.ID) {
					hidden = append(hidden, n.ID)
				}
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return printJSON(out, struct {
					Toggles filter.Toggles `json:"toggles"`
					Stats   filter.Stats   `json:"stats"`
					Hidden  []string       `json:"hidden,omitempty"`
				}{t, res.Stats, hiddenIf(listHidden, hidden)})
			}
			fmt.Fprintln(out, res.Stats.Summary())
			if listHidden {
				for _, id := range hidden {
					fmt.Fprintf(out, "  hidden: %s\n", ws.label(id))
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&t.StageA, "stage-a", true, "show stage A (reconstruction) modules")
	f.BoolVar(&t.StageB, "stage-b", true, "show stage B (analysis) modules")
	f.BoolVar(&t.SubX, "sub-x", true, "show modules matching the first keyword")
	f.BoolVar(&t.SubY, "sub-y", true, "show modules matching the second keyword")
	f.BoolVar(&t.Producer, "producer", true, "show producers")
	f.BoolVar(&t.Filter, "filter", true, "show filters")
	f.BoolVar(&t.Analyzer, "analyzer", true, "show analyzers")
	f.BoolVar(&listHidden, "list", false, "list hidden modules")
	return cmd
}

func hiddenIf(ok bool, ids []string) []string {
	if ok {
		return ids
	}
	return nil
}

func newDetailsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "details <module>",
		Short: "Show the configuration of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.load()
			if err != nil {
				return err
			}
			d := details.Build(ws.graph, args[0])
			if d.NodeID == "" && !d.Available {
				return fmt.Errorf("%w: %q", view.ErrModuleNotFound, args[0])
			}
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return printJSON(out, d)
			}
			printDetails(out, d)
			return nil
		},
	}
}

func printDetails(out io.Writer, d details.Details) {
	fmt.Fprintf(out, "%s\n  type:   %s\n  plugin: %s\n", d.Name, d.Type, d.Plugin)
	if !d.Available {
		fmt.Fprintln(out, "  Module data not available")
		return
	}
	if len(d.Groups) > 0 || len(d.Singles) > 0 {
		fmt.Fprintln(out, "input tags:")
	}
	for _, g := range d.Groups {
		fmt.Fprintf(out, "  %s [%s]\n", g.Field, g.Type)
		for _, it := range g.Items {
			fmt.Fprintf(out, "    %s = %s%s\n", it.Label, it.Value, notFound(it))
		}
	}
	for _, it := range d.Singles {
		fmt.Fprintf(out, "  %s [%s] = %s%s\n", it.Label, it.Type, it.Value, notFound(it))
	}
	if len(d.Parameters) > 0 {
		fmt.Fprintln(out, "parameters:")
	}
	for _, p := range d.Parameters {
		fmt.Fprintf(out, "  %s [%s] = %s\n", p.Name, p.Type, p.Value)
	}
	fmt.Fprintln(out, "config:")
	for _, line := range strings.Split(d.RawSnippet, "\n") {
		fmt.Fprintf(out, "  %s\n", line)
	}
}

func notFound(it details.TagItem) string {
	if it.Found {
		return ""
	}
	return "  (Module not found in graph)"
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print node, edge and module counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := opts.load()
			if err != nil {
				return err
			}
			g := ws.graph
			ambiguous := g.AmbiguousLabels()
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return printJSON(out, map[string]interface{}{
					"node_count":       g.NodeCount(),
					"edge_count":       g.EdgeCount(),
					"module_count":     g.ModuleCount(),
					"ambiguous_labels": ambiguous,
				})
			}
			fmt.Fprintf(out, "Nodes: %d\nEdges: %d\nModules: %d\n", g.NodeCount(), g.EdgeCount(), g.ModuleCount())
			if len(ambiguous) > 0 {
				fmt.Fprintf(out, "Duplicate labels: %s\n", strings.Join(ambiguous, ", "))
			}
			return nil
		},
	}
}
