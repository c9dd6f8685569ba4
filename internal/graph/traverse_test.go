package graph_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gyaneshwarpardhi/modgraph/internal/graph"
)

func diamond(t *testing.T) *graph.Graph {
	t.Helper()
	return build(t, []string{"A", "B", "C", "D"}, "A>B", "A>C", "B>D", "C>D")
}

func assertSubset(t *testing.T, got graph.Subset, nodes, edges []string) {
	t.Helper()
	if nodes == nil {
		nodes = []string{}
	}
	if edges == nil {
		edges = []string{}
	}
	if diff := cmp.Diff(nodes, got.SortedNodes()); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(edges, got.SortedEdges()); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestTraverse_SingleEdge(t *testing.T) {
	g := build(t, []string{"A", "B"}, "A>B")

	assertSubset(t, g.Traverse("B", 1, graph.Predecessors), []string{"A", "B"}, []string{"A->B"})
	assertSubset(t, g.Traverse("A", 1, graph.Successors), []string{"A", "B"}, []string{"A->B"})
	assertSubset(t, g.Traverse("A", 1, graph.Predecessors), []string{"A"}, nil)
	assertSubset(t, g.Traverse("B", 1, graph.Successors), []string{"B"}, nil)
}

func TestTraverse_DepthZero(t *testing.T) {
	g := diamond(t)
	for _, dir := range []graph.Direction{graph.Predecessors, graph.Successors, graph.Undirected} {
		for _, id := range []string{"A", "B", "C", "D"} {
			assertSubset(t, g.Traverse(id, 0, dir), []string{id}, nil)
		}
	}
	assertSubset(t, g.Traverse("A", -3, graph.Undirected), []string{"A"}, nil)
}

func TestTraverse_UnknownStart(t *testing.T) {
	g := diamond(t)
	got := g.Traverse("nope", 3, graph.Undirected)
	if got.Len() != 0 || len(got.Edges) != 0 {
		t.Errorf("unknown start should be empty, got %v", got.SortedNodes())
	}
}

func TestTraverse_Diamond(t *testing.T) {
	g := diamond(t)

	assertSubset(t, g.Traverse("A", 2, graph.Undirected),
		[]string{"A", "B", "C", "D"},
		[]string{"A->B", "A->C", "B->D", "C->D"})

	assertSubset(t, g.Traverse("A", 1, graph.Successors),
		[]string{"A", "B", "C"},
		[]string{"A->B", "A->C"})

	assertSubset(t, g.Traverse("D", 2, graph.Predecessors),
		[]string{"A", "B", "C", "D"},
		[]string{"A->B", "A->C", "B->D", "C->D"})

	// B reaches C only through A or D, i.e. via a mixed-direction path.
	assertSubset(t, g.Traverse("B", 2, graph.Undirected),
		[]string{"A", "B", "C", "D"},
		[]string{"A->B", "A->C", "B->D", "C->D"})
}

func TestTraverse_Cycle(t *testing.T) {
	g := build(t, []string{"A", "B"}, "A>B", "B>A")
	for _, depth := range []int{1, 2, 5, 50} {
		for _, dir := range []graph.Direction{graph.Predecessors, graph.Successors, graph.Undirected} {
			got := g.Traverse("A", depth, dir)
			if diff := cmp.Diff([]string{"A", "B"}, got.SortedNodes()); diff != "" {
				t.Errorf("depth %d %s: nodes mismatch (-want +got):\n%s", depth, dir, diff)
			}
		}
	}
}

func TestTraverse_ParallelEdges(t *testing.T) {
	g := build(t, []string{"A", "B"}, "A>B", "A>B")
	assertSubset(t, g.Traverse("A", 1, graph.Successors), []string{"A", "B"}, []string{"A->B", "A->B#1"})
}

func TestTraverse_MonotonicInDepth(t *testing.T) {
	g := build(t,
		[]string{"a", "b", "c", "d", "e", "f", "g"},
		"a>b", "b>c", "c>d", "b>e", "e>f", "f>b", "g>a", "d>g")

	for _, dir := range []graph.Direction{graph.Predecessors, graph.Successors, graph.Undirected} {
		for _, id := range []string{"a", "b", "e", "g"} {
			prev := g.Traverse(id, 0, dir)
			for d := 1; d <= 6; d++ {
				cur := g.Traverse(id, d, dir)
				for n := range prev.Nodes {
					if !cur.HasNode(n) {
						t.Errorf("%s from %s: node %s at depth %d missing at depth %d", dir, id, n, d-1, d)
					}
				}
				prev = cur
			}
		}
	}
}

func TestTraverse_Deterministic(t *testing.T) {
	g := diamond(t)
	first := g.Traverse("B", 3, graph.Undirected)
	for i := 0; i < 20; i++ {
		again := g.Traverse("B", 3, graph.Undirected)
		if !cmp.Equal(first.SortedNodes(), again.SortedNodes()) || !cmp.Equal(first.SortedEdges(), again.SortedEdges()) {
			t.Fatalf("run %d differs", i)
		}
	}
}

func TestTraverse_SiblingCrossLink(t *testing.T) {
	// Hub with two children linked to each other: the cross edge is only
	// picked up once a sibling is expanded.
	g := build(t, []string{"H", "X", "Y"}, "H>X", "H>Y", "X>Y")

	assertSubset(t, g.Traverse("H", 1, graph.Undirected), []string{"H", "X", "Y"}, []string{"H->X", "H->Y"})
	assertSubset(t, g.Traverse("H", 2, graph.Undirected), []string{"H", "X", "Y"}, []string{"H->X", "H->Y", "X->Y"})
}

func TestSubsetUnion(t *testing.T) {
	a := graph.NewSubset()
	a.Nodes["x"] = struct{}{}
	a.Edges["x->y"] = struct{}{}
	b := graph.NewSubset()
	b.Nodes["y"] = struct{}{}

	u := a.Union(b)
	assertSubset(t, u, []string{"x", "y"}, []string{"x->y"})
	if a.HasNode("y") {
		t.Error("Union must not modify its receiver")
	}
}

func TestTraverse_InvalidDirectionPanics(t *testing.T) {
	g := diamond(t)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid direction")
		}
	}()
	g.Traverse("A", 1, graph.Direction(42))
}
