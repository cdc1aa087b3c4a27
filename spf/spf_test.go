package spf

import (
	"reflect"
	"testing"

	"github.com/linkstate/intentd/topology"
)

func biEdge(g *topology.Graph, a, b topology.NodeId, cost, latency, bandwidth int) {
	g.Adj[a] = append(g.Adj[a], topology.Edge{To: b, Cost: cost, Latency: latency, Bandwidth: bandwidth})
	g.Adj[b] = append(g.Adj[b], topology.Edge{To: a, Cost: cost, Latency: latency, Bandwidth: bandwidth})
}

func newGraph(nodes ...topology.NodeId) *topology.Graph {
	g := &topology.Graph{Nodes: make(map[topology.NodeId]struct{}), Adj: make(map[topology.NodeId][]topology.Edge)}
	for _, n := range nodes {
		g.Nodes[n] = struct{}{}
	}
	return g
}

func intPtr(v int) *int { return &v }

// Scenario 1 (spec.md §8): triangle r1-r2 cost 1, r1-r3 cost 10, r2-r3
// cost 1 — r1's shortest path to r3 goes via r2 (cost 2), not directly
// (cost 10).
func TestTriangleConvergence(t *testing.T) {
	g := newGraph("r1", "r2", "r3")
	biEdge(g, "r1", "r2", 1, 0, 0)
	biEdge(g, "r1", "r3", 10, 0, 0)
	biEdge(g, "r2", "r3", 1, 0, 0)

	path, ok := Unconstrained(g, "r1", "r3")
	if !ok {
		t.Fatal("expected a path from r1 to r3")
	}
	want := []topology.NodeId{"r1", "r2", "r3"}
	if !reflect.DeepEqual(path, want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
}

// Scenario 2 (spec.md §8): A-B(1,5) B-C(1,5) A-C(10,2) C-D(1,1), all
// bandwidths >= 40. Intent A->D max_latency=12 min_bandwidth=40 must
// choose A,B,C,D (latency 11, cost 3) over A,C,D (latency 3, but
// higher cost 11) because it is the lower-cost path that still
// satisfies the latency bound.
func TestLatencyConstraintPrefersLowerCostPath(t *testing.T) {
	g := newGraph("A", "B", "C", "D")
	biEdge(g, "A", "B", 1, 5, 40)
	biEdge(g, "B", "C", 1, 5, 40)
	biEdge(g, "A", "C", 10, 2, 40)
	biEdge(g, "C", "D", 1, 1, 40)

	path, ok := Run(g, "A", "D", Constraints{MaxLatency: intPtr(12), MinBandwidth: intPtr(40)})
	if !ok {
		t.Fatal("expected a constrained path from A to D")
	}
	want := []topology.NodeId{"A", "B", "C", "D"}
	if !reflect.DeepEqual(path, want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
}

// Scenario 3 (spec.md §8): same graph, B-C bandwidth dropped to 50 is
// still not enough when the intent demands min_bandwidth=60; SPF must
// route around it via A,C,D.
func TestBandwidthPruning(t *testing.T) {
	g := newGraph("A", "B", "C", "D")
	biEdge(g, "A", "B", 1, 5, 100)
	biEdge(g, "B", "C", 1, 5, 50)
	biEdge(g, "A", "C", 10, 2, 100)
	biEdge(g, "C", "D", 1, 1, 100)

	path, ok := Run(g, "A", "D", Constraints{MinBandwidth: intPtr(60)})
	if !ok {
		t.Fatal("expected a constrained path from A to D")
	}
	want := []topology.NodeId{"A", "C", "D"}
	if !reflect.DeepEqual(path, want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
}

// Scenario 4 (spec.md §8): when no path satisfies the intent's
// constraints, constrained SPF reports absent so the caller can fall
// back to unconstrained SPF.
func TestConstrainedSPFAbsentWhenUnsatisfiable(t *testing.T) {
	g := newGraph("A", "B")
	biEdge(g, "A", "B", 1, 0, 10)

	if _, ok := Run(g, "A", "B", Constraints{MinBandwidth: intPtr(1000)}); ok {
		t.Fatal("expected no path to satisfy an unmeetable bandwidth constraint")
	}

	path, ok := Unconstrained(g, "A", "B")
	if !ok || !reflect.DeepEqual(path, []topology.NodeId{"A", "B"}) {
		t.Fatalf("unconstrained fallback failed: path=%v ok=%v", path, ok)
	}
}

func TestNoPathReturnsAbsent(t *testing.T) {
	g := newGraph("A", "B")
	if _, ok := Unconstrained(g, "A", "B"); ok {
		t.Fatal("expected no path between disconnected nodes")
	}
}

// Unconstrained SPF cost must equal the true graph min-cost, regardless
// of hop count (spec.md §8 invariant).
func TestUnconstrainedMatchesMinCost(t *testing.T) {
	g := newGraph("A", "B", "C")
	biEdge(g, "A", "B", 5, 0, 0)
	biEdge(g, "A", "C", 1, 0, 0)
	biEdge(g, "C", "B", 1, 0, 0)

	path, ok := Unconstrained(g, "A", "B")
	if !ok {
		t.Fatal("expected a path")
	}
	want := []topology.NodeId{"A", "C", "B"}
	if !reflect.DeepEqual(path, want) {
		t.Fatalf("path = %v, want %v (lower total cost via C)", path, want)
	}
}
