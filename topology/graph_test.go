package topology

import "testing"

func TestBuildGraphSkipsStubAndDownLinks(t *testing.T) {
	lsdb := map[NodeId]LSA{
		"r1": {
			Origin: "r1",
			Seq:    1,
			Links: map[string]LinkEntry{
				"r2":           {Cost: 1, Latency: 5, Bandwidth: 100, Up: true},
				"r3":           {Cost: 1, Up: false}, // down: must not become an edge
				"10.0.1.0/24":  {Stub: true, Cost: 1, Prefix: "10.0.1.0/24"},
			},
		},
	}

	g := BuildGraph(lsdb)

	if len(g.Adj["r1"]) != 1 || g.Adj["r1"][0].To != "r2" {
		t.Fatalf("expected exactly one edge r1->r2, got %v", g.Adj["r1"])
	}
	if len(g.Stubs) != 1 || g.Stubs[0].Prefix != "10.0.1.0/24" {
		t.Fatalf("expected one stub advert, got %v", g.Stubs)
	}
	for _, want := range []NodeId{"r1", "r2", "r3"} {
		if _, ok := g.Nodes[want]; !ok {
			t.Fatalf("expected node %s in graph, nodes=%v", want, g.Nodes)
		}
	}
}

func TestRemotePrefixesExcludesSelfAndDedupes(t *testing.T) {
	lsdb := map[NodeId]LSA{
		"r1": {Origin: "r1", Links: map[string]LinkEntry{"10.0.1.0/24": {Stub: true, Cost: 1, Prefix: "10.0.1.0/24"}}},
		"r2": {Origin: "r2", Links: map[string]LinkEntry{
			"10.0.2.0/24": {Stub: true, Cost: 1, Prefix: "10.0.2.0/24"},
			"10.0.3.0/24": {Stub: true, Cost: 1, Prefix: "10.0.3.0/24"},
		}},
		"r3": {Origin: "r3", Links: map[string]LinkEntry{"10.0.3.0/24": {Stub: true, Cost: 1, Prefix: "10.0.3.0/24"}}},
	}

	g := BuildGraph(lsdb)
	remote := g.RemotePrefixes("r1")

	if len(remote) != 2 {
		t.Fatalf("expected 2 distinct remote prefixes (self excluded, dup deduped), got %d: %v", len(remote), remote)
	}
	for _, r := range remote {
		if r.Prefix == "10.0.1.0/24" {
			t.Fatal("self-advertised prefix must be excluded from RemotePrefixes")
		}
	}
}
