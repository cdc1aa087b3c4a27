package intentstore

import (
	"testing"

	"github.com/linkstate/intentd/topology"
)

func TestPutReplacesSameKey(t *testing.T) {
	s := NewStore()
	bw := 10
	s.Put(Intent{Src: "pc1", Dst: "pc5", MinBandwidth: &bw})
	s.Put(Intent{Src: "pc1", Dst: "pc5"}) // replaces, clearing the constraint

	lsdb := map[topology.NodeId]topology.LSA{
		"r5": {Origin: "r5", Links: map[string]topology.LinkEntry{
			"172.16.5.0/24": {Stub: true, Prefix: "172.16.5.0/24"},
		}},
	}
	g := topology.BuildGraph(lsdb)

	matches := s.ForDestination("r5", HostSubnetResolver{}, g)
	if len(matches) != 1 {
		t.Fatalf("expected exactly one stored intent for r5, got %d", len(matches))
	}
	if matches[0].MinBandwidth != nil {
		t.Fatal("second Put must have replaced the first, clearing min_bandwidth")
	}
}

func TestHostSubnetResolver(t *testing.T) {
	lsdb := map[topology.NodeId]topology.LSA{
		"r1": {Origin: "r1", Links: map[string]topology.LinkEntry{
			"172.16.1.0/24": {Stub: true, Prefix: "172.16.1.0/24"},
		}},
	}
	g := topology.BuildGraph(lsdb)

	router, ok := HostSubnetResolver{}.Resolve(g, "pc1")
	if !ok || router != "r1" {
		t.Fatalf("Resolve(pc1) = %v, %v; want r1, true", router, ok)
	}

	if _, ok := (HostSubnetResolver{}).Resolve(g, "pc99"); ok {
		t.Fatal("expected no match for an unadvertised subnet")
	}
}

func TestForDestinationOnlyMatchesResolvedRouter(t *testing.T) {
	s := NewStore()
	s.Put(Intent{Src: "pc1", Dst: "pc5"})

	lsdb := map[topology.NodeId]topology.LSA{
		"r5": {Origin: "r5", Links: map[string]topology.LinkEntry{"172.16.5.0/24": {Stub: true, Prefix: "172.16.5.0/24"}}},
		"r6": {Origin: "r6", Links: map[string]topology.LinkEntry{"172.16.6.0/24": {Stub: true, Prefix: "172.16.6.0/24"}}},
	}
	g := topology.BuildGraph(lsdb)

	if matches := s.ForDestination("r6", HostSubnetResolver{}, g); len(matches) != 0 {
		t.Fatalf("intent targeting pc5/r5 must not match destination r6, got %v", matches)
	}
	if matches := s.ForDestination("r5", HostSubnetResolver{}, g); len(matches) != 1 {
		t.Fatalf("expected the intent to match r5, got %v", matches)
	}
}
