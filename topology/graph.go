package topology

// Edge is a directed, weighted adjacency projected from one origin's
// LSA link entry, annotated with the SPF constraint fields (spec.md
// §4.5).
type Edge struct {
	To        NodeId
	Cost      int
	Latency   int
	Bandwidth int
}

// StubAdvert records that origin announces prefix as a locally-attached
// stub network, for destination resolution (spec.md §4.6).
type StubAdvert struct {
	Origin NodeId
	Prefix Prefix
	Cost   int
}

// Graph is a snapshot projection of the LSDB: an adjacency list plus the
// stub advertisements used for destination resolution. It is built once
// per SPF cycle and never mutated afterward (spec.md §4.5 "the graph is
// a snapshot; SPF does not observe mid-computation LSDB changes").
type Graph struct {
	Nodes map[NodeId]struct{}
	Adj   map[NodeId][]Edge
	Stubs []StubAdvert
}

// BuildGraph projects an LSDB snapshot into a Graph, per spec.md §4.5:
//   - a node exists for every LSA origin and every peer named in any
//     link entry;
//   - an edge O -> key is added for each non-stub, up link entry,
//     weighted by cost and annotated with latency/bandwidth;
//   - stub entries become StubAdverts, never edges.
func BuildGraph(lsdb map[NodeId]LSA) *Graph {
	g := &Graph{
		Nodes: make(map[NodeId]struct{}),
		Adj:   make(map[NodeId][]Edge),
	}

	for origin, lsa := range lsdb {
		g.Nodes[origin] = struct{}{}

		for key, link := range lsa.Links {
			if link.Stub {
				g.Stubs = append(g.Stubs, StubAdvert{
					Origin: origin,
					Prefix: link.Prefix,
					Cost:   link.Cost,
				})
				continue
			}

			peer := NodeId(key)
			g.Nodes[peer] = struct{}{}

			if !link.Up {
				continue
			}

			g.Adj[origin] = append(g.Adj[origin], Edge{
				To:        peer,
				Cost:      link.Cost,
				Latency:   link.Latency,
				Bandwidth: link.Bandwidth,
			})
		}
	}

	return g
}

// RemotePrefixes returns one StubAdvert per distinct prefix advertised
// by a node other than self, keeping the first origin seen for a given
// prefix (spec.md §4.6 fallback policy step 1: "first match wins").
// Map iteration order is randomized by Go, so callers that need
// deterministic tick-over-tick output should sort the result by prefix.
func (g *Graph) RemotePrefixes(self NodeId) []StubAdvert {
	seen := make(map[Prefix]bool)
	out := make([]StubAdvert, 0, len(g.Stubs))
	for _, s := range g.Stubs {
		if s.Origin == self || seen[s.Prefix] {
			continue
		}
		seen[s.Prefix] = true
		out = append(out, s)
	}
	return out
}

// ResolveDestination scans the graph's stub advertisements for a prefix
// matching host by simple string convention (spec.md §4.6: "a simple
// prefix-match by string convention is sufficient for the emulated
// testbed"). First match wins. This is the built-in fallback; richer
// resolvers live in package intentstore.
func (g *Graph) ResolveDestination(containsHost func(prefix Prefix) bool) (NodeId, Prefix, bool) {
	for _, s := range g.Stubs {
		if containsHost(s.Prefix) {
			return s.Origin, s.Prefix, true
		}
	}
	return "", "", false
}
