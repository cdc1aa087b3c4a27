// Package intentstore holds active routing intents and resolves a
// destination host name to a destination router (spec.md §3, §4.6,
// §4.8).
package intentstore

import (
	"regexp"
	"strings"
	"sync"

	"github.com/linkstate/intentd/topology"
)

// Intent is a policy constraint on routing between two hosts.
type Intent struct {
	Src          string
	Dst          string
	MaxLatency   *int
	MinBandwidth *int
}

// key identifies a stored intent by (src, dst), per spec.md §3.
type key struct {
	src, dst string
}

// Store is the mutex-guarded (src,dst) -> Intent table (spec.md §3,
// §5). A later insert with the same key replaces the prior intent,
// including replacing a constraint with nil to clear it — there is no
// separate deletion operation (spec.md §4.8).
type Store struct {
	mu      sync.Mutex
	intents map[key]Intent
}

func NewStore() *Store {
	return &Store{intents: make(map[key]Intent)}
}

// Put inserts or replaces the intent for (src, dst).
func (s *Store) Put(i Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.intents[key{i.Src, i.Dst}] = i
}

// ForDestination returns every stored intent whose dst resolves (via
// resolve) to the given destination router. Per spec.md §4.6 fallback
// policy step 2, the reconciliation loop tries these in turn until one
// yields a path.
func (s *Store) ForDestination(dest topology.NodeId, resolve Resolver, graph *topology.Graph) []Intent {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []Intent
	for _, intent := range s.intents {
		if router, ok := resolve.Resolve(graph, intent.Dst); ok && router == dest {
			matches = append(matches, intent)
		}
	}
	return matches
}

// Resolver maps a host name to the destination router that advertises
// the stub network containing it (spec.md §4.6 "Destination
// resolution"). Implementations MAY substitute a richer resolver than
// the default (spec.md §9 Design Notes).
type Resolver interface {
	Resolve(graph *topology.Graph, host string) (topology.NodeId, bool)
}

// hostSuffixPattern extracts the trailing digits of a host name of the
// form "pc<N>", matching original_source/router_script.py's
// find_router_for_host convention (pcN -> 172.16.N.0/24).
var hostSuffixPattern = regexp.MustCompile(`(\d+)$`)

// HostSubnetResolver is the default Resolver, grounded on
// original_source/router_script.py: it maps a host name's trailing
// digits N to the prefix "172.16.<N>.0/24" and returns the first origin
// in the graph that advertises it as a stub network. This is a
// supplemented feature (SPEC_FULL.md §4.10): the spec's looser
// string-convention matching is available via ContainsResolver below.
type HostSubnetResolver struct{}

func (HostSubnetResolver) Resolve(graph *topology.Graph, host string) (topology.NodeId, bool) {
	m := hostSuffixPattern.FindStringSubmatch(host)
	if m == nil {
		return "", false
	}
	want := topology.Prefix("172.16." + m[1] + ".0/24")

	for _, s := range graph.Stubs {
		if s.Prefix == want {
			return s.Origin, true
		}
	}
	return "", false
}

// ContainsResolver implements the spec's looser fallback (§4.6): a stub
// prefix "contains" a host by simple substring convention, suitable for
// an emulated testbed that doesn't need real IP-math containment.
type ContainsResolver struct{}

func (ContainsResolver) Resolve(graph *topology.Graph, host string) (topology.NodeId, bool) {
	origin, _, ok := graph.ResolveDestination(func(prefix topology.Prefix) bool {
		return strings.Contains(string(prefix), host)
	})
	return origin, ok
}
