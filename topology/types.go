// Package topology holds the per-node view of the network: configured
// local links and stub networks, the neighbor liveness table, and the
// link-state database (LSDB), per spec.md §3–§4.5.
package topology

import "fmt"

// NodeId is an opaque short identifier for a router, e.g. "r1".
type NodeId string

// Prefix is a routable destination in CIDR-style string form. The core
// never performs IP arithmetic on it.
type Prefix string

// LinkMetrics describes an outgoing link's SPF weight and constraints.
type LinkMetrics struct {
	Cost      int
	Latency   int
	Bandwidth int
	Up        bool
}

// TransportAddr is a bare IPv4 host string, paired with a port
// elsewhere. Kept as a string (not net.IP) since the core never
// resolves or manipulates it beyond carrying it to the transport layer.
type TransportAddr string

// LocalLink is a configured adjacency to a directly-connected peer.
// Created at startup from CLI flags; mutated only by the neighbor
// state machine, which flips Metrics.Up.
type LocalLink struct {
	Peer      NodeId
	PeerAddr  TransportAddr
	PeerPort  int
	Prefix    Prefix
	Metrics   LinkMetrics
}

// StubNetwork is a locally-attached prefix announced but never used as
// a forwarding hop. Immutable after configuration.
type StubNetwork struct {
	Prefix Prefix
	Cost   int
}

// LinkEntry is the tagged union spec.md Design Notes §9 calls for: a
// link in an LSA is either a PeerLink (an adjacency, traversable by
// SPF) or a StubLink (an advertised prefix, never traversed).
type LinkEntry struct {
	Stub bool

	// PeerLink fields (Stub == false).
	Cost      int
	Latency   int
	Bandwidth int
	Up        bool

	// StubLink fields (Stub == true); Cost applies to both variants.
	Prefix Prefix
}

func PeerLinkEntry(m LinkMetrics) LinkEntry {
	return LinkEntry{Cost: m.Cost, Latency: m.Latency, Bandwidth: m.Bandwidth, Up: m.Up}
}

func StubLinkEntry(s StubNetwork) LinkEntry {
	return LinkEntry{Stub: true, Cost: s.Cost, Prefix: s.Prefix}
}

// LSA is a node's self-description: its outgoing links (to peers and
// stub networks, keyed by NodeId or Prefix rendered as a string) and a
// monotonically non-decreasing sequence number.
type LSA struct {
	Origin NodeId
	Links  map[string]LinkEntry
	Seq    uint64
}

func (l LSA) String() string {
	return fmt.Sprintf("LSA{origin=%s seq=%d links=%d}", l.Origin, l.Seq, len(l.Links))
}
