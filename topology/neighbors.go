package topology

import (
	"sync"
	"time"
)

// Neighbors is the per-peer liveness state machine of spec.md §4.3. It
// owns the configured LocalLinks (created once at startup) and the
// last-HELLO timestamp table, serialized by a single mutex — grounded
// on the teacher's Router.mu guarding neighborTable/lsdb/routingTable
// together, generalized here to this table alone since LSDB is a
// separate type with its own mutex and the graph is an unguarded
// snapshot.
type Neighbors struct {
	mu        sync.Mutex
	links     map[NodeId]*LocalLink
	lastHello map[NodeId]time.Time
}

func NewNeighbors(configured []LocalLink) *Neighbors {
	links := make(map[NodeId]*LocalLink, len(configured))
	for i := range configured {
		l := configured[i]
		links[l.Peer] = &l
	}
	return &Neighbors{
		links:     links,
		lastHello: make(map[NodeId]time.Time),
	}
}

// OnHello records a HELLO from peer at time now, restores the
// corresponding local link's up flag (it may have been cleared by a
// prior send failure or staleness purge), and reports whether this
// peer was not previously known (a "new neighbor" observation per
// spec.md §4.3).
func (n *Neighbors) OnHello(peer NodeId, now time.Time) (isNew bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, known := n.lastHello[peer]
	n.lastHello[peer] = now

	if link, exists := n.links[peer]; exists {
		link.Metrics.Up = true
	}

	return !known
}

// PurgeStale removes every peer whose last HELLO is older than deadAfter
// relative to now, bringing the corresponding local link down. Returns
// the purged peer ids for logging.
func (n *Neighbors) PurgeStale(now time.Time, deadAfter time.Duration) []NodeId {
	n.mu.Lock()
	defer n.mu.Unlock()

	var purged []NodeId
	for peer, last := range n.lastHello {
		if now.Sub(last) > deadAfter {
			delete(n.lastHello, peer)
			if link, exists := n.links[peer]; exists {
				link.Metrics.Up = false
			}
			purged = append(purged, peer)
		}
	}
	return purged
}

// MarkDown brings a single local link down, e.g. after a transport send
// failure to that peer (spec.md §4.3, §7). The next HELLO from the peer
// restores it.
func (n *Neighbors) MarkDown(peer NodeId) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if link, exists := n.links[peer]; exists {
		link.Metrics.Up = false
	}
}

// ActiveSet returns the peers currently considered live (present in the
// HELLO table after the most recent purge).
func (n *Neighbors) ActiveSet() []NodeId {
	n.mu.Lock()
	defer n.mu.Unlock()

	active := make([]NodeId, 0, len(n.lastHello))
	for peer := range n.lastHello {
		active = append(active, peer)
	}
	return active
}

// UpLinks returns a snapshot of the configured local links not
// currently marked down (Metrics.Up == true). Every link starts up;
// it is cleared by a transport send failure or a staleness purge and
// restored by the next received HELLO. HELLO transmission targets
// this set — not ActiveLinks — so neighbor discovery can bootstrap
// before any HELLO has ever been received back, mirroring the
// original's separate "up" flag from its active_neighbors set.
func (n *Neighbors) UpLinks() []LocalLink {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]LocalLink, 0, len(n.links))
	for _, link := range n.links {
		if link.Metrics.Up {
			out = append(out, *link)
		}
	}
	return out
}

// Link returns a copy of the configured LocalLink to peer, if any.
func (n *Neighbors) Link(peer NodeId) (LocalLink, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	link, exists := n.links[peer]
	if !exists {
		return LocalLink{}, false
	}
	return *link, true
}

// AllLinks returns a snapshot copy of every configured local link,
// regardless of liveness.
func (n *Neighbors) AllLinks() []LocalLink {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]LocalLink, 0, len(n.links))
	for _, link := range n.links {
		out = append(out, *link)
	}
	return out
}

// ActiveLinks returns a snapshot of the configured local links whose
// peer has sent a HELLO within the liveness window (present in the
// active-neighbor set populated by OnHello and pruned by PurgeStale).
// This is the set an LSA is originated from (spec.md §4.7) — distinct
// from UpLinks, which governs whether HELLO is still being sent to a
// peer at all.
func (n *Neighbors) ActiveLinks() []LocalLink {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]LocalLink, 0, len(n.lastHello))
	for peer := range n.lastHello {
		if link, exists := n.links[peer]; exists {
			out = append(out, *link)
		}
	}
	return out
}
