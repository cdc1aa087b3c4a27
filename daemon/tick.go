package daemon

import (
	"sort"
	"time"

	"github.com/linkstate/intentd/fib"
	"github.com/linkstate/intentd/spf"
	"github.com/linkstate/intentd/topology"
	"github.com/linkstate/intentd/util/logger"
	"github.com/linkstate/intentd/wire"
)

// purgeStale is the reconcile.Loop callback for the start of each tick
// (spec.md §4.3 "on periodic tick, purge any P with now-NeighborState[P]
// > T_dead").
func (n *Node) purgeStale(now time.Time) {
	purged := n.neighbors.PurgeStale(now, n.dead)
	for _, p := range purged {
		logger.Infof("neighbor %s went stale, link marked down", p)
	}
}

// sendHellos is the reconcile.Loop callback for step 1 of spec.md §4.7:
// "Broadcast HELLO to every configured peer whose local link is up."
// Every configured link starts up, so this is what lets a freshly
// started node say HELLO to peers that have never said HELLO back —
// gating on ActiveLinks here instead would deadlock neighbor discovery
// forever.
func (n *Node) sendHellos() {
	hello, err := wire.EncodeHello(string(n.self))
	if err != nil {
		logger.Warnf("daemon: failed to encode HELLO: %v", err)
		return
	}

	for _, link := range n.neighbors.UpLinks() {
		n.sendTo(n.protocol, link, hello, "HELLO")
	}
}

// originateAndFlood is the reconcile.Loop callback for step 2 of
// spec.md §4.7: build this node's own LSA from its active neighbors and
// stub networks, install it unconditionally, and flood it to every
// active neighbor.
func (n *Node) originateAndFlood() {
	links := make(map[string]topology.LinkEntry)

	for _, link := range n.neighbors.ActiveLinks() {
		links[string(link.Peer)] = topology.PeerLinkEntry(link.Metrics)
	}
	for _, stub := range n.stubs {
		links[string(stub.Prefix)] = topology.StubLinkEntry(stub)
	}

	lsa := topology.LSA{
		Origin: n.self,
		Links:  links,
		Seq:    n.lsdb.NextLocalSeq(),
	}
	n.lsdb.InstallLocal(lsa)

	// Re-flooding of a self-originated LSA is unconditional: there is no
	// "already seen" check for one's own LSA (spec.md §4.4).
	n.floodLSA(lsa, "", false)

	if n.metrics != nil {
		n.metrics.LSDBSize.Set(float64(n.lsdb.Size()))
	}
	logger.Metricf("METRIC_LSDB_SIZE size=%d", n.lsdb.Size())
}

// floodLSA sends lsa to every active neighbor (a peer that has said
// HELLO within the liveness window), skipping excludePeer when
// haveExclude is set (split-horizon re-flood of an accepted LSA,
// spec.md §4.4). On send failure the peer's link is marked down.
func (n *Node) floodLSA(lsa topology.LSA, excludePeer topology.NodeId, haveExclude bool) {
	encoded, err := wire.EncodeLSA(toWireLSA(lsa))
	if err != nil {
		logger.Warnf("daemon: failed to encode LSA from %s: %v", lsa.Origin, err)
		return
	}

	for _, link := range n.neighbors.ActiveLinks() {
		if haveExclude && link.Peer == excludePeer {
			continue
		}
		n.sendTo(n.protocol, link, encoded, "LSA")
	}
}

// computeAndInstall is the reconcile.Loop callback for step 3 of
// spec.md §4.7 and for out-of-band intent-triggered reconciliation
// (spec.md §4.8): rebuild the topology snapshot, run the fallback
// policy of §4.6 per remote prefix, and push FIB entries.
func (n *Node) computeAndInstall() {
	start := time.Now()
	defer func() {
		if n.metrics != nil {
			n.metrics.TickDuration.Observe(time.Since(start).Seconds())
		}
	}()

	snapshot := n.lsdb.Snapshot()
	graph := topology.BuildGraph(snapshot)

	prefixes := graph.RemotePrefixes(n.self)
	sort.Slice(prefixes, func(i, j int) bool { return prefixes[i].Prefix < prefixes[j].Prefix })

	for _, advert := range prefixes {
		n.installRouteFor(advert, graph)
	}

	n.probeKernelRoutes()
}

func (n *Node) installRouteFor(advert topology.StubAdvert, graph *topology.Graph) {
	dest := advert.Origin

	var path []topology.NodeId
	var found bool
	var triedIntent bool

	for _, intent := range n.intents.ForDestination(dest, n.resolver, graph) {
		triedIntent = true
		constraints := spf.Constraints{MaxLatency: intent.MaxLatency, MinBandwidth: intent.MinBandwidth}
		if p, ok := spf.Run(graph, n.self, dest, constraints); ok {
			path, found = p, true
			break
		}
	}

	if !found {
		if triedIntent {
			logger.Warnf("no path to %s satisfies the stored intent, falling back to unconstrained SPF", dest)
			if n.metrics != nil {
				n.metrics.SPFFallbacks.Inc()
			}
		}
		path, found = spf.Unconstrained(graph, n.self, dest)
	}

	if !found || len(path) < 2 {
		logger.Infof("no route to %s (prefix %s) this tick", dest, advert.Prefix)
		return
	}

	nextHopNode := path[1]
	link, ok := n.neighbors.Link(nextHopNode)
	if !ok {
		logger.Warnf("SPF chose next hop %s for %s but it has no configured local link", nextHopNode, advert.Prefix)
		return
	}

	if err := n.installer.Install(advert.Prefix, link.PeerAddr); err != nil {
		if n.metrics != nil {
			n.metrics.FIBInstalls.WithLabelValues("error").Inc()
		}
		logger.Warnf("route install for %s via %s failed: %v", advert.Prefix, link.PeerAddr, err)
		return
	}
	if n.metrics != nil {
		n.metrics.FIBInstalls.WithLabelValues("ok").Inc()
	}
	logger.Infof("route to %s: next hop %s (%s)", advert.Prefix, nextHopNode, link.PeerAddr)
}

func (n *Node) probeKernelRoutes() {
	count, err := fib.CountKernelRoutes()
	if err != nil {
		logger.Warnf("daemon: failed to probe kernel route count: %v", err)
		return
	}
	if n.metrics != nil {
		n.metrics.KernelRoutes.Set(float64(count))
	}
	logger.Metricf("METRIC_TABLE_SIZE size=%d", count)
}
