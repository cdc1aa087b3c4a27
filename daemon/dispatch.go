package daemon

import (
	"time"

	"github.com/linkstate/intentd/intentstore"
	"github.com/linkstate/intentd/topology"
	"github.com/linkstate/intentd/transport"
	"github.com/linkstate/intentd/util/logger"
	"github.com/linkstate/intentd/wire"
)

// dispatchProtocol handles one datagram on the protocol endpoint:
// HELLO (spec.md §4.3) or LSA (spec.md §4.4). A malformed datagram or
// an unknown type is dropped and logged (spec.md §7); this never
// propagates above the receive task.
func (n *Node) dispatchProtocol(dg transport.Datagram) {
	env, err := wire.DecodeEnvelope(dg.Data)
	if err != nil {
		logger.Warnf("daemon: dropping malformed datagram from %s: %v", dg.From, err)
		return
	}

	switch env.Type {
	case wire.MsgHello:
		n.handleHello(env)
	case wire.MsgLSA:
		n.handleLSA(dg, env)
	default:
		logger.Warnf("daemon: dropping datagram of unknown type %q from %s", env.Type, dg.From)
	}
}

func (n *Node) handleHello(env wire.Envelope) {
	payload, err := wire.DecodeHello(env.Payload)
	if err != nil {
		logger.Warnf("daemon: malformed HELLO payload: %v", err)
		return
	}

	peer := topology.NodeId(payload.From)
	isNew := n.neighbors.OnHello(peer, time.Now())
	if isNew {
		logger.Infof("new neighbor observed: %s", peer)
	}
}

func (n *Node) handleLSA(dg transport.Datagram, env wire.Envelope) {
	payload, err := wire.DecodeLSA(env.Payload)
	if err != nil {
		logger.Warnf("daemon: malformed LSA payload from %s: %v", dg.From, err)
		return
	}

	lsa := fromWireLSA(payload)

	accepted := n.lsdb.Accept(lsa)
	if !accepted {
		return // stale seq, dropped silently (spec.md §7)
	}

	incomingPeer, known := n.peerForAddr(dg.From.IP.String(), dg.From.Port)

	var excludePeer topology.NodeId
	if known {
		excludePeer = incomingPeer
	}
	n.floodLSA(lsa, excludePeer, known)
}

// peerForAddr maps a UDP source address back to the configured NodeId
// whose local link matches it, so flooding can apply split-horizon
// (spec.md §4.4). Matching by address alone (not the sender's
// protocol-facing source port, which the OS may have chosen) is
// sufficient since each peer's configured PeerAddr is unique.
func (n *Node) peerForAddr(ip string, _ int) (topology.NodeId, bool) {
	for _, link := range n.neighbors.AllLinks() {
		if string(link.PeerAddr) == ip {
			return link.Peer, true
		}
	}
	return "", false
}

// dispatchControl handles one datagram on the control endpoint: an
// INTENT message (spec.md §4.8). Unlike the protocol endpoint it is
// never enveloped.
func (n *Node) dispatchControl(dg transport.Datagram) {
	msg, err := wire.DecodeIntent(dg.Data)
	if err != nil {
		logger.Warnf("daemon: dropping malformed control message from %s: %v", dg.From, err)
		return
	}

	n.intents.Put(intentstore.Intent{
		Src:          msg.Src,
		Dst:          msg.Dst,
		MaxLatency:   msg.MaxLatency,
		MinBandwidth: msg.MinBandwidth,
	})

	logger.Infof("intent ingested: %s -> %s (max_latency=%v min_bandwidth=%v)", msg.Src, msg.Dst, msg.MaxLatency, msg.MinBandwidth)
	n.loop.TriggerImmediate()
}

func toWireLSA(lsa topology.LSA) wire.LSAPayload {
	links := make(map[string]wire.LinkEntry, len(lsa.Links))
	for k, v := range lsa.Links {
		links[k] = wire.LinkEntry{
			Stub:      v.Stub,
			Cost:      v.Cost,
			Latency:   v.Latency,
			Bandwidth: v.Bandwidth,
			Up:        v.Up,
			Prefix:    string(v.Prefix),
		}
	}
	return wire.LSAPayload{Origin: string(lsa.Origin), Links: links, Seq: lsa.Seq}
}

func fromWireLSA(p wire.LSAPayload) topology.LSA {
	links := make(map[string]topology.LinkEntry, len(p.Links))
	for k, v := range p.Links {
		links[k] = topology.LinkEntry{
			Stub:      v.Stub,
			Cost:      v.Cost,
			Latency:   v.Latency,
			Bandwidth: v.Bandwidth,
			Up:        v.Up,
			Prefix:    topology.Prefix(v.Prefix),
		}
	}
	return topology.LSA{Origin: topology.NodeId(p.Origin), Links: links, Seq: p.Seq}
}
