// Package daemon wires transport, topology, spf, intentstore and fib
// together into the running node described by spec.md §2's data-flow
// diagram, and owns the flood orchestration that needs the transport
// (SPEC_FULL.md §4 component table).
package daemon

import (
	"context"
	"net"
	"time"

	"github.com/linkstate/intentd/common"
	"github.com/linkstate/intentd/fib"
	"github.com/linkstate/intentd/intentstore"
	"github.com/linkstate/intentd/metrics"
	"github.com/linkstate/intentd/reconcile"
	"github.com/linkstate/intentd/topology"
	"github.com/linkstate/intentd/transport"
	"github.com/linkstate/intentd/util/logger"
)

// Config is everything needed to stand up a Node, derived from the CLI
// flags of spec.md §6.
type Config struct {
	Self  topology.NodeId
	Links []topology.LocalLink
	Stubs []topology.StubNetwork

	BindIP    net.IP
	Resolver  intentstore.Resolver
	Installer fib.Installer
	Metrics   *metrics.Metrics

	TickPeriod time.Duration
	Settle     time.Duration
	Dead       time.Duration
}

// Node is the running daemon: the two transport endpoints, the three
// mutex-guarded tables, and the reconciliation loop that ties them
// together (spec.md §2, §5).
type Node struct {
	self  topology.NodeId
	stubs []topology.StubNetwork

	neighbors *topology.Neighbors
	lsdb      *topology.LSDB
	intents   *intentstore.Store
	resolver  intentstore.Resolver
	installer fib.Installer
	metrics   *metrics.Metrics

	protocol *transport.Endpoint
	control  *transport.Endpoint

	dead time.Duration
	loop *reconcile.Loop
}

// New binds both transport endpoints and assembles a Node. Bind
// failures are fatal startup errors (spec.md §7: "Fatal errors are
// limited to startup configuration failures (bind failure...)").
func New(cfg Config) (*Node, error) {
	protocolPort, controlPort, err := common.Ports(string(cfg.Self))
	if err != nil {
		return nil, err
	}

	bindIP := cfg.BindIP
	if bindIP == nil {
		bindIP = net.IPv4zero
	}

	protocol, err := transport.Open(bindIP, protocolPort)
	if err != nil {
		return nil, err
	}

	control, err := transport.Open(bindIP, controlPort)
	if err != nil {
		protocol.Close()
		return nil, err
	}

	resolver := cfg.Resolver
	if resolver == nil {
		resolver = intentstore.HostSubnetResolver{}
	}
	installer := cfg.Installer
	if installer == nil {
		installer = fib.KernelInstaller{}
	}

	tick := cfg.TickPeriod
	if tick == 0 {
		tick = common.TTick
	}
	settle := cfg.Settle
	if settle == 0 {
		settle = common.TSettle
	}
	dead := cfg.Dead
	if dead == 0 {
		dead = common.TDead
	}

	n := &Node{
		self:      cfg.Self,
		stubs:     cfg.Stubs,
		neighbors: topology.NewNeighbors(cfg.Links),
		lsdb:      topology.NewLSDB(time.Now()),
		intents:   intentstore.NewStore(),
		resolver:  resolver,
		installer: installer,
		metrics:   cfg.Metrics,
		protocol:  protocol,
		control:   control,
		dead:      dead,
	}

	n.loop = reconcile.NewLoop(tick, settle, n.purgeStale, n.sendHellos, n.originateAndFlood, n.computeAndInstall)

	return n, nil
}

// Run starts the protocol receive loop, the control receive loop, and
// the reconciliation loop (spec.md §5's three minimum tasks), and
// blocks until ctx is cancelled.
func (n *Node) Run(ctx context.Context) {
	go n.receiveProtocol(ctx)
	go n.receiveControl(ctx)
	n.loop.Run(ctx)
}

// Close releases both bound sockets.
func (n *Node) Close() {
	n.protocol.Close()
	n.control.Close()
}

func (n *Node) receiveProtocol(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case dg := <-n.protocol.Receive():
			n.dispatchProtocol(dg)
		}
	}
}

func (n *Node) receiveControl(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case dg := <-n.control.Receive():
			n.dispatchControl(dg)
		}
	}
}

// sendTo transmits data to link's peer. The METRIC_PACKET_SENT line is
// recorded unconditionally, before the outcome is known, matching
// original_source/router_script.py's send_message — which logs the
// attempt and only reacts to OSError afterward. A send failure marks
// the link down (spec.md §4.3, §7); the next received HELLO restores it.
func (n *Node) sendTo(ep *transport.Endpoint, link topology.LocalLink, data []byte, msgType string) {
	addr := &net.UDPAddr{IP: net.ParseIP(string(link.PeerAddr)), Port: link.PeerPort}

	if n.metrics != nil {
		n.metrics.PacketsSent.WithLabelValues(msgType).Inc()
	}
	logger.Metricf("METRIC_PACKET_SENT type=%s size=%d to=%s:%d", msgType, len(data), link.PeerAddr, link.PeerPort)

	if err := ep.Send(addr, data); err != nil {
		n.neighbors.MarkDown(link.Peer)
	}
}
