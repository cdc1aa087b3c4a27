// Package transport provides best-effort UDP datagram delivery for the
// daemon's two endpoints: the protocol port (HELLO/LSA) and the control
// port (INTENT), per spec.md §4.2. A send failure is never fatal to the
// caller — it is logged here and also returned so the daemon can mark
// the affected link down (spec.md §7).
package transport

import (
	"errors"
	"net"

	"github.com/linkstate/intentd/util/assert"
	"github.com/linkstate/intentd/util/logger"
	"github.com/linkstate/intentd/util/observer"
)

// Datagram is a received UDP payload together with the address it came
// from.
type Datagram struct {
	From *net.UDPAddr
	Data []byte
}

// ReceiveBufferSize bounds how many datagrams may be queued on an
// Endpoint's receive channel before the read loop blocks. Mirrors the
// teacher's common.SOCKET_RECEIVE_BUFFER_SIZE sizing.
const ReceiveBufferSize = 64

// udpBufferSizeBytes bounds a single recvfrom; large enough for an LSA
// describing a fully-connected handful of neighbors as JSON text.
const udpBufferSizeBytes = 65507

// Endpoint is a single bound UDP socket exposing a non-blocking receive
// stream. Grounded on the teacher's sock.Socket, generalized from its
// Observable[*Packet]/Subscribe pattern: since util/observer only
// exposes the callback-based Observer interface (AddObserver /
// NotifyObservers), Endpoint adapts that callback into a channel itself
// rather than widening the shared observer package.
type Endpoint struct {
	conn     *net.UDPConn
	observ   *observer.Observable[Datagram]
	received chan Datagram
}

// chanForwarder implements observer.Observer[Datagram] by forwarding
// every notification onto a channel.
type chanForwarder struct {
	ch chan Datagram
}

func (f *chanForwarder) Update(d Datagram) {
	f.ch <- d
}

// Open binds a UDP socket on the given IPv4 address and port and starts
// its read loop. port == 0 lets the kernel choose an ephemeral port.
func Open(ip net.IP, port int) (*Endpoint, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: ip, Port: port})
	if err != nil {
		return nil, err
	}

	ep := &Endpoint{
		conn:     conn,
		observ:   observer.NewObservable[Datagram](),
		received: make(chan Datagram, ReceiveBufferSize),
	}
	ep.observ.AddObserver(&chanForwarder{ch: ep.received})

	go ep.readLoop()

	return ep, nil
}

// LocalAddr returns the bound local address.
func (e *Endpoint) LocalAddr() *net.UDPAddr {
	assert.IsNotNil(e.conn, "transport: endpoint is not open")
	return e.conn.LocalAddr().(*net.UDPAddr)
}

// Receive returns the channel of inbound datagrams. Reading from it
// never blocks the socket's own read loop (it is buffered to
// ReceiveBufferSize), matching the teacher's Subscribe-once,
// channel-based dispatch.
func (e *Endpoint) Receive() <-chan Datagram {
	return e.received
}

func (e *Endpoint) readLoop() {
	for {
		buf := make([]byte, udpBufferSizeBytes)
		n, addr, err := e.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Warnf("transport: read failed on %s: %v", e.conn.LocalAddr(), err)
			continue
		}
		e.observ.NotifyObservers(Datagram{From: addr, Data: buf[:n]})
	}
}

// Send transmits data to addr. A failure is logged here and also
// returned, so a caller tracking per-peer liveness (daemon.Node marking
// a link down, spec.md §4.3/§7) can react to it; callers that don't
// care about individual send outcomes are free to ignore it.
func (e *Endpoint) Send(addr *net.UDPAddr, data []byte) error {
	if _, err := e.conn.WriteToUDP(data, addr); err != nil {
		logger.Warnf("transport: send to %s failed: %v", addr, err)
		return err
	}
	return nil
}

// Close shuts down the socket. The read loop exits on the next
// net.ErrClosed.
func (e *Endpoint) Close() error {
	return e.conn.Close()
}
