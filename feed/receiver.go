package feed

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/csi-fh/arcafeed/arbiter"
)

// readyWait is the receive loop's timed readiness-wait interval (§4.F step 1).
const readyWait = 2 * time.Second

// socketEndpoint pairs one joined UDP multicast socket with the FeedGroup
// and side it feeds.
type socketEndpoint struct {
	conn  *net.UDPConn
	group *FeedGroup
	side  arbiter.Side
	name  string
}

// Receiver owns the joined multicast sockets for every line in the process
// and runs the single-threaded cooperative receive loop (§4.F, §5). Group
// membership (join, interface binding, raw socket creation) happens in
// AddLine; the loop itself never opens or closes a socket.
type Receiver struct {
	logger *slog.Logger

	mu        sync.Mutex
	endpoints []*socketEndpoint

	stopped atomic.Bool

	// onPacket, if set, is called with every raw datagram before it is
	// processed - the hook an optional capture.Recorder attaches through.
	onPacket func(raw []byte)
}

// NewReceiver returns an empty Receiver. Call AddLine once per FeedGroup
// before Run.
func NewReceiver(logger *slog.Logger) *Receiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Receiver{logger: logger}
}

// SetCaptureHook registers fn to be called with every raw datagram before
// processing, e.g. a capture.Recorder.Write. A nil fn disables capture.
func (r *Receiver) SetCaptureHook(fn func(raw []byte)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onPacket = fn
}

// AddLine joins primaryAddr/secondaryAddr (multicast "host:port" strings) on
// iface (nil for the default interface) and registers both sockets against
// g. iface lets separate lines bind distinct NICs, matching the donor's
// per-line interface configuration.
func (r *Receiver) AddLine(g *FeedGroup, iface *net.Interface, primaryAddr, secondaryAddr string) error {
	primaryConn, err := joinMulticast(primaryAddr, iface)
	if err != nil {
		return fmt.Errorf("feed: join primary for %s: %w", g.Name, err)
	}
	secondaryConn, err := joinMulticast(secondaryAddr, iface)
	if err != nil {
		primaryConn.Close()
		return fmt.Errorf("feed: join secondary for %s: %w", g.Name, err)
	}

	r.mu.Lock()
	r.endpoints = append(r.endpoints,
		&socketEndpoint{conn: primaryConn, group: g, side: arbiter.Primary, name: g.Name + "/primary"},
		&socketEndpoint{conn: secondaryConn, group: g, side: arbiter.Secondary, name: g.Name + "/secondary"},
	)
	r.mu.Unlock()
	return nil
}

func joinMulticast(addr string, iface *net.Interface) (*net.UDPConn, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenMulticastUDP("udp", iface, udpAddr)
	if err != nil {
		return nil, err
	}
	// Read deadlines turn the blocking Read into the bounded readiness wait
	// the drain loop polls against (§4.F step 1).
	return conn, nil
}

// Stop sets the shared stop flag; the loop exits at the next boundary
// (§5 "Cancellation").
func (r *Receiver) Stop() {
	r.stopped.Store(true)
}

// Run drives the receive loop until Stop is called or ctx-equivalent
// signal. It never returns an error from a single packet's processing —
// per §7 propagation policy, all recovery is local to ProcessPacket.
func (r *Receiver) Run() error {
	if len(r.endpoints) == 0 {
		return fmt.Errorf("feed: Receiver.Run called with no joined lines")
	}

	buf := make([]byte, 65535)
	last := 0
	for !r.stopped.Load() {
		n, ep, ok := r.waitForPacket(buf)
		if !ok {
			continue
		}
		r.dispatchPacket(ep, buf[:n])
		last = r.drainRoundRobin(buf, last)
	}
	return nil
}

// waitForPacket blocks up to readyWait across every socket by giving each a
// short read deadline in turn; the first socket to yield a packet wins
// (§4.F step 1-2). This is the stdlib equivalent of the donor's single
// multi-fd readiness wait: net has no portable multi-socket select, so the
// wait is approximated as a round of short, per-socket deadlined reads.
func (r *Receiver) waitForPacket(buf []byte) (int, *socketEndpoint, bool) {
	r.mu.Lock()
	endpoints := r.endpoints
	r.mu.Unlock()

	perSocket := readyWait / time.Duration(len(endpoints))
	if perSocket <= 0 {
		perSocket = time.Millisecond
	}
	for _, ep := range endpoints {
		if r.stopped.Load() {
			return 0, nil, false
		}
		ep.conn.SetReadDeadline(time.Now().Add(perSocket))
		n, err := ep.conn.Read(buf)
		if err != nil {
			continue
		}
		return n, ep, true
	}
	return 0, nil, false
}

// drainRoundRobin cycles every socket starting at index start, reading and
// processing one packet per ready socket, until a full cycle finds nothing
// (§4.F step 3). It returns the index to resume from next time, preserving
// fairness across calls.
func (r *Receiver) drainRoundRobin(buf []byte, start int) int {
	r.mu.Lock()
	endpoints := r.endpoints
	r.mu.Unlock()
	n := len(endpoints)

	for {
		if r.stopped.Load() {
			return start
		}
		found := false
		for i := 0; i < n; i++ {
			idx := (start + i) % n
			ep := endpoints[idx]
			ep.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
			size, err := ep.conn.Read(buf)
			if err != nil {
				continue
			}
			r.dispatchPacket(ep, buf[:size])
			found = true
			start = (idx + 1) % n
		}
		if !found {
			return start
		}
	}
}

// dispatchPacket mirrors raw to the capture hook, if any, then hands an
// owned copy to the packet processor.
func (r *Receiver) dispatchPacket(ep *socketEndpoint, raw []byte) {
	pkt := append([]byte(nil), raw...)
	r.mu.Lock()
	hook := r.onPacket
	r.mu.Unlock()
	if hook != nil {
		hook(pkt)
	}
	r.logger.Debug("[Receiver.dispatchPacket]", "socket", ep.name, "bytes", len(pkt))
	ep.group.ProcessPacket(ep.side, pkt)
}

// Close releases every joined socket.
func (r *Receiver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for _, ep := range r.endpoints {
		if err := ep.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
