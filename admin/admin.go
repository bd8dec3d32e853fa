// Package admin implements the standalone-optional management channel
// (§6 "Admin control channel"): a TCP RPC surface serving STATS_REQ,
// STATUS_REQ, GETVER_REQ, and ACTION_REQ, plus the stubbed
// retransmission/refresh-request hook §9 says to expose without guessing
// its protocol.
package admin

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/segmentio/encoding/json"

	"github.com/csi-fh/arcafeed/arbiter"
	"github.com/csi-fh/arcafeed/feed"
)

// Version is the value GETVER_RESP reports.
const Version = "arcafeed-1.0"

// LineStats is one line's published counter snapshot, as carried in a
// STATS_RESP payload (§6: "a pair of records (primary / secondary)").
type LineStats struct {
	Name      string         `json:"name"`
	Primary   feed.Counters  `json:"primary"`
	Secondary feed.Counters  `json:"secondary"`
}

// Request is a decoded admin command. Type is one of the §6 command names;
// ActionType (only meaningful when Type == "ACTION_REQ") is "CLRSTATS" or
// "STOP".
type Request struct {
	Type       string `json:"type"`
	ActionType string `json:"action_type,omitempty"`
}

// Response is the JSON reply to a Request.
type Response struct {
	Type    string      `json:"type"`
	Version string      `json:"version,omitempty"`
	Status  string      `json:"status,omitempty"`
	Stats   []LineStats `json:"stats,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Registry is the set of FeedGroups the admin server reports on and can
// stop. The feed handler process registers its groups here once at
// startup.
type Registry struct {
	mu     sync.RWMutex
	groups []*feed.FeedGroup
	stopFn func()
}

// NewRegistry returns an empty Registry. stopFn is called once when an
// ACTION_REQ/STOP command arrives; it should set the process-wide stop flag
// (§5 "Cancellation").
func NewRegistry(stopFn func()) *Registry {
	return &Registry{stopFn: stopFn}
}

// Register adds a FeedGroup to the registry's stats/clear/stop scope.
func (reg *Registry) Register(g *feed.FeedGroup) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.groups = append(reg.groups, g)
}

func (reg *Registry) snapshot() []LineStats {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]LineStats, 0, len(reg.groups))
	for _, g := range reg.groups {
		out = append(out, LineStats{
			Name:      g.Name,
			Primary:   g.Counters(arbiter.Primary),
			Secondary: g.Counters(arbiter.Secondary),
		})
	}
	return out
}

func (reg *Registry) clearStats() {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for _, g := range reg.groups {
		g.ClearStats()
	}
}

// Server is the TCP RPC listener on 127.0.0.1:FH_MGR_PORT (§6). Standalone
// mode (CLI "-s") simply never constructs one.
type Server struct {
	listener net.Listener
	registry *Registry
}

// Listen binds the admin server to addr (typically "127.0.0.1:<port>").
func Listen(addr string, registry *Registry) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("admin: listen %s: %w", addr, err)
	}
	return &Server{listener: ln, registry: registry}, nil
}

// Serve accepts connections until the listener is closed, handling each on
// its own goroutine. It returns nil on a clean Close.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)
	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			return
		}
		enc.Encode(s.dispatch(req))
	}
}

func (s *Server) dispatch(req Request) Response {
	switch req.Type {
	case "GETVER_REQ":
		return Response{Type: "GETVER_RESP", Version: Version}
	case "STATS_REQ":
		return Response{Type: "STATS_RESP", Stats: s.registry.snapshot()}
	case "STATUS_REQ":
		return Response{Type: "STATUS_RESP", Status: "running"}
	case "ACTION_REQ":
		switch req.ActionType {
		case "CLRSTATS":
			s.registry.clearStats()
			return Response{Type: "ACTION_RESP", Status: "ok"}
		case "STOP":
			if s.registry.stopFn != nil {
				s.registry.stopFn()
			}
			return Response{Type: "ACTION_RESP", Status: "ok"}
		default:
			return Response{Type: "ACTION_RESP", Error: "unknown action_type"}
		}
	default:
		return Response{Error: "unknown request type"}
	}
}

// Close releases the listener.
func (s *Server) Close() error {
	return s.listener.Close()
}

// ErrRetransmissionNotImplemented is returned by every RetransmissionHandler
// stub method. The original's TCP retransmission-request plumbing
// (start_book_refresh/stop_book_refresh) is out of scope (§9); this type
// exists so a future implementation has a documented seam to fill in
// without the core needing to change.
var ErrRetransmissionNotImplemented = errors.New("admin: retransmission/refresh-request handling is not implemented")

// RetransmissionHandler is the unimplemented seam for book-refresh and
// message retransmission requests. No implementation ships; a stub exists
// only so callers have a named hook to wire up if this scope is ever
// picked up.
type RetransmissionHandler interface {
	StartBookRefresh(symbolIndex uint16, sessionID uint8) error
	StopBookRefresh(symbolIndex uint16, sessionID uint8) error
}

// NullRetransmissionHandler rejects every call with
// ErrRetransmissionNotImplemented.
type NullRetransmissionHandler struct{}

func (NullRetransmissionHandler) StartBookRefresh(uint16, uint8) error {
	return ErrRetransmissionNotImplemented
}

func (NullRetransmissionHandler) StopBookRefresh(uint16, uint8) error {
	return ErrRetransmissionNotImplemented
}
