package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // players connect from anywhere
	},
}

// Server matches connections in arrival order: the first two become a game,
// then the next two, and so on. TCP and websocket players share one lobby, so
// either kind can be paired with the other.
type Server struct {
	Logger *log.Logger

	mu      sync.Mutex
	waiting *peer
	games   int
	wg      sync.WaitGroup
}

type peer struct {
	conn Conn
	addr string
}

// maxEarlyLines bounds what a waiting player may send before an opponent
// arrives.
const maxEarlyLines = 16

var errTooManyEarlyLines = errors.New("too many lines before pairing")

// lobbyConn reads its Conn from the moment the player starts waiting. A
// hangup in the lobby is noticed at once, and lines sent before pairing are
// held until the game reads them.
type lobbyConn struct {
	Conn

	mu      sync.Mutex
	pending []string
	err     error
	ready   chan struct{}
}

func newLobbyConn(c Conn) *lobbyConn {
	return &lobbyConn{Conn: c, ready: make(chan struct{}, 1)}
}

// watch is the only caller of the wrapped ReadLine. It calls left once the
// connection fails.
func (c *lobbyConn) watch(left func(error)) {
	for {
		line, err := c.Conn.ReadLine()
		c.mu.Lock()
		if err == nil && len(c.pending) >= maxEarlyLines {
			err = errTooManyEarlyLines
		}
		if err != nil {
			c.err = err
		} else {
			c.pending = append(c.pending, line)
		}
		c.mu.Unlock()
		select {
		case c.ready <- struct{}{}:
		default:
		}
		if err != nil {
			left(err)
			return
		}
	}
}

func (c *lobbyConn) ReadLine() (string, error) {
	for {
		c.mu.Lock()
		if len(c.pending) > 0 {
			line := c.pending[0]
			c.pending = c.pending[1:]
			c.mu.Unlock()
			return line, nil
		}
		err := c.err
		c.mu.Unlock()
		if err != nil {
			return "", err
		}
		<-c.ready
	}
}

func (s *Server) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

// Serve accepts line-framed TCP connections from ln until ctx is done. It
// closes ln and waits for running games to end before returning.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	s.logger().Info("relay listening", "addr", ln.Addr())
	for {
		c, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.drain()
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.join(ctx, NewStreamConn(c), c.RemoteAddr().String())
	}
}

// WebsocketHandler upgrades each request and queues it for pairing. Games run
// until a player leaves or ctx is done.
func (s *Server) WebsocketHandler(ctx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger().Warn("websocket upgrade failed", "addr", r.RemoteAddr, "err", err)
			return
		}
		s.join(ctx, NewWebsocketConn(ws), r.RemoteAddr)
	}
}

func (s *Server) join(ctx context.Context, c Conn, addr string) {
	logger := s.logger()

	s.mu.Lock()
	if s.waiting == nil {
		lc := newLobbyConn(c)
		p := &peer{conn: lc, addr: addr}
		s.waiting = p
		s.mu.Unlock()
		logger.Info("player waiting", "addr", addr)
		s.wg.Go(func() { lc.watch(func(err error) { s.leave(p, err) }) })
		return
	}
	first := s.waiting
	s.waiting = nil
	s.games++
	id := s.games
	s.mu.Unlock()

	logger = logger.With("game", id)
	logger.Info("players paired", "first", first.addr, "second", addr)
	s.wg.Go(func() {
		if err := Pair(ctx, first.conn, c); err != nil && ctx.Err() == nil {
			logger.Warn("relay failed", "err", err)
			return
		}
		logger.Info("game closed")
	})
}

// leave forgets p if it is still waiting. Once paired, the game sees the
// error through ReadLine instead.
func (s *Server) leave(p *peer, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.waiting != p {
		return
	}
	s.waiting = nil
	p.conn.Close()
	s.logger().Info("player left before pairing", "addr", p.addr, "err", err)
}

// drain drops an unpaired player and waits for games in flight.
func (s *Server) drain() {
	s.mu.Lock()
	if s.waiting != nil {
		s.waiting.conn.Close()
		s.waiting = nil
	}
	s.mu.Unlock()
	s.wg.Wait()
}
