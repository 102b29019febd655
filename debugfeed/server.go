// Package debugfeed streams index snapshots to websocket clients for external visualizers
package debugfeed

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var (
	errFeedFull   = errors.New("too many feed clients")
	errFeedClosed = errors.New("feed is shutting down")
)

// Source produces the frame broadcast on each interval; called from the broadcast goroutine
type Source func() *Frame

// Server pushes frames to every connected client at a fixed interval
// Clients are read-only; anything they send is discarded
type Server struct {
	cfg    *Config
	source Source

	upgrader websocket.Upgrader
	mux      *http.ServeMux
	http     *http.Server

	mu       sync.Mutex
	clients  map[*client]struct{}
	reserved int  // Slots held by handshakes in flight
	closed   bool // Set by Stop; no client registers afterwards

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewServer creates a feed server; nil cfg uses DefaultConfig
func NewServer(cfg *Config, source Source) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Server{
		cfg:     cfg,
		source:  source,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // Local tooling only
		},
	}
	s.mux = http.NewServeMux()
	s.mux.HandleFunc(cfg.Path, s.handleFeed)
	return s
}

// ServeHTTP exposes the feed endpoint for mounting on an existing server
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ClientCount returns the number of connected clients
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Start binds cfg.Address and begins broadcasting; returns once listening
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}
	s.http = &http.Server{Handler: s, ReadHeaderTimeout: 5 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[FEED] Serve error: %v", err)
		}
	}()
	go func() {
		defer s.wg.Done()
		s.Run(ctx)
	}()

	log.Printf("[FEED] Listening on ws://%s%s", ln.Addr(), s.cfg.Path)
	return nil
}

// Stop closes the listener and every client connection
func (s *Server) Stop() {
	// Refuse new clients first so nothing joins the wait group during Wait
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	if s.http != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
		_ = s.http.Shutdown(ctx)
		cancel()
	}
	s.closeClients()
	s.wg.Wait()
}

// Run broadcasts a frame every interval until ctx is cancelled
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeClients()
			return
		case <-ticker.C:
			if s.ClientCount() == 0 {
				continue
			}
			s.Broadcast(s.source())
		}
	}
}

// Broadcast encodes f once and queues it for every client
// Slow clients whose queue is full miss the frame
func (s *Server) Broadcast(f *Frame) {
	if f == nil {
		return
	}
	data, err := Encode(f)
	if err != nil {
		log.Printf("[FEED] %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	// Slot and pump goroutines are reserved before the handshake so concurrent
	// upgrades cannot overshoot MaxClients
	if err := s.reserve(); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[FEED] Upgrade failed: %v", err)
		s.mu.Lock()
		s.reserved--
		s.mu.Unlock()
		s.wg.Add(-2)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, s.cfg.SendQueueSize)}
	if !s.register(c) {
		// Stop began during the handshake
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, errFeedClosed.Error()),
			time.Now().Add(s.cfg.WriteTimeout))
		conn.Close()
		s.wg.Add(-2)
		return
	}
	log.Printf("[FEED] Client connected: %s", conn.RemoteAddr())

	go s.writePump(c)
	go s.readPump(c)
}

// reserve claims a client slot and adds the two pump goroutines to the wait group
func (s *Server) reserve() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errFeedClosed
	}
	if len(s.clients)+s.reserved >= s.cfg.MaxClients {
		return errFeedFull
	}
	s.reserved++
	s.wg.Add(2)
	return nil
}

// register converts a reservation into a live client; false once Stop has begun
func (s *Server) register(c *client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reserved--
	if s.closed {
		return false
	}
	s.clients[c] = struct{}{}
	return true
}

// unregister removes c and closes its queue; safe to call more than once
func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
		log.Printf("[FEED] Client disconnected: %s", c.conn.RemoteAddr())
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		s.unregister(c)
	}
}

// readPump drains client messages so control frames are processed
func (s *Server) readPump(c *client) {
	defer func() {
		s.unregister(c)
		c.conn.Close()
		s.wg.Done()
	}()

	c.conn.SetReadLimit(s.cfg.ReadLimit)
	c.conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[FEED] Read error: %v", err)
			}
			return
		}
	}
}

func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		s.wg.Done()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
