package relay

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/waypost/waypost/internal/logging"
)

// ErrConnClosed is returned when writing to a connection that has been
// closed locally.
var ErrConnClosed = errors.New("connection closed")

// Conn is one live WebSocket connection.
type Conn struct {
	ID          string
	ConnectedAt time.Time

	sock   *websocket.Conn
	mu     sync.Mutex
	closed bool
}

// NewConn wraps an upgraded socket with the given connection id.
func NewConn(id string, sock *websocket.Conn) *Conn {
	return &Conn{
		ID:          id,
		ConnectedAt: time.Now(),
		sock:        sock,
	}
}

// WriteJSON sends one JSON payload. Thread-safe; writes are serialized
// so concurrent pushes cannot interleave frames.
func (c *Conn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnClosed
	}
	return c.sock.WriteJSON(v)
}

// ReadMessage reads the next text message from the socket.
func (c *Conn) ReadMessage() ([]byte, error) {
	_, msg, err := c.sock.ReadMessage()
	return msg, err
}

// Close closes the socket. Idempotent.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.sock.Close()
}

// Registry tracks live connections by id. It is the in-process analogue
// of the management endpoint: pushes are addressed by connection id and
// resolved here.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Conn
	log   *logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logging.Logger) *Registry {
	return &Registry{
		conns: make(map[string]*Conn),
		log:   log,
	}
}

// Add registers a connection.
func (r *Registry) Add(c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.ID] = c
	r.log.Info().Str("connId", c.ID).Msg("client connected")
}

// Remove unregisters a connection by id.
func (r *Registry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, connID)
	r.log.Info().Str("connId", connID).Msg("client disconnected")
}

// Get returns a connection by id.
func (r *Registry) Get(connID string) (*Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[connID]
	return c, ok
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// CloseAll closes every connection. Used during shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.conns {
		c.Close()
		delete(r.conns, id)
	}
}
