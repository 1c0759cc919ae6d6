package relay

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/waypost/waypost/internal/config"
	"github.com/waypost/waypost/internal/logging"
	"github.com/waypost/waypost/internal/store"
)

// Server is the relay HTTP + WebSocket server. It owns the connection
// lifecycle: a successful upgrade persists the connection id, a closed
// socket removes it.
type Server struct {
	cfg      config.Config
	log      *logging.Logger
	registry *Registry
	conns    store.ConnectionStore
	relay    *Relay

	startedAt  time.Time
	httpServer *http.Server
	upgrader   websocket.Upgrader
	limiter    *ipRateLimiter
}

// NewServer creates the relay server.
func NewServer(cfg config.Config, registry *Registry, conns store.ConnectionStore, relay *Relay, log *logging.Logger) *Server {
	allowedOrigins := cfg.Relay.AllowedOrigins
	return &Server{
		cfg:      cfg,
		log:      log.Sub("server"),
		registry: registry,
		conns:    conns,
		relay:    relay,
		limiter:  newIPRateLimiter(rate.Every(time.Second), 10),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkWebSocketOrigin(allowedOrigins),
		},
	}
}

// checkWebSocketOrigin returns a function that validates WebSocket Origin
// headers. With no configured origins, only same-origin (no Origin
// header) or non-browser clients are allowed.
func checkWebSocketOrigin(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.RelayConfig) string {
	switch cfg.Bind {
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	case "custom":
		host := cfg.CustomBindHost
		if host == "" {
			host = "0.0.0.0"
		}
		return fmt.Sprintf("%s:%d", host, cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Start begins listening for HTTP and WebSocket connections. It blocks
// until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg.Relay)

	mux := http.NewServeMux()
	s.registerHTTPRoutes(mux)
	handler := withMiddleware(mux, s.log)

	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
		BaseContext: func(l net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if s.cfg.Relay.TLS.Enabled {
		cert, err := tls.LoadX509KeyPair(s.cfg.Relay.TLS.CertPath, s.cfg.Relay.TLS.KeyPath)
		if err != nil {
			ln.Close()
			return fmt.Errorf("loading TLS certificate: %w", err)
		}
		ln = tls.NewListener(ln, &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		})
		s.log.Info().Msg("TLS enabled")
	} else if s.cfg.Relay.Bind != "loopback" {
		s.log.Warn().Msg("TLS is not enabled, traffic will be transmitted in cleartext")
	}

	s.startedAt = time.Now()
	s.log.Info().
		Str("addr", ln.Addr().String()).
		Str("bind", s.cfg.Relay.Bind).
		Str("model", s.relay.cfg.Model).
		Msg("relay server ready")

	// Periodic sweep of expired connection records, the local analogue
	// of a TTL-expiring table.
	go s.sweepExpired(ctx)

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down relay server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.registry.CloseAll()
		s.httpServer.Shutdown(shutdownCtx)
	}()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address, or empty string if not started.
func (s *Server) Addr() string {
	if s.httpServer != nil {
		return s.httpServer.Addr
	}
	return ""
}

func (s *Server) sweepExpired(ctx context.Context) {
	interval := time.Duration(s.cfg.Connections.SweepMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if _, err := s.conns.PurgeExpired(now); err != nil {
				s.log.Warn().Err(err).Msg("connection sweep failed")
			}
		}
	}
}

// handleWebSocket upgrades HTTP to WebSocket and runs the connection
// lifecycle.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.allow(r.RemoteAddr) {
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("connection rate limited")
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sock, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	sock.SetReadLimit(4 * 1024 * 1024)

	connID := uuid.New().String()

	// The connect event: persist the record before serving messages. A
	// store failure fails the whole connection.
	if err := s.conns.Put(connID); err != nil {
		s.log.Error().Err(err).Str("connId", connID).Msg("failed to persist connection")
		sock.Close()
		return
	}

	conn := NewConn(connID, sock)
	s.registry.Add(conn)

	defer func() {
		// The disconnect event: succeeds whether or not the record
		// still exists (a stale-push cleanup may have raced us).
		s.registry.Remove(connID)
		if err := s.conns.Delete(connID); err != nil {
			s.log.Warn().Err(err).Str("connId", connID).Msg("failed to delete connection record")
		}
		conn.Close()
	}()

	s.readLoop(r.Context(), conn)
}

// authorized checks the optional relay token on an upgrade request.
// Accepted either as a Bearer header or a token query parameter (mobile
// WebSocket clients often cannot set headers).
func (s *Server) authorized(r *http.Request) bool {
	token := s.cfg.Relay.Auth.Token
	if token == "" {
		return true
	}
	if auth := r.Header.Get("Authorization"); auth == "Bearer "+token {
		return true
	}
	return r.URL.Query().Get("token") == token
}

// readLoop processes inbound messages until the socket closes.
func (s *Server) readLoop(ctx context.Context, conn *Conn) {
	clog := s.log.WithConn(conn.ID)
	for {
		msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				clog.Debug().Msg("client closed connection")
			} else {
				clog.Warn().Err(err).Msg("read error")
			}
			return
		}

		s.relay.HandleMessage(ctx, conn.ID, msg)
	}
}

// registerHTTPRoutes sets up all HTTP routes on the server mux.
func (s *Server) registerHTTPRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/", handleNotFound)
}

// ipRateLimiter throttles connection attempts per remote IP using token
// buckets.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// maxTrackedIPs caps the limiter map to bound memory.
const maxTrackedIPs = 10000

func newIPRateLimiter(limit rate.Limit, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (l *ipRateLimiter) allow(remoteAddr string) bool {
	host, _, _ := net.SplitHostPort(remoteAddr)
	if host == "" {
		host = remoteAddr
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[host]
	if !ok {
		if len(l.limiters) >= maxTrackedIPs {
			for ip := range l.limiters {
				delete(l.limiters, ip)
				break
			}
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[host] = lim
	}
	return lim.Allow()
}
