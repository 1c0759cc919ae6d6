package relay

import (
	"errors"

	"github.com/waypost/waypost/internal/logging"
	"github.com/waypost/waypost/internal/metrics"
	"github.com/waypost/waypost/internal/store"
)

// ErrConnectionGone signals that the push target no longer exists. The
// stale record has already been removed from the connection store when
// this is returned; callers stop pushing for the current turn.
var ErrConnectionGone = errors.New("connection no longer available")

// Pusher delivers one JSON payload to one connection id. It is
// fire-and-forget with cleanup: no retry, no queueing. A push failure is
// terminal for the in-flight response.
type Pusher struct {
	registry *Registry
	conns    store.ConnectionStore
	log      *logging.Logger
}

// NewPusher creates a pusher over the live registry and the durable
// connection store.
func NewPusher(registry *Registry, conns store.ConnectionStore, log *logging.Logger) *Pusher {
	return &Pusher{
		registry: registry,
		conns:    conns,
		log:      log.Sub("pusher"),
	}
}

// Send writes the payload to the connection. When the connection is gone
// its record is deleted as a side effect and ErrConnectionGone is
// returned; other transport errors propagate unchanged and leave the
// record in place (the failure may be transient).
func (p *Pusher) Send(connectionID string, payload Outbound) error {
	conn, ok := p.registry.Get(connectionID)
	if !ok {
		p.cleanupStale(connectionID)
		return ErrConnectionGone
	}

	if err := conn.WriteJSON(payload); err != nil {
		if errors.Is(err, ErrConnClosed) {
			p.cleanupStale(connectionID)
			return ErrConnectionGone
		}
		return err
	}

	metrics.PushesSent.WithLabelValues(payload.Type).Inc()
	return nil
}

func (p *Pusher) cleanupStale(connectionID string) {
	if err := p.conns.Delete(connectionID); err != nil {
		p.log.Warn().Err(err).Str("connId", connectionID).Msg("failed to delete stale connection record")
		return
	}
	metrics.StaleConnectionsCleaned.Inc()
	p.log.Debug().Str("connId", connectionID).Msg("stale connection record removed")
}
