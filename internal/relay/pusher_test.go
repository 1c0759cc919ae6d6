package relay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waypost/waypost/internal/logging"
	"github.com/waypost/waypost/internal/store"
)

func testLogger() *logging.Logger {
	return logging.New(nil, "silent")
}

func TestSendToUnknownConnectionCleansRecord(t *testing.T) {
	conns := store.NewMemoryConnectionStore(time.Hour)
	registry := NewRegistry(testLogger())
	pusher := NewPusher(registry, conns, testLogger())

	// The record exists but the live connection does not, as after a
	// process restart or an abrupt socket loss.
	require.NoError(t, conns.Put("ghost"))
	require.Equal(t, 1, conns.Count())

	err := pusher.Send("ghost", NewStatus(StatusProcessing, "conv-1"))
	assert.ErrorIs(t, err, ErrConnectionGone)
	assert.Equal(t, 0, conns.Count())
}

func TestSendToClosedConnectionCleansRecord(t *testing.T) {
	conns := store.NewMemoryConnectionStore(time.Hour)
	registry := NewRegistry(testLogger())
	pusher := NewPusher(registry, conns, testLogger())

	require.NoError(t, conns.Put("closed"))
	registry.Add(&Conn{ID: "closed", ConnectedAt: time.Now(), closed: true})

	err := pusher.Send("closed", NewChunk("hello", "conv-1"))
	assert.ErrorIs(t, err, ErrConnectionGone)
	assert.Equal(t, 0, conns.Count())
}

func TestCleanupStaleIsIdempotent(t *testing.T) {
	conns := store.NewMemoryConnectionStore(time.Hour)
	registry := NewRegistry(testLogger())
	pusher := NewPusher(registry, conns, testLogger())

	// No record at all: Send still reports gone without error noise.
	err := pusher.Send("never-existed", NewStatus(StatusProcessing, ""))
	assert.ErrorIs(t, err, ErrConnectionGone)

	err = pusher.Send("never-existed", NewStatus(StatusProcessing, ""))
	assert.ErrorIs(t, err, ErrConnectionGone)
}
