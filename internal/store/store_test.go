package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waypost/waypost/internal/logging"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:", logging.New(nil, "silent"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationsApply(t *testing.T) {
	db := testDB(t)

	var count int
	err := db.SQL().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)

	// The connections table exists and is empty.
	err = db.SQL().QueryRow("SELECT COUNT(*) FROM connections").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPutGetDelete(t *testing.T) {
	db := testDB(t)
	cs := NewSQLiteConnectionStore(db, 24*time.Hour)

	require.NoError(t, cs.Put("conn-1"))

	rec, err := cs.Get("conn-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "conn-1", rec.ConnectionID)
	assert.Greater(t, rec.TTL, time.Now().Unix())

	require.NoError(t, cs.Delete("conn-1"))

	rec, err = cs.Get("conn-1")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestPutIsIdempotent(t *testing.T) {
	db := testDB(t)
	cs := NewSQLiteConnectionStore(db, time.Hour)

	require.NoError(t, cs.Put("conn-1"))
	require.NoError(t, cs.Put("conn-1"))
	require.NoError(t, cs.Put("conn-1"))

	var count int
	err := db.SQL().QueryRow("SELECT COUNT(*) FROM connections").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeleteUnknownIDIsHarmless(t *testing.T) {
	db := testDB(t)
	cs := NewSQLiteConnectionStore(db, time.Hour)

	assert.NoError(t, cs.Delete("never-seen"))
}

func TestGetExpiredRecordIsAbsent(t *testing.T) {
	db := testDB(t)
	cs := NewSQLiteConnectionStore(db, time.Hour)

	require.NoError(t, cs.Put("conn-1"))
	_, err := db.SQL().Exec(`UPDATE connections SET ttl = ? WHERE connection_id = ?`,
		time.Now().Add(-time.Minute).Unix(), "conn-1")
	require.NoError(t, err)

	rec, err := cs.Get("conn-1")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGetReportsDatabaseErrors(t *testing.T) {
	db := testDB(t)
	cs := NewSQLiteConnectionStore(db, time.Hour)

	require.NoError(t, cs.Put("conn-1"))
	require.NoError(t, db.Close())

	// A failing database is an error, not an absent record.
	rec, err := cs.Get("conn-1")
	require.Error(t, err)
	assert.Nil(t, rec)
}

func TestPurgeExpired(t *testing.T) {
	db := testDB(t)
	cs := NewSQLiteConnectionStore(db, time.Hour)

	require.NoError(t, cs.Put("live"))
	require.NoError(t, cs.Put("stale-1"))
	require.NoError(t, cs.Put("stale-2"))

	past := time.Now().Add(-time.Minute).Unix()
	_, err := db.SQL().Exec(`UPDATE connections SET ttl = ? WHERE connection_id LIKE 'stale%'`, past)
	require.NoError(t, err)

	purged, err := cs.PurgeExpired(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, purged)

	rec, err := cs.Get("live")
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestMemoryStore(t *testing.T) {
	cs := NewMemoryConnectionStore(time.Hour)

	require.NoError(t, cs.Put("a"))
	require.NoError(t, cs.Put("a"))
	require.NoError(t, cs.Put("b"))
	assert.Equal(t, 2, cs.Count())

	rec, err := cs.Get("a")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "a", rec.ConnectionID)

	require.NoError(t, cs.Delete("a"))
	require.NoError(t, cs.Delete("missing"))
	assert.Equal(t, 1, cs.Count())

	rec, err = cs.Get("a")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMemoryStorePurgeExpired(t *testing.T) {
	cs := NewMemoryConnectionStore(time.Hour)
	require.NoError(t, cs.Put("a"))
	require.NoError(t, cs.Put("b"))

	purged, err := cs.PurgeExpired(time.Now().Add(2 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, purged)
	assert.Equal(t, 0, cs.Count())
}
