package store

import (
	"database/sql"
	"errors"
	"time"
)

// ConnectionRecord is one persisted WebSocket connection.
type ConnectionRecord struct {
	ConnectionID string
	ConnectedAt  time.Time
	TTL          int64 // epoch seconds after which the record is expired
}

// ConnectionStore is the durable set of currently-open connection ids.
type ConnectionStore interface {
	// Put inserts or refreshes a connection record. Idempotent.
	Put(connectionID string) error

	// Delete removes a record. No error if the id is unknown.
	Delete(connectionID string) error

	// Get returns the record for an id, or nil if absent or expired.
	Get(connectionID string) (*ConnectionRecord, error)

	// PurgeExpired removes all records whose TTL has passed and returns
	// how many were removed.
	PurgeExpired(now time.Time) (int, error)
}

// SQLiteConnectionStore implements ConnectionStore backed by SQLite.
type SQLiteConnectionStore struct {
	db  *DB
	ttl time.Duration
}

// NewSQLiteConnectionStore creates a connection store using the given
// database. Records expire after ttl.
func NewSQLiteConnectionStore(db *DB, ttl time.Duration) *SQLiteConnectionStore {
	return &SQLiteConnectionStore{db: db, ttl: ttl}
}

// Put inserts a record with connected_at = now and ttl = now + s.ttl.
// A duplicate id overwrites the existing record.
func (s *SQLiteConnectionStore) Put(connectionID string) error {
	now := time.Now()
	_, err := s.db.sql.Exec(
		`INSERT INTO connections (connection_id, connected_at, ttl)
		 VALUES (?, ?, ?)
		 ON CONFLICT(connection_id) DO UPDATE SET
		   connected_at = excluded.connected_at,
		   ttl = excluded.ttl`,
		connectionID, now.UTC().Format(time.DateTime), now.Add(s.ttl).Unix(),
	)
	if err != nil {
		s.db.log.Error().Err(err).Str("connId", connectionID).Msg("failed to store connection")
	}
	return err
}

// Delete removes the record if present.
func (s *SQLiteConnectionStore) Delete(connectionID string) error {
	_, err := s.db.sql.Exec(`DELETE FROM connections WHERE connection_id = ?`, connectionID)
	if err != nil {
		s.db.log.Error().Err(err).Str("connId", connectionID).Msg("failed to delete connection")
	}
	return err
}

// Get returns the record for an id. Expired records are treated as absent.
func (s *SQLiteConnectionStore) Get(connectionID string) (*ConnectionRecord, error) {
	var rec ConnectionRecord
	var connectedAt string
	err := s.db.sql.QueryRow(
		`SELECT connection_id, connected_at, ttl FROM connections WHERE connection_id = ?`,
		connectionID,
	).Scan(&rec.ConnectionID, &connectedAt, &rec.TTL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rec.TTL < time.Now().Unix() {
		return nil, nil
	}
	rec.ConnectedAt, _ = time.Parse(time.DateTime, connectedAt)
	return &rec, nil
}

// PurgeExpired deletes all records whose TTL has passed.
func (s *SQLiteConnectionStore) PurgeExpired(now time.Time) (int, error) {
	res, err := s.db.sql.Exec(`DELETE FROM connections WHERE ttl < ?`, now.Unix())
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		s.db.log.Debug().Int64("purged", n).Msg("expired connection records removed")
	}
	return int(n), nil
}
