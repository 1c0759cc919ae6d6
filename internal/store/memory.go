package store

import (
	"sync"
	"time"
)

// MemoryConnectionStore is an in-memory ConnectionStore for tests and
// single-process setups that don't need durability.
type MemoryConnectionStore struct {
	mu   sync.RWMutex
	recs map[string]ConnectionRecord
	ttl  time.Duration
}

// NewMemoryConnectionStore creates an empty in-memory connection store.
func NewMemoryConnectionStore(ttl time.Duration) *MemoryConnectionStore {
	return &MemoryConnectionStore{
		recs: make(map[string]ConnectionRecord),
		ttl:  ttl,
	}
}

func (s *MemoryConnectionStore) Put(connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.recs[connectionID] = ConnectionRecord{
		ConnectionID: connectionID,
		ConnectedAt:  now,
		TTL:          now.Add(s.ttl).Unix(),
	}
	return nil
}

func (s *MemoryConnectionStore) Delete(connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, connectionID)
	return nil
}

func (s *MemoryConnectionStore) Get(connectionID string) (*ConnectionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[connectionID]
	if !ok || rec.TTL < time.Now().Unix() {
		return nil, nil
	}
	return &rec, nil
}

func (s *MemoryConnectionStore) PurgeExpired(now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int
	for id, rec := range s.recs {
		if rec.TTL < now.Unix() {
			delete(s.recs, id)
			purged++
		}
	}
	return purged, nil
}

// Count returns the number of records currently held. Test helper.
func (s *MemoryConnectionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}
