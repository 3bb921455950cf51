package idempotency

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const pendingMarker int64 = 0

// MemoryStore keeps keys in process memory. Suitable for a single API instance.
type MemoryStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewMemoryStore creates an in-process store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	ttl = ttlOrDefault(ttl)
	return &MemoryStore{
		cache: gocache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

// Name identifies the backend in logs and health output
func (s *MemoryStore) Name() string {
	return "memory"
}

// Reserve claims key atomically; go-cache Add fails when the key already exists
func (s *MemoryStore) Reserve(_ context.Context, key string) (*Prior, error) {
	k, err := storageKey(key)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Add(k, pendingMarker, s.ttl); err == nil {
		return nil, nil
	}

	value, found := s.cache.Get(k)
	if !found {
		// expired between Add and Get; the caller may simply retry
		return &Prior{Pending: true}, nil
	}
	leadID, _ := value.(int64)
	return &Prior{Pending: leadID == pendingMarker, LeadID: leadID}, nil
}

// Complete stores the lead id for key
func (s *MemoryStore) Complete(_ context.Context, key string, leadID int64) error {
	k, err := storageKey(key)
	if err != nil {
		return err
	}
	s.cache.Set(k, leadID, s.ttl)
	return nil
}

// Release forgets key
func (s *MemoryStore) Release(_ context.Context, key string) error {
	k, err := storageKey(key)
	if err != nil {
		return err
	}
	s.cache.Delete(k)
	return nil
}
