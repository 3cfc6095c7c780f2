package otp

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

type memoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore returns a process-local Store backed by go-cache.
// State is lost on restart, which is acceptable for passcodes.
func NewMemoryStore(cleanupInterval time.Duration) Store {
	return &memoryStore{cache: cache.New(cache.NoExpiration, cleanupInterval)}
}

func (s *memoryStore) Put(_ context.Context, key string, rec Record, ttl time.Duration) error {
	s.cache.Set(key, rec, ttl)
	return nil
}

func (s *memoryStore) Get(_ context.Context, key string) (Record, bool, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return Record{}, false, nil
	}
	rec, ok := v.(Record)
	if !ok {
		return Record{}, false, nil
	}
	return rec, true, nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}
