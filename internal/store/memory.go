package store

import (
	"context"
	"sync"
	"time"

	"github.com/i474232898/farm-weather/internal/weather"
)

type entry struct {
	reading weather.Reading
	expiry  time.Time
}

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: coordinate key
	data map[string]entry

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore. A nil now uses time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		data: make(map[string]entry),
		now:  now,
	}
}

// Get returns the reading stored under key if it has not expired.
func (s *MemoryStore) Get(_ context.Context, key string) (weather.Reading, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok || !s.now().Before(e.expiry) {
		return weather.Reading{}, false, nil
	}
	return e.reading, true, nil
}

// Set replaces the entry for key with a fresh expiry.
func (s *MemoryStore) Set(_ context.Context, key string, r weather.Reading, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{reading: r, expiry: s.now().Add(ttl)}
	return nil
}

// Sweep deletes expired entries.
func (s *MemoryStore) Sweep(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.data {
		if !now.Before(e.expiry) {
			delete(s.data, k)
			removed++
		}
	}
	return removed
}

// Len reports how many entries are held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
