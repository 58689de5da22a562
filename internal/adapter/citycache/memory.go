// Package citycache stores geocoded city coordinates across loads, either
// in sqlite or in memory.
package citycache

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/couchcryptid/coffee-map/internal/domain"
)

// ErrNotFound is returned when a city has no cached entry.
var ErrNotFound = errors.New("city not in cache")

// Key is the cache key for a city name: trimmed and lower-cased.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// MemoryStore is a process-local cache used when no database path is
// configured.
type MemoryStore struct {
	mu     sync.RWMutex
	points map[string]domain.CityPoint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{points: make(map[string]domain.CityPoint)}
}

func (s *MemoryStore) Get(_ context.Context, name string) (domain.CityPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pt, ok := s.points[Key(name)]
	if !ok {
		return domain.CityPoint{}, ErrNotFound
	}
	return pt, nil
}

func (s *MemoryStore) Put(_ context.Context, name string, pt domain.CityPoint) error {
	key := Key(name)
	if key == "" {
		return nil
	}
	s.mu.Lock()
	s.points[key] = pt
	s.mu.Unlock()
	return nil
}

// Len returns the number of cached cities.
func (s *MemoryStore) Len(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points), nil
}

func (s *MemoryStore) Close() error { return nil }
