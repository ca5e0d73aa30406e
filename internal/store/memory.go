package store

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrNotFound is returned when no value has been stored under a key.
	ErrNotFound = errors.New("no value stored for key")
)

// MemoryStore is a concurrency-safe in-memory key-value store. It is used when no
// database path is configured and in tests.
type MemoryStore struct {
	mu sync.RWMutex

	data map[string][]byte

	// writes counts Put calls per key.
	writes map[string]int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:   make(map[string][]byte),
		writes: make(map[string]int),
	}
}

// Get returns a copy of the value stored under key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Put replaces the value stored under key.
func (s *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = v
	s.writes[key]++
	return nil
}

// Writes returns how many times key has been written.
func (s *MemoryStore) Writes(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes[key]
}

// Close is a no-op so MemoryStore can stand in for SQLiteStore.
func (s *MemoryStore) Close() error {
	return nil
}
