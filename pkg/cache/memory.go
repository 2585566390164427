package cache

import (
	"context"
	"fmt"
	"sync"
)

// MemStore is an in-memory artifact store. Useful for tests and for callers
// that want the pipeline without touching disk.
type MemStore struct {
	mu       sync.Mutex
	entries  map[int][]byte
	closed   bool
	retained bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[int][]byte)}
}

// Put stores a copy of the artifact bytes.
func (s *MemStore) Put(ctx context.Context, index int, data []byte) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Handle{}, ErrClosed
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.entries[index] = buf
	return Handle{Index: index, Location: fmt.Sprintf("mem:%d", index)}, nil
}

// Get returns the stored bytes for the handle's index.
func (s *MemStore) Get(ctx context.Context, h Handle) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.entries[h.Index]
	if !ok {
		return nil, fmt.Errorf("artifact %d: %w", h.Index, ErrNotFound)
	}
	return data, nil
}

// Close drops all entries unless retain is true.
func (s *MemStore) Close(retain bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.retained = retain
	if !retain {
		s.entries = nil
	}
	return nil
}

// Len reports the number of stored artifacts. Used by tests.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Ensure MemStore implements Store.
var _ Store = (*MemStore)(nil)
