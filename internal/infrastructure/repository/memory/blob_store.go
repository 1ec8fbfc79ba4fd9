package memory

import (
	"context"
	"sync"
)

// BlobStore keeps string blobs in process memory.
type BlobStore struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewBlobStore() *BlobStore {
	return &BlobStore{items: make(map[string]string)}
}

func (s *BlobStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	return value, ok, nil
}

func (s *BlobStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
	return nil
}
