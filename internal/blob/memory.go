package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

type memoryObject struct {
	data        []byte
	contentType string
}

type memoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemory keeps blobs in process memory. Used by tests and the memory
// driver.
func NewMemory() Store {
	return &memoryStore{objects: map[string]memoryObject{}}
}

func (s *memoryStore) Driver() Driver { return DriverMemory }

func (s *memoryStore) Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error) {
	if _, err := cleanKey(key); err != nil {
		return Info{}, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Info{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[key]; exists {
		return Info{}, fmt.Errorf("%w: %s", ErrExists, key)
	}
	s.objects[key] = memoryObject{data: data, contentType: contentType}

	return Info{Key: key, Size: int64(len(data)), ContentType: contentType}, nil
}

func (s *memoryStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	object, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(object.data)), nil
}

func (s *memoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	delete(s.objects, key)
	return nil
}
