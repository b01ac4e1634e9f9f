package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryImageStore keeps uploads in memory. Used by the development backend.
type MemoryImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (s *MemoryImageStore) Upload(ctx context.Context, r io.Reader, contentType, path string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", fmt.Errorf("failed to read upload: %v", err)
	}

	s.mu.Lock()
	s.objects[path] = buf.Bytes()
	s.types[path] = contentType
	s.mu.Unlock()

	return "memory://" + path, nil
}

// Object returns what was uploaded to path.
func (s *MemoryImageStore) Object(path string) ([]byte, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	return data, s.types[path], ok
}
