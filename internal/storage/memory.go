package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

var ErrObjectNotFound = errors.New("object not found")

type storedObject struct {
	data        []byte
	contentType string
}

// InMemoryImageStore keeps objects in process memory. URLs point at baseURL.
type InMemoryImageStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]storedObject
}

func NewInMemoryImageStore(baseURL string) *InMemoryImageStore {
	return &InMemoryImageStore{
		baseURL: baseURL,
		objects: map[string]storedObject{},
	}
}

func (s *InMemoryImageStore) Upload(_ context.Context, key string, r io.Reader, _ int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = storedObject{data: data, contentType: contentType}
	return s.baseURL + "/" + key, nil
}

func (s *InMemoryImageStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; !ok {
		return ErrObjectNotFound
	}
	delete(s.objects, key)
	return nil
}

// Object returns the stored bytes and content type of key.
func (s *InMemoryImageStore) Object(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	return obj.data, obj.contentType, ok
}
