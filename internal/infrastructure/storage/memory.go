package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/multistore/backend/internal/application/media"
)

var _ media.Storage = (*MemoryStorage)(nil)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryStorage keeps objects in a map. It backs tests and the
// "memory" storage provider for local development.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	baseURL string
}

// NewMemoryStorage creates an empty in-memory store
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		objects: make(map[string]memoryObject),
		baseURL: "https://storage.local",
	}
}

// Upload stores an object
func (s *MemoryStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[key] = memoryObject{data: buf, contentType: contentType}
	return nil
}

// Delete removes an object. Deleting a missing key is not an error.
func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Exists reports whether an object is present
func (s *MemoryStorage) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// PresignedURL returns a deterministic fake link with the expiry encoded
func (s *MemoryStorage) PresignedURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	u := fmt.Sprintf("%s/%s?expires=%s", s.baseURL, key, url.QueryEscape(expiresAt.Format(time.RFC3339)))
	return u, expiresAt, nil
}

// Get returns a stored object's bytes and content type, for test assertions
func (s *MemoryStorage) Get(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj.data, obj.contentType, ok
}

// Len returns the number of stored objects
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
