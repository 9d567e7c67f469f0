package blobsvc

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/story"
)

var ErrBlobNotFound = errors.New("blob not found")

// Blob is a file kept by a MemoryStore.
type Blob struct {
	Content     []byte
	ContentType string
}

// MemoryStore keeps story files in memory. Used by tests and local runs without a bucket.
type MemoryStore struct {
	mu      sync.RWMutex
	blobs   map[string]Blob
	baseURL string
	// FailPut makes Put fail when set.
	FailPut error
}

var _ story.BlobStore = (*MemoryStore)(nil)

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{blobs: make(map[string]Blob), baseURL: baseURL}
}

func (s *MemoryStore) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) (string, error) {
	if s.FailPut != nil {
		return "", s.FailPut
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", errors.Wrapf(err, "reading %s", key)
	}
	s.mu.Lock()
	s.blobs[key] = Blob{Content: buf.Bytes(), ContentType: contentType}
	s.mu.Unlock()
	return s.baseURL + "/" + key, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[key]; !ok {
		return ErrBlobNotFound
	}
	delete(s.blobs, key)
	return nil
}

func (s *MemoryStore) Get(key string) (Blob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[key]
	return b, ok
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
