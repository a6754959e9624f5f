package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/photowall/internal/common"
)

type memObject struct {
	data []byte
	info ObjectInfo
}

// MemoryStore keeps objects in process memory. PublicURL addresses are
// only meaningful within the process.
type MemoryStore struct {
	mu      sync.RWMutex
	base    string
	objects map[string]memObject
}

func NewMemoryStore(base string) *MemoryStore {
	if base == "" {
		base = "mem://photowall"
	}
	return &MemoryStore{base: base, objects: make(map[string]memObject)}
}

func (s *MemoryStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read %q: %w", key, err)
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("put %q: got %d bytes, want %d", key, len(data), size)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memObject{
		data: data,
		info: ObjectInfo{Key: key, ContentType: contentType, Size: int64(len(data)), StoredAt: time.Now()},
	}
	return nil
}

func (s *MemoryStore) PublicURL(key string) string {
	return joinURL(s.base, key)
}

func (s *MemoryStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("get %q: %w", key, common.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(o.data)), nil
}

func (s *MemoryStore) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[key]
	if !ok {
		return ObjectInfo{}, fmt.Errorf("stat %q: %w", key, common.ErrNotFound)
	}
	return o.info, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
