package objectstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dmitrijs2005/photowall/internal/common"
	"github.com/dmitrijs2005/photowall/internal/filex"
)

// LocalStore keeps objects as files under <root>/objects and indexes them
// in a badger database under <root>/index. Public URLs are file:// URLs.
type LocalStore struct {
	mu      sync.RWMutex
	objects string
	db      *badger.DB
}

func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filex.EnsureDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	objects, err := filex.EnsureDir(filepath.Join(abs, "objects"))
	if err != nil {
		return nil, fmt.Errorf("failed to create objects directory: %w", err)
	}

	opts := badger.DefaultOptions(filepath.Join(abs, "index"))
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	return &LocalStore{objects: objects, db: db}, nil
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.objects, key)
}

func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.objects, ".put-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	if size >= 0 && n != size {
		return fmt.Errorf("put %q: got %d bytes, want %d", key, n, size)
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("failed to store file: %w", err)
	}

	info := ObjectInfo{Key: key, ContentType: contentType, Size: n, StoredAt: time.Now().UTC()}
	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(info)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		return txn.Set([]byte(key), data)
	})
}

func (s *LocalStore) PublicURL(key string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(s.path(key))}
	return u.String()
}

func (s *LocalStore) stat(key string) (ObjectInfo, error) {
	var info ObjectInfo
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &info)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ObjectInfo{}, fmt.Errorf("object %q: %w", key, common.ErrNotFound)
	}
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("failed to read index: %w", err)
	}
	return info, nil
}

func (s *LocalStore) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stat(key)
}

func (s *LocalStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.stat(key); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("object file %q: %w", key, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (s *LocalStore) Close() error {
	return s.db.Close()
}
