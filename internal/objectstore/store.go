// Package objectstore is the key-addressed binary storage the uploader
// writes images to and the gallery reads and deletes them from.
//
// Backends:
//   - S3Store: any S3 API (AWS, MinIO) through aws-sdk-go-v2
//   - MinioStore: MinIO native client with a public-read bucket
//   - LocalStore: files on disk with a badger index
//   - MemoryStore: process memory, for tests and throwaway sessions
package objectstore

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/photowall/internal/common"
)

type Store interface {
	// Put stores size bytes from r under key. size may be -1 if unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// PublicURL returns the retrieval address for key. It does not check
	// that the object exists.
	PublicURL(key string) string
	// Get opens the object. Missing objects yield common.ErrNotFound.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	StoredAt    time.Time `json:"stored_at"`
}

// Statter is implemented by stores that can describe an object without
// reading it.
type Statter interface {
	Stat(ctx context.Context, key string) (ObjectInfo, error)
}

func checkKey(key string) error {
	if key == "" {
		return common.ErrEmptyStorageKey
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return common.ErrInvalidImageRef
	}
	return nil
}
