package objectstore

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// NewKey returns a fresh storage key that keeps the lower-cased extension
// of filename, e.g. "0b7c...e1.jpg".
func NewKey(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

// joinURL joins a base address and a key with exactly one slash.
func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
