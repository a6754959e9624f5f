// Package preview issues revocable local display handles for files that
// have not been uploaded yet.
package preview

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/photowall/internal/common"
	"github.com/dmitrijs2005/photowall/internal/localfile"
	"github.com/google/uuid"
)

const scheme = "blob:photowall/"

// Registry tracks the live handles it issued.
type Registry struct {
	mu   sync.Mutex
	live map[string]*Handle
}

func NewRegistry() *Registry {
	return &Registry{live: make(map[string]*Handle)}
}

// Create issues a handle for f. Nothing is read until DataURL is called.
func (r *Registry) Create(f localfile.File) *Handle {
	h := &Handle{url: scheme + uuid.NewString(), file: f, reg: r}

	r.mu.Lock()
	r.live[h.url] = h
	r.mu.Unlock()

	return h
}

// Resolve returns the live handle for url.
func (r *Registry) Resolve(url string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.live[url]
	return h, ok
}

// Live returns the number of handles not yet released.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

func (r *Registry) forget(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.live[url]; !ok {
		return false
	}
	delete(r.live, url)
	return true
}

// Handle is a preview reference. DataURL materialises an inline
// data:image/... representation on first use and caches it.
type Handle struct {
	url  string
	file localfile.File
	reg  *Registry

	mu      sync.Mutex
	dataURL string
}

func (h *Handle) URL() string { return h.url }

func (h *Handle) DataURL() (string, error) {
	if h.Released() {
		return "", common.ErrPreviewReleased
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.dataURL != "" {
		return h.dataURL, nil
	}

	rc, err := h.file.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", h.file.Name(), err)
	}
	defer rc.Close()

	var sb strings.Builder
	sb.WriteString("data:")
	sb.WriteString(h.file.ContentType())
	sb.WriteString(";base64,")

	enc := base64.NewEncoder(base64.StdEncoding, &sb)
	if _, err := io.Copy(enc, rc); err != nil {
		return "", fmt.Errorf("read %s: %w", h.file.Name(), err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}

	h.dataURL = sb.String()
	return h.dataURL, nil
}

// Release revokes the handle. It reports whether this call released it;
// later calls return false.
func (h *Handle) Release() bool {
	if !h.reg.forget(h.url) {
		return false
	}
	h.mu.Lock()
	h.dataURL = ""
	h.mu.Unlock()
	return true
}

func (h *Handle) Released() bool {
	_, ok := h.reg.Resolve(h.url)
	return !ok
}
