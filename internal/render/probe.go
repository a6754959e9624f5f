package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/photowall/internal/netx"
)

type Size struct {
	Width  int
	Height int
	Format string
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d %s", s.Width, s.Height, s.Format)
}

// Prober reads image dimensions. Remote sources are fetched on first use
// and the result is cached per address; failures are not cached.
type Prober struct {
	open func(ctx context.Context, src string) (io.ReadCloser, error)

	mu    sync.Mutex
	cache map[string]Size
}

func NewProber() *Prober {
	return &Prober{open: openRemote, cache: make(map[string]Size)}
}

func (p *Prober) Size(ctx context.Context, src string) (Size, error) {
	s, err := Parse(src)
	if err != nil {
		return Size{}, err
	}
	if s.Kind == Inline {
		return decodeConfig(bytes.NewReader(s.Data))
	}

	p.mu.Lock()
	size, ok := p.cache[s.URL]
	p.mu.Unlock()
	if ok {
		return size, nil
	}

	rc, err := p.open(ctx, s.URL)
	if err != nil {
		return Size{}, err
	}
	defer rc.Close()

	size, err = decodeConfig(rc)
	if err != nil {
		return Size{}, err
	}

	p.mu.Lock()
	p.cache[s.URL] = size
	p.mu.Unlock()
	return size, nil
}

func decodeConfig(r io.Reader) (Size, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return Size{}, fmt.Errorf("decode image header: %w", err)
	}
	return Size{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

func openRemote(ctx context.Context, src string) (io.ReadCloser, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(u.Scheme, "file") {
		return os.Open(u.Path)
	}
	return netx.Open(ctx, src)
}
