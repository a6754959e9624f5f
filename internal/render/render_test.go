package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/photowall/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestParse(t *testing.T) {
	data := []byte("abc")
	inline := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	s, err := Parse(inline)
	require.NoError(t, err)
	assert.Equal(t, Inline, s.Kind)
	assert.Equal(t, "image/png", s.MediaType)
	assert.Equal(t, data, s.Data)

	for _, src := range []string{"https://cdn.example/a.jpg", "http://localhost:9000/b/a.jpg", "file:///tmp/objects/a.jpg"} {
		s, err := Parse(src)
		require.NoError(t, err, src)
		assert.Equal(t, Remote, s.Kind)
		assert.Equal(t, src, s.URL)
	}
}

func TestParse_Unsupported(t *testing.T) {
	for _, src := range []string{
		"mem://photowall/a.jpg",
		"blob:photowall/123",
		"data:image/png,rawbytes",
		"data:image/png;base64",
		"relative/path.jpg",
	} {
		_, err := Parse(src)
		require.ErrorIs(t, err, common.ErrUnsupportedSource, src)
	}

	_, err := Parse("data:image/png;base64,!!!")
	require.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "inline", Inline.String())
	assert.Equal(t, "remote", Remote.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestProber_Inline(t *testing.T) {
	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 4, 3))

	size, err := NewProber().Size(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 4, Height: 3, Format: "png"}, size)
	assert.Equal(t, "4x3 png", size.String())
}

func TestProber_HTTP_CachesResult(t *testing.T) {
	body := pngBytes(t, 8, 6)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	p := NewProber()
	src := srv.URL + "/poland-photos/a.png"

	for i := 0; i < 3; i++ {
		size, err := p.Size(context.Background(), src)
		require.NoError(t, err)
		assert.Equal(t, 8, size.Width)
		assert.Equal(t, 6, size.Height)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestProber_HTTP_ErrorNotCached(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	body := pngBytes(t, 2, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "nope", http.StatusNotFound)
			return
		}
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	p := NewProber()
	_, err := p.Size(context.Background(), srv.URL+"/a.png")
	require.ErrorContains(t, err, "404")

	fail.Store(false)
	size, err := p.Size(context.Background(), srv.URL+"/a.png")
	require.NoError(t, err)
	assert.Equal(t, 2, size.Width)
}

func TestProber_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 5, 7), 0o600))

	src := (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
	size, err := NewProber().Size(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 5, Height: 7, Format: "png"}, size)
}

func TestProber_NotAnImage(t *testing.T) {
	p := NewProber()
	p.open = func(ctx context.Context, src string) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader([]byte("plain text"))), nil
	}
	_, err := p.Size(context.Background(), "https://cdn.example/a.txt")
	require.ErrorContains(t, err, "decode image header")
}

func TestProber_OpenError(t *testing.T) {
	p := NewProber()
	p.open = func(ctx context.Context, src string) (io.ReadCloser, error) {
		return nil, errors.New("dial tcp: refused")
	}
	_, err := p.Size(context.Background(), "https://cdn.example/a.jpg")
	require.EqualError(t, err, "dial tcp: refused")
}
