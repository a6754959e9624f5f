package objectstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/photowall/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMinio answers the handful of S3 calls MinioStore makes.
type fakeMinio struct {
	mu      sync.Mutex
	policy  string
	objects map[string]string
	calls   []string
}

func (f *fakeMinio) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := strings.Trim(r.URL.Path, "/")
	f.calls = append(f.calls, r.Method+" "+p)

	switch {
	case r.Method == http.MethodHead && p == "poland-photos":
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && r.URL.Query().Has("policy"):
		b, _ := io.ReadAll(r.Body)
		f.policy = string(b)
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodPut:
		b, _ := io.ReadAll(r.Body)
		f.objects[p] = string(b)
		w.Header().Set("ETag", `"0123456789abcdef0123456789abcdef"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodDelete:
		delete(f.objects, p)
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodHead:
		w.WriteHeader(http.StatusNotFound)
	default:
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
	}
}

func newMinioWithFake(t *testing.T) (*MinioStore, *fakeMinio) {
	t.Helper()
	fake := &fakeMinio{objects: map[string]string{}}
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)

	u, err := url.Parse(ts.URL)
	require.NoError(t, err)

	s, err := NewMinioStore(context.Background(), MinioConfig{
		Endpoint:  u.Host,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "poland-photos",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	return s, fake
}

func TestNewMinioStore_SetsPublicReadPolicy(t *testing.T) {
	s, fake := newMinioWithFake(t)

	var policy map[string]any
	require.NoError(t, json.Unmarshal([]byte(fake.policy), &policy))
	stmt := policy["Statement"].([]any)[0].(map[string]any)
	assert.Equal(t, "s3:GetObject", stmt["Action"])
	assert.Equal(t, "arn:aws:s3:::poland-photos/*", stmt["Resource"])

	assert.True(t, strings.HasPrefix(s.PublicURL("k.jpg"), "http://127.0.0.1:"))
	assert.True(t, strings.HasSuffix(s.PublicURL("k.jpg"), "/poland-photos/k.jpg"))
}

func TestMinioStore_PutAndDelete(t *testing.T) {
	s, fake := newMinioWithFake(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k.png", strings.NewReader("png"), 3, "image/png"))
	assert.Contains(t, fake.objects, "poland-photos/k.png")

	require.NoError(t, s.Delete(ctx, "k.png"))
	assert.NotContains(t, fake.objects, "poland-photos/k.png")

	require.ErrorIs(t, s.Put(ctx, "", strings.NewReader(""), 0, ""), common.ErrEmptyStorageKey)
}

func TestMinioStore_MissingObject(t *testing.T) {
	s, _ := newMinioWithFake(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "missing.png")
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.Stat(ctx, "missing.png")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestPublicReadPolicy(t *testing.T) {
	var policy struct {
		Version   string
		Statement []struct {
			Effect    string
			Principal string
			Action    string
			Resource  string
		}
	}
	require.NoError(t, json.Unmarshal([]byte(publicReadPolicy("b")), &policy))
	require.Len(t, policy.Statement, 1)
	assert.Equal(t, "Allow", policy.Statement[0].Effect)
	assert.Equal(t, "*", policy.Statement[0].Principal)
	assert.Equal(t, "arn:aws:s3:::b/*", policy.Statement[0].Resource)
}
