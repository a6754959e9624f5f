package uploader

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/dmitrijs2005/photowall/internal/models"
	"github.com/dmitrijs2005/photowall/internal/objectstore"
)

// -------- test fakes --------

type fakeObjects struct {
	*objectstore.MemoryStore

	mu      sync.Mutex
	failOn  map[int]error
	calls   int
	started chan struct{}
	release chan struct{}
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{MemoryStore: objectstore.NewMemoryStore("https://cdn.example/poland-photos"), failOn: map[int]error{}}
}

func (f *fakeObjects) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	f.mu.Lock()
	f.calls++
	n := f.calls
	err := f.failOn[n]
	started, release := f.started, f.release
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}
	if err != nil {
		return err
	}
	return f.MemoryStore.Put(ctx, key, r, size, contentType)
}

type fakeMetadata struct {
	mu      sync.Mutex
	records []models.ImageRecord
	failOn  map[string]error
}

func (f *fakeMetadata) Insert(ctx context.Context, rec models.ImageRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn[rec.ID]; err != nil {
		return err
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeMetadata) all() []models.ImageRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ImageRecord(nil), f.records...)
}

type recordingDialog struct {
	mu     sync.Mutex
	alerts []string
}

func (d *recordingDialog) Alert(ctx context.Context, msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alerts = append(d.alerts, msg)
}

func (d *recordingDialog) Confirm(ctx context.Context, msg string) bool { return true }

func (d *recordingDialog) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.alerts)
}

type brokenFile struct{ name string }

func (b brokenFile) Name() string                 { return b.name }
func (b brokenFile) ContentType() string          { return "image/png" }
func (b brokenFile) Size() int64                  { return 3 }
func (b brokenFile) Open() (io.ReadCloser, error) { return nil, errors.New("permission denied") }
