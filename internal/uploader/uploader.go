// Package uploader owns the pending set of local images and pushes them to
// the object store and the metadata table on submission.
package uploader

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/photowall/internal/common"
	"github.com/dmitrijs2005/photowall/internal/dialog"
	"github.com/dmitrijs2005/photowall/internal/events"
	"github.com/dmitrijs2005/photowall/internal/localfile"
	"github.com/dmitrijs2005/photowall/internal/logging"
	"github.com/dmitrijs2005/photowall/internal/models"
	"github.com/dmitrijs2005/photowall/internal/objectstore"
	"github.com/dmitrijs2005/photowall/internal/preview"
)

// UploadFailedMessage is shown once when SubmitAll stops on an error.
const UploadFailedMessage = "Failed to upload image. Please try again."

type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PublicURL(key string) string
}

type MetadataStore interface {
	Insert(ctx context.Context, rec models.ImageRecord) error
}

type Broadcaster interface {
	Broadcast(ctx context.Context, name events.Name, rec models.ImageRecord)
}

// PendingUpload is a selected file that has not been uploaded yet.
type PendingUpload struct {
	File    localfile.File
	Preview *preview.Handle
	Caption string
}

// PendingView is a read-only copy of a pending entry.
type PendingView struct {
	Index       int
	Name        string
	ContentType string
	Size        int64
	PreviewURL  string
	Preview     *preview.Handle
	Caption     string
}

type Uploader struct {
	objects  ObjectStore
	metadata MetadataStore
	bus      Broadcaster
	dialog   dialog.Dialog
	previews *preview.Registry
	logger   logging.Logger

	now    func() time.Time
	newKey func(filename string) string

	mu       sync.Mutex
	pending  []*PendingUpload
	inFlight bool
}

func New(objects ObjectStore, metadata MetadataStore, bus Broadcaster, dlg dialog.Dialog,
	previews *preview.Registry, logger logging.Logger) *Uploader {
	return &Uploader{
		objects:  objects,
		metadata: metadata,
		bus:      bus,
		dialog:   dlg,
		previews: previews,
		logger:   logger.With("module", "uploader"),
		now:      time.Now,
		newKey:   objectstore.NewKey,
	}
}

// AcceptFiles appends every image among files to the pending set, in order,
// and returns how many were accepted. Other files are ignored.
func (u *Uploader) AcceptFiles(files ...localfile.File) int {
	accepted := make([]*PendingUpload, 0, len(files))
	for _, f := range files {
		if f == nil || !localfile.IsImage(f) {
			continue
		}
		accepted = append(accepted, &PendingUpload{File: f, Preview: u.previews.Create(f)})
	}

	u.mu.Lock()
	u.pending = append(u.pending, accepted...)
	u.mu.Unlock()

	return len(accepted)
}

func (u *Uploader) entry(index int) (*PendingUpload, error) {
	if u.inFlight {
		return nil, common.ErrSubmissionInFlight
	}
	if index < 0 || index >= len(u.pending) {
		return nil, fmt.Errorf("%w: %d", common.ErrIndexOutOfRange, index)
	}
	return u.pending[index], nil
}

// RemovePending drops the entry at index and releases its preview.
func (u *Uploader) RemovePending(index int) error {
	u.mu.Lock()
	p, err := u.entry(index)
	if err != nil {
		u.mu.Unlock()
		return err
	}
	u.pending = append(u.pending[:index:index], u.pending[index+1:]...)
	u.mu.Unlock()

	p.Preview.Release()
	return nil
}

func (u *Uploader) UpdateCaption(index int, text string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	p, err := u.entry(index)
	if err != nil {
		return err
	}
	p.Caption = text
	return nil
}

// Cancel releases every preview and empties the pending set.
func (u *Uploader) Cancel() error {
	u.mu.Lock()
	if u.inFlight {
		u.mu.Unlock()
		return common.ErrSubmissionInFlight
	}
	dropped := u.pending
	u.pending = nil
	u.mu.Unlock()

	for _, p := range dropped {
		p.Preview.Release()
	}
	return nil
}

func (u *Uploader) Pending() []PendingView {
	u.mu.Lock()
	defer u.mu.Unlock()

	out := make([]PendingView, len(u.pending))
	for i, p := range u.pending {
		out[i] = PendingView{
			Index:       i,
			Name:        p.File.Name(),
			ContentType: p.File.ContentType(),
			Size:        p.File.Size(),
			PreviewURL:  p.Preview.URL(),
			Preview:     p.Preview,
			Caption:     p.Caption,
		}
	}
	return out
}

func (u *Uploader) InFlight() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.inFlight
}

type job struct {
	entry   *PendingUpload
	caption string
}

// SubmitAll uploads the pending entries one by one: object first, then the
// metadata row, then an events.ImageUploaded broadcast. It stops at the
// first failure, alerting the user once; that entry and the ones after it
// stay pending. It returns the records inserted by this call.
//
// SubmitAll does nothing when the set is empty or another submission is
// running.
func (u *Uploader) SubmitAll(ctx context.Context) ([]models.ImageRecord, error) {
	u.mu.Lock()
	if u.inFlight || len(u.pending) == 0 {
		u.mu.Unlock()
		return nil, nil
	}
	u.inFlight = true
	jobs := make([]job, len(u.pending))
	for i, p := range u.pending {
		jobs[i] = job{entry: p, caption: p.Caption}
	}
	u.mu.Unlock()

	var (
		done    = make(map[*PendingUpload]struct{}, len(jobs))
		records = make([]models.ImageRecord, 0, len(jobs))
	)

	defer func() {
		u.mu.Lock()
		kept := u.pending[:0]
		for _, p := range u.pending {
			if _, ok := done[p]; !ok {
				kept = append(kept, p)
			}
		}
		clear(u.pending[len(kept):])
		u.pending = kept
		u.inFlight = false
		u.mu.Unlock()

		for p := range done {
			p.Preview.Release()
		}
	}()

	for _, j := range jobs {
		rec, err := u.submit(ctx, j)
		if err != nil {
			u.logger.Error(ctx, "upload failed", "file", j.entry.File.Name(), "error", err)
			u.dialog.Alert(ctx, UploadFailedMessage)
			return records, fmt.Errorf("upload %s: %w", j.entry.File.Name(), err)
		}
		done[j.entry] = struct{}{}
		records = append(records, rec)
		u.bus.Broadcast(ctx, events.ImageUploaded, rec)
	}

	u.logger.Info(ctx, "upload finished", "count", len(records))
	return records, nil
}

func (u *Uploader) submit(ctx context.Context, j job) (models.ImageRecord, error) {
	f := j.entry.File
	key := u.newKey(f.Name())

	r, err := f.Open()
	if err != nil {
		return models.ImageRecord{}, fmt.Errorf("open: %w", err)
	}
	err = u.objects.Put(ctx, key, r, f.Size(), f.ContentType())
	_ = r.Close()
	if err != nil {
		return models.ImageRecord{}, fmt.Errorf("put object: %w", err)
	}

	rec := models.ImageRecord{
		ID:        key,
		URL:       u.objects.PublicURL(key),
		Caption:   models.CaptionOrDefault(j.caption),
		CreatedAt: u.now().UTC(),
	}
	if err := u.metadata.Insert(ctx, rec); err != nil {
		return models.ImageRecord{}, fmt.Errorf("insert metadata: %w", err)
	}

	u.logger.Debug(ctx, "image uploaded", "id", rec.ID, "file", f.Name())
	return rec, nil
}
