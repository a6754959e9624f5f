// Package gallery keeps the in-memory mirror of the image table and runs the
// lightbox actions (caption edit, delete, download) against the stores.
//
// The mirror is refreshed only by Load, upload notifications and the
// gallery's own mutations; changes made elsewhere are not seen until the
// next Load.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/photowall/internal/common"
	"github.com/dmitrijs2005/photowall/internal/dialog"
	"github.com/dmitrijs2005/photowall/internal/events"
	"github.com/dmitrijs2005/photowall/internal/logging"
	"github.com/dmitrijs2005/photowall/internal/models"
)

const (
	FetchFailedMessage    = "Failed to fetch images. Please refresh the page."
	DeleteFailedMessage   = "Failed to delete image. Please try again."
	CaptionFailedMessage  = "Failed to update caption. Please try again."
	DownloadFailedMessage = "Failed to download image. Please try again."

	ConfirmDeleteMessage = "Are you sure you want to delete this image?"
)

type ObjectStore interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

type MetadataStore interface {
	ListAll(ctx context.Context) ([]models.ImageRecord, error)
	UpdateCaption(ctx context.Context, id, caption string) (models.ImageRecord, error)
	Delete(ctx context.Context, id string) error
}

type Subscriber interface {
	Subscribe(name events.Name, h events.Handler) (unsubscribe func())
}

type Gallery struct {
	objects  ObjectStore
	metadata MetadataStore
	dialog   dialog.Dialog
	logger   logging.Logger

	mu           sync.RWMutex
	images       []models.ImageRecord
	selected     *models.ImageRecord
	scrollLocked bool
	loading      bool
}

// New returns a gallery in the loading state; call Load to mount it.
func New(objects ObjectStore, metadata MetadataStore, dlg dialog.Dialog, logger logging.Logger) *Gallery {
	return &Gallery{
		objects:  objects,
		metadata: metadata,
		dialog:   dlg,
		logger:   logger.With("module", "gallery"),
		loading:  true,
	}
}

// Load replaces the list with every record, newest first. On failure the
// list is left empty.
func (g *Gallery) Load(ctx context.Context) error {
	g.mu.Lock()
	g.loading = true
	g.mu.Unlock()

	list, err := g.metadata.ListAll(ctx)

	g.mu.Lock()
	g.loading = false
	if err != nil {
		g.images = nil
	} else {
		g.images = list
	}
	g.mu.Unlock()

	if err != nil {
		g.logger.Error(ctx, "error fetching images", "error", err)
		g.dialog.Alert(ctx, FetchFailedMessage)
		return fmt.Errorf("load images: %w", err)
	}
	g.logger.Debug(ctx, "images loaded", "count", len(list))
	return nil
}

// OnExternalInsert puts rec at the front of the list. Repeated
// notifications produce repeated entries.
func (g *Gallery) OnExternalInsert(rec models.ImageRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()

	images := make([]models.ImageRecord, 0, len(g.images)+1)
	images = append(images, rec)
	g.images = append(images, g.images...)
}

// Attach subscribes the gallery to upload notifications on bus.
func (g *Gallery) Attach(bus Subscriber) (detach func()) {
	return bus.Subscribe(events.ImageUploaded, func(ctx context.Context, rec models.ImageRecord) {
		g.OnExternalInsert(rec)
	})
}

func (g *Gallery) Open(rec models.ImageRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selected = &rec
	g.scrollLocked = true
}

func (g *Gallery) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.close()
}

func (g *Gallery) close() {
	g.selected = nil
	g.scrollLocked = false
}

// Selected returns the record shown in the detail view.
func (g *Gallery) Selected() (models.ImageRecord, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.selected == nil {
		return models.ImageRecord{}, false
	}
	return *g.selected, true
}

// ScrollLocked reports whether background output should be held back.
func (g *Gallery) ScrollLocked() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scrollLocked
}

func (g *Gallery) Loading() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loading
}

func (g *Gallery) Images() []models.ImageRecord {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]models.ImageRecord(nil), g.images...)
}

// Find resolves ref as a 1-based list position or as an image id.
func (g *Gallery) Find(ref string) (models.ImageRecord, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.ImageRecord{}, common.ErrInvalidImageRef
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(g.images) {
			return models.ImageRecord{}, fmt.Errorf("position %d: %w", n, common.ErrNotFound)
		}
		return g.images[n-1], nil
	}
	for _, rec := range g.images {
		if rec.ID == ref {
			return rec, nil
		}
	}
	return models.ImageRecord{}, fmt.Errorf("image %q: %w", ref, common.ErrNotFound)
}

// Remove deletes rec after the user confirms. The metadata row goes first;
// the backing object is deleted best-effort and a failure there is only
// logged. It reports whether the record was removed.
func (g *Gallery) Remove(ctx context.Context, rec models.ImageRecord) (bool, error) {
	if !g.dialog.Confirm(ctx, ConfirmDeleteMessage) {
		return false, nil
	}

	if err := g.metadata.Delete(ctx, rec.ID); err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			g.logger.Error(ctx, "error deleting image", "id", rec.ID, "error", err)
			g.dialog.Alert(ctx, DeleteFailedMessage)
			return false, fmt.Errorf("delete image %s: %w", rec.ID, err)
		}
		g.logger.Warn(ctx, "image row already gone", "id", rec.ID)
	}

	key := rec.ObjectKey()
	if err := g.objects.Delete(ctx, key); err != nil {
		g.logger.Warn(ctx, "storage deletion error", "key", key, "error", err)
	}

	g.mu.Lock()
	kept := make([]models.ImageRecord, 0, len(g.images))
	for _, r := range g.images {
		if r.ID != rec.ID {
			kept = append(kept, r)
		}
	}
	g.images = kept
	if g.selected != nil && g.selected.ID == rec.ID {
		g.close()
	}
	g.mu.Unlock()

	return true, nil
}

// SaveCaption stores a new caption for rec and mirrors it locally.
func (g *Gallery) SaveCaption(ctx context.Context, rec models.ImageRecord, text string) error {
	updated, err := g.metadata.UpdateCaption(ctx, rec.ID, text)
	if err != nil {
		g.logger.Error(ctx, "error updating caption", "id", rec.ID, "error", err)
		g.dialog.Alert(ctx, CaptionFailedMessage)
		return fmt.Errorf("update caption %s: %w", rec.ID, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.images {
		if g.images[i].ID == rec.ID {
			g.images[i].Caption = updated.Caption
		}
	}
	if g.selected != nil && g.selected.ID == rec.ID {
		g.selected.Caption = updated.Caption
	}
	return nil
}

// Download copies the original bytes of rec to w.
func (g *Gallery) Download(ctx context.Context, rec models.ImageRecord, w io.Writer) (int64, error) {
	key := rec.ObjectKey()
	rc, err := g.objects.Get(ctx, key)
	if err != nil {
		g.logger.Error(ctx, "error downloading image", "key", key, "error", err)
		g.dialog.Alert(ctx, DownloadFailedMessage)
		return 0, fmt.Errorf("download %s: %w", key, err)
	}
	defer rc.Close()

	n, err := io.Copy(w, rc)
	if err != nil {
		g.logger.Error(ctx, "error downloading image", "key", key, "error", err)
		g.dialog.Alert(ctx, DownloadFailedMessage)
		return n, fmt.Errorf("download %s: %w", key, err)
	}
	return n, nil
}
