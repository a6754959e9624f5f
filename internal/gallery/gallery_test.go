package gallery

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/photowall/internal/common"
	"github.com/dmitrijs2005/photowall/internal/events"
	"github.com/dmitrijs2005/photowall/internal/logging"
	"github.com/dmitrijs2005/photowall/internal/metadata"
	"github.com/dmitrijs2005/photowall/internal/models"
	"github.com/dmitrijs2005/photowall/internal/objectstore"
	"github.com/dmitrijs2005/photowall/internal/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// -------- test fakes --------

type fakeObjects struct {
	*objectstore.MemoryStore
	deleteErr error
	getErr    error
	deleted   []string
}

func (f *fakeObjects) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryStore.Delete(ctx, key)
}

func (f *fakeObjects) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemoryStore.Get(ctx, key)
}

type fakeMetadata struct {
	MetadataStore
	listErr   error
	updateErr error
	deleteErr error
	list      []models.ImageRecord
}

func (f *fakeMetadata) ListAll(ctx context.Context) ([]models.ImageRecord, error) {
	return f.list, f.listErr
}

func (f *fakeMetadata) UpdateCaption(ctx context.Context, id, caption string) (models.ImageRecord, error) {
	if f.updateErr != nil {
		return models.ImageRecord{}, f.updateErr
	}
	return models.ImageRecord{ID: id, Caption: caption}, nil
}

func (f *fakeMetadata) Delete(ctx context.Context, id string) error {
	return f.deleteErr
}

type scriptedDialog struct {
	confirm  bool
	alerts   []string
	confirms []string
}

func (d *scriptedDialog) Alert(ctx context.Context, msg string) { d.alerts = append(d.alerts, msg) }
func (d *scriptedDialog) Confirm(ctx context.Context, msg string) bool {
	d.confirms = append(d.confirms, msg)
	return d.confirm
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

// -------- helpers --------

var (
	t1 = time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)
	t2 = t1.Add(time.Hour)

	r1 = models.ImageRecord{ID: "r1.jpg", URL: "mem://photowall/r1.jpg", Caption: "Old Town", CreatedAt: t2}
	r2 = models.ImageRecord{ID: "r2.png", URL: "mem://photowall/r2.png", Caption: "Tatra", CreatedAt: t1}
)

func newMetadataService(t *testing.T) *metadata.Service {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	rm := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, rm.RunMigrations(context.Background(), db))
	return metadata.NewService(db, rm, logging.Nop())
}

// seeded returns a gallery over a real SQLite table holding R2 then R1.
func seeded(t *testing.T) (*Gallery, *fakeObjects, *metadata.Service, *scriptedDialog) {
	t.Helper()
	ctx := context.Background()

	meta := newMetadataService(t)
	objects := &fakeObjects{MemoryStore: objectstore.NewMemoryStore("")}
	for _, rec := range []models.ImageRecord{r2, r1} {
		require.NoError(t, meta.Insert(ctx, rec))
		require.NoError(t, objects.Put(ctx, rec.ID, strings.NewReader("bytes-"+rec.ID), int64(len("bytes-"+rec.ID)), "image/jpeg"))
	}

	dlg := &scriptedDialog{confirm: true}
	return New(objects, meta, dlg, logging.Nop()), objects, meta, dlg
}

func ids(recs []models.ImageRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

// -------- tests --------

func TestLoad_NewestFirst(t *testing.T) {
	g, _, _, dlg := seeded(t)
	assert.True(t, g.Loading())

	require.NoError(t, g.Load(context.Background()))

	assert.Equal(t, []models.ImageRecord{r1, r2}, g.Images())
	assert.False(t, g.Loading())
	assert.Empty(t, dlg.alerts)
}

func TestLoad_Failure_EmptiesListAndAlerts(t *testing.T) {
	meta := &fakeMetadata{list: []models.ImageRecord{r1}}
	dlg := &scriptedDialog{}
	g := New(&fakeObjects{MemoryStore: objectstore.NewMemoryStore("")}, meta, dlg, logging.Nop())
	require.NoError(t, g.Load(context.Background()))
	require.Len(t, g.Images(), 1)

	meta.listErr = errors.New("connection refused")
	err := g.Load(context.Background())
	require.ErrorContains(t, err, "connection refused")

	assert.Empty(t, g.Images())
	assert.False(t, g.Loading())
	assert.Equal(t, []string{FetchFailedMessage}, dlg.alerts)
}

func TestOnExternalInsert_Prepends(t *testing.T) {
	g, _, _, _ := seeded(t)
	require.NoError(t, g.Load(context.Background()))

	r3 := models.ImageRecord{ID: "r3.gif", URL: "mem://photowall/r3.gif", Caption: "new"}
	g.OnExternalInsert(r3)
	assert.Equal(t, []string{"r3.gif", "r1.jpg", "r2.png"}, ids(g.Images()))

	// duplicates are kept
	g.OnExternalInsert(r3)
	assert.Equal(t, []string{"r3.gif", "r3.gif", "r1.jpg", "r2.png"}, ids(g.Images()))
}

func TestAttach_ReceivesUploadsUntilDetached(t *testing.T) {
	g, _, _, _ := seeded(t)
	bus := events.NewBus()
	detach := g.Attach(bus)

	bus.Broadcast(context.Background(), events.ImageUploaded, models.ImageRecord{ID: "a"})
	assert.Equal(t, []string{"a"}, ids(g.Images()))

	detach()
	bus.Broadcast(context.Background(), events.ImageUploaded, models.ImageRecord{ID: "b"})
	assert.Equal(t, []string{"a"}, ids(g.Images()))
	assert.Zero(t, bus.Subscribers(events.ImageUploaded))
}

func TestOpenClose(t *testing.T) {
	g, _, _, _ := seeded(t)

	_, ok := g.Selected()
	assert.False(t, ok)
	assert.False(t, g.ScrollLocked())

	g.Open(r1)
	sel, ok := g.Selected()
	require.True(t, ok)
	assert.Equal(t, r1, sel)
	assert.True(t, g.ScrollLocked())

	g.Close()
	_, ok = g.Selected()
	assert.False(t, ok)
	assert.False(t, g.ScrollLocked())
}

func TestFind(t *testing.T) {
	g, _, _, _ := seeded(t)
	require.NoError(t, g.Load(context.Background()))

	rec, err := g.Find("1")
	require.NoError(t, err)
	assert.Equal(t, r1, rec)

	rec, err = g.Find(" r2.png ")
	require.NoError(t, err)
	assert.Equal(t, r2, rec)

	_, err = g.Find("3")
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = g.Find("0")
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = g.Find("nope.jpg")
	require.ErrorIs(t, err, common.ErrNotFound)
	_, err = g.Find("")
	require.ErrorIs(t, err, common.ErrInvalidImageRef)
}

func TestRemove_Declined(t *testing.T) {
	g, objects, _, dlg := seeded(t)
	require.NoError(t, g.Load(context.Background()))
	dlg.confirm = false

	removed, err := g.Remove(context.Background(), r1)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, []string{ConfirmDeleteMessage}, dlg.confirms)
	assert.Len(t, g.Images(), 2)
	assert.Equal(t, 2, objects.Len())
}

func TestRemove_DeletesRowAndObject_ClosesView(t *testing.T) {
	g, objects, _, _ := seeded(t)
	ctx := context.Background()
	require.NoError(t, g.Load(ctx))
	g.Open(r1)

	removed, err := g.Remove(ctx, r1)
	require.NoError(t, err)
	assert.True(t, removed)

	assert.Equal(t, []string{"r2.png"}, ids(g.Images()))
	_, ok := g.Selected()
	assert.False(t, ok)
	assert.False(t, g.ScrollLocked())
	assert.Equal(t, []string{"r1.jpg"}, objects.deleted)
	assert.Equal(t, 1, objects.Len())
}

func TestRemove_OtherRecordKeepsViewOpen(t *testing.T) {
	g, _, _, _ := seeded(t)
	require.NoError(t, g.Load(context.Background()))
	g.Open(r2)

	_, err := g.Remove(context.Background(), r1)
	require.NoError(t, err)

	sel, ok := g.Selected()
	require.True(t, ok)
	assert.Equal(t, r2.ID, sel.ID)
}

func TestRemove_ObjectDeleteFails_StillRemoved(t *testing.T) {
	g, objects, _, dlg := seeded(t)
	ctx := context.Background()
	require.NoError(t, g.Load(ctx))
	g.Open(r1)
	objects.deleteErr = errors.New("storage unavailable")

	removed, err := g.Remove(ctx, r1)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, dlg.alerts)
	_, ok := g.Selected()
	assert.False(t, ok)

	require.NoError(t, g.Load(ctx))
	assert.Equal(t, []string{"r2.png"}, ids(g.Images()))
}

func TestRemove_RowDeleteFails_StateUntouched(t *testing.T) {
	meta := &fakeMetadata{list: []models.ImageRecord{r1, r2}}
	objects := &fakeObjects{MemoryStore: objectstore.NewMemoryStore("")}
	dlg := &scriptedDialog{confirm: true}
	g := New(objects, meta, dlg, logging.Nop())
	require.NoError(t, g.Load(context.Background()))
	g.Open(r1)

	meta.deleteErr = errors.New("permission denied")
	removed, err := g.Remove(context.Background(), r1)
	require.ErrorContains(t, err, "permission denied")
	assert.False(t, removed)

	assert.Equal(t, []string{DeleteFailedMessage}, dlg.alerts)
	assert.Len(t, g.Images(), 2)
	assert.Empty(t, objects.deleted)
	_, ok := g.Selected()
	assert.True(t, ok)
}

func TestRemove_RowAlreadyGone(t *testing.T) {
	meta := &fakeMetadata{list: []models.ImageRecord{r1, r2}, deleteErr: common.ErrNotFound}
	objects := &fakeObjects{MemoryStore: objectstore.NewMemoryStore("")}
	g := New(objects, meta, &scriptedDialog{confirm: true}, logging.Nop())
	require.NoError(t, g.Load(context.Background()))

	removed, err := g.Remove(context.Background(), r1)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"r2.png"}, ids(g.Images()))
}

func TestRemove_UsesKeyFromURL(t *testing.T) {
	legacy := models.ImageRecord{ID: "42", URL: "https://x.supabase.co/storage/v1/object/public/poland-photos/0.123.jpg"}
	meta := &fakeMetadata{list: []models.ImageRecord{legacy}}
	objects := &fakeObjects{MemoryStore: objectstore.NewMemoryStore("")}
	g := New(objects, meta, &scriptedDialog{confirm: true}, logging.Nop())
	require.NoError(t, g.Load(context.Background()))

	_, err := g.Remove(context.Background(), legacy)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.123.jpg"}, objects.deleted)
}

func TestSaveCaption_UpdatesListAndView(t *testing.T) {
	g, _, meta, dlg := seeded(t)
	ctx := context.Background()
	require.NoError(t, g.Load(ctx))
	g.Open(r2)

	require.NoError(t, g.SaveCaption(ctx, r2, "Morskie Oko"))

	assert.Equal(t, "Morskie Oko", g.Images()[1].Caption)
	assert.Equal(t, "Old Town", g.Images()[0].Caption)
	sel, _ := g.Selected()
	assert.Equal(t, "Morskie Oko", sel.Caption)
	assert.Empty(t, dlg.alerts)

	list, err := meta.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Morskie Oko", list[1].Caption)
}

func TestSaveCaption_Failure_MutatesNothing(t *testing.T) {
	meta := &fakeMetadata{list: []models.ImageRecord{r1, r2}}
	dlg := &scriptedDialog{}
	g := New(&fakeObjects{MemoryStore: objectstore.NewMemoryStore("")}, meta, dlg, logging.Nop())
	require.NoError(t, g.Load(context.Background()))
	g.Open(r1)

	meta.updateErr = errors.New("timeout")
	err := g.SaveCaption(context.Background(), r1, "changed")
	require.ErrorContains(t, err, "timeout")

	assert.Equal(t, []models.ImageRecord{r1, r2}, g.Images())
	sel, _ := g.Selected()
	assert.Equal(t, "Old Town", sel.Caption)
	assert.Equal(t, []string{CaptionFailedMessage}, dlg.alerts)
}

func TestDownload(t *testing.T) {
	g, _, _, dlg := seeded(t)

	var buf bytes.Buffer
	n, err := g.Download(context.Background(), r1, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len("bytes-r1.jpg")), n)
	assert.Equal(t, "bytes-r1.jpg", buf.String())
	assert.Empty(t, dlg.alerts)
}

func TestDownload_Failures(t *testing.T) {
	g, objects, _, dlg := seeded(t)

	_, err := g.Download(context.Background(), r1, failingWriter{})
	require.ErrorContains(t, err, "disk full")

	objects.getErr = common.ErrNotFound
	_, err = g.Download(context.Background(), r1, io.Discard)
	require.ErrorIs(t, err, common.ErrNotFound)

	assert.Equal(t, []string{DownloadFailedMessage, DownloadFailedMessage}, dlg.alerts)
}
