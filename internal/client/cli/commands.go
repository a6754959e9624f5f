package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/photowall/internal/client/dropzone"
	"github.com/dmitrijs2005/photowall/internal/common"
	"github.com/dmitrijs2005/photowall/internal/filex"
	"github.com/dmitrijs2005/photowall/internal/gallery"
	"github.com/dmitrijs2005/photowall/internal/localfile"
	"github.com/dmitrijs2005/photowall/internal/models"
	"github.com/dmitrijs2005/photowall/internal/objectstore"
	"github.com/dmitrijs2005/photowall/internal/uploader"
)

// Component methods alert the user themselves when a store call fails, so
// the commands below only log those errors and return nil.

func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("add <path|glob>...")
	}

	paths, err := expandPaths(args)
	if err != nil {
		return err
	}

	files := make([]localfile.File, 0, len(paths))
	for _, p := range paths {
		f, err := localfile.FromPath(p)
		if err != nil {
			fmt.Fprintln(a.out, formatError(err.Error()))
			continue
		}
		files = append(files, f)
	}

	n := a.uploader.AcceptFiles(files...)
	if skipped := len(files) - n; skipped > 0 {
		fmt.Fprintln(a.out, formatInfo(fmt.Sprintf("%d file(s) skipped (not an image)", skipped)))
	}
	a.showPending(ctx)
	return nil
}

func (a *App) Pending(ctx context.Context, args []string) error {
	a.showPending(ctx)
	return nil
}

func (a *App) showPending(ctx context.Context) {
	views := a.uploader.Pending()
	fmt.Fprintln(a.out, renderPending(views, a.previewSizes(ctx, views)))
}

// previewSizes measures each pending file from its inline preview.
func (a *App) previewSizes(ctx context.Context, views []uploader.PendingView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		if v.Preview == nil {
			continue
		}
		src, err := v.Preview.DataURL()
		if err != nil {
			a.logger.Debug(ctx, "preview unavailable", "name", v.Name, "error", err)
			continue
		}
		size, err := a.prober.Size(ctx, src)
		if err != nil {
			a.logger.Debug(ctx, "preview size unavailable", "name", v.Name, "error", err)
			out[i] = "dimensions unavailable"
			continue
		}
		out[i] = size.String()
	}
	return out
}

func (a *App) Caption(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("caption <n> <text>")
	}
	i, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	if err := a.uploader.UpdateCaption(i, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	a.showPending(ctx)
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("remove <n>")
	}
	i, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	if err := a.uploader.RemovePending(i); err != nil {
		return err
	}
	a.showPending(ctx)
	return nil
}

func (a *App) Cancel(ctx context.Context, args []string) error {
	if err := a.uploader.Cancel(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, formatInfo("Pending uploads cleared."))
	return nil
}

func (a *App) Upload(ctx context.Context, args []string) error {
	if a.uploader.InFlight() {
		return common.ErrSubmissionInFlight
	}
	if len(a.uploader.Pending()) == 0 {
		fmt.Fprintln(a.out, formatInfo("Nothing to upload."))
		return nil
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	records, err := a.uploader.SubmitAll(ctx)
	if len(records) > 0 {
		fmt.Fprintln(a.out, formatSuccess(fmt.Sprintf("%d image(s) uploaded.", len(records))))
	}
	if err != nil {
		a.logger.Debug(ctx, "upload stopped", "error", err)
		fmt.Fprintln(a.out, formatInfo(fmt.Sprintf("%d file(s) still pending.", len(a.uploader.Pending()))))
	}
	return nil
}

func (a *App) List(ctx context.Context, args []string) error {
	if a.gallery.Loading() {
		fmt.Fprintln(a.out, formatInfo("Loading..."))
		return nil
	}
	fmt.Fprintln(a.out, renderGrid(a.gallery.Images(), termWidth()))
	return nil
}

func (a *App) Reload(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.gallery.Load(ctx); err != nil {
		a.logger.Debug(ctx, "reload failed", "error", err)
		return nil
	}
	fmt.Fprintln(a.out, renderGrid(a.gallery.Images(), termWidth()))
	return nil
}

func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("open <n|id>")
	}
	rec, err := a.gallery.Find(args[0])
	if err != nil {
		return err
	}

	a.gallery.Open(rec)
	fmt.Fprintln(a.out, renderLightbox(rec, a.details(ctx, rec), termWidth()))
	return nil
}

// details collects what the lightbox shows under the URL. Missing
// information is reported, never fatal.
func (a *App) details(ctx context.Context, rec models.ImageRecord) []string {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	var out []string
	if !rec.CreatedAt.IsZero() {
		out = append(out, "uploaded "+rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}

	if size, err := a.prober.Size(ctx, rec.URL); err == nil {
		out = append(out, size.String())
	} else {
		a.logger.Debug(ctx, "image size unavailable", "url", rec.URL, "error", err)
		out = append(out, "dimensions unavailable")
	}

	if st, ok := a.backend.Objects.(objectstore.Statter); ok {
		if info, err := st.Stat(ctx, rec.ObjectKey()); err == nil {
			out = append(out, fmt.Sprintf("%s, %d bytes", info.ContentType, info.Size))
		}
	}
	return out
}

func (a *App) Close(ctx context.Context, args []string) error {
	a.gallery.Close()
	a.feed.flush()
	return nil
}

// target resolves the optional leading reference of edit and download.
// When args[0] is not a known image the open one is used and args are
// returned untouched.
func (a *App) target(args []string) (models.ImageRecord, []string, error) {
	var findErr error
	if len(args) > 0 {
		rec, err := a.gallery.Find(args[0])
		if err == nil {
			return rec, args[1:], nil
		}
		findErr = err
	}
	if rec, ok := a.gallery.Selected(); ok {
		return rec, args, nil
	}
	if findErr != nil {
		return models.ImageRecord{}, nil, findErr
	}
	return models.ImageRecord{}, nil, common.ErrNothingSelected
}

func (a *App) selected() (models.ImageRecord, error) {
	rec, ok := a.gallery.Selected()
	if !ok {
		return models.ImageRecord{}, common.ErrNothingSelected
	}
	return rec, nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("edit [n|id] <text>")
	}

	var (
		rec  models.ImageRecord
		rest []string
		err  error
	)
	if len(args) > 1 {
		rec, rest, err = a.target(args)
	} else {
		rec, err = a.selected()
		rest = args
	}
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.gallery.SaveCaption(ctx, rec, strings.Join(rest, " ")); err != nil {
		a.logger.Debug(ctx, "caption not saved", "error", err)
		return nil
	}
	fmt.Fprintln(a.out, formatSuccess("Caption saved."))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return usage("delete [n|id]")
	}

	var (
		rec models.ImageRecord
		err error
	)
	if len(args) == 1 {
		rec, err = a.gallery.Find(args[0])
	} else {
		rec, err = a.selected()
	}
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	removed, err := a.gallery.Remove(ctx, rec)
	if err != nil {
		a.logger.Debug(ctx, "image not deleted", "error", err)
		return nil
	}
	if removed {
		fmt.Fprintln(a.out, formatSuccess("Image deleted."))
		if !a.gallery.ScrollLocked() {
			a.feed.flush()
		}
	}
	return nil
}

func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) > 2 {
		return usage("download [n|id] [dir]")
	}

	var (
		rec  models.ImageRecord
		rest []string
		err  error
	)
	if len(args) == 2 {
		rec, err = a.gallery.Find(args[0])
		rest = args[1:]
	} else {
		rec, rest, err = a.target(args)
	}
	if err != nil {
		return err
	}

	dir := "."
	if len(rest) > 0 {
		dir = rest[0]
	}
	dir, err = filex.EnsureDir(dir)
	if err != nil {
		return err
	}
	path, err := filex.UniquePath(dir, gallery.DownloadName(rec))
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	n, err := a.gallery.Download(ctx, rec, f)
	closeErr := f.Close()
	if err != nil || closeErr != nil {
		_ = os.Remove(path)
		if err == nil {
			return fmt.Errorf("write %s: %w", path, closeErr)
		}
		a.logger.Debug(ctx, "download failed", "error", err)
		return nil
	}

	fmt.Fprintln(a.out, formatSuccess(fmt.Sprintf("Saved %s (%d bytes).", path, n)))
	return nil
}

func (a *App) Watch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("watch <dir>")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.dropzone != nil {
		return fmt.Errorf("already watching %s, use 'unwatch' first", a.dropzone.Dir())
	}

	w, err := dropzone.Watch(ctx, args[0], dropzone.DefaultSettle, a.acceptDropped, a.logger)
	if err != nil {
		return err
	}
	a.dropzone = w
	fmt.Fprintln(a.out, formatInfo("Watching "+w.Dir()+" for new images."))
	return nil
}

func (a *App) Unwatch(ctx context.Context, args []string) error {
	a.mu.Lock()
	w := a.dropzone
	a.dropzone = nil
	a.mu.Unlock()

	if w == nil {
		return errors.New("not watching any folder")
	}
	if err := w.Close(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, formatInfo("Stopped watching "+w.Dir()+"."))
	return nil
}

func (a *App) Theme(ctx context.Context, args []string) error {
	switch len(args) {
	case 0:
		a.header.Toggle()
	case 1:
		if err := a.header.Set(strings.ToLower(args[0])); err != nil {
			return err
		}
	default:
		return usage("theme [light|dark|auto]")
	}
	fmt.Fprintln(a.out, formatInfo("Theme: "+a.header.Mode()))
	return nil
}
