package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/photowall/internal/backend"
	"github.com/dmitrijs2005/photowall/internal/buildinfo"
	"github.com/dmitrijs2005/photowall/internal/client/config"
	"github.com/dmitrijs2005/photowall/internal/client/dropzone"
	"github.com/dmitrijs2005/photowall/internal/events"
	"github.com/dmitrijs2005/photowall/internal/gallery"
	"github.com/dmitrijs2005/photowall/internal/localfile"
	"github.com/dmitrijs2005/photowall/internal/logging"
	"github.com/dmitrijs2005/photowall/internal/preview"
	"github.com/dmitrijs2005/photowall/internal/render"
	"github.com/dmitrijs2005/photowall/internal/uploader"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	out     io.Writer
	scanner *bufio.Scanner

	backend  *backend.Backend
	bus      *events.Bus
	previews *preview.Registry
	uploader *uploader.Uploader
	gallery  *gallery.Gallery
	prober   *render.Prober
	header   *Header
	feed     *feed
	detach   []func()

	mu       sync.Mutex
	dropzone *dropzone.Watcher
}

// NewApp opens the configured stores and builds the page on top of them.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer, logger logging.Logger) (*App, error) {
	be, err := backend.Open(ctx, c.Backend(), logger)
	if err != nil {
		return nil, fmt.Errorf("backend init error: %w", err)
	}

	app, err := newApp(c, be, in, out, logger)
	if err != nil {
		_ = be.Close()
		return nil, err
	}
	return app, nil
}

func newApp(c *config.Config, be *backend.Backend, in io.Reader, out io.Writer, logger logging.Logger) (*App, error) {
	header, err := NewHeader(c.Theme)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(in)
	dlg := &termDialog{scanner: scanner, out: out}
	bus := events.NewBus()
	previews := preview.NewRegistry()

	a := &App{
		config:   c,
		logger:   logger,
		out:      out,
		scanner:  scanner,
		backend:  be,
		bus:      bus,
		previews: previews,
		uploader: uploader.New(be.Objects, be.Metadata, bus, dlg, previews, logger),
		gallery:  gallery.New(be.Objects, be.Metadata, dlg, logger),
		prober:   render.NewProber(),
		header:   header,
	}
	a.feed = &feed{out: out, locked: a.gallery.ScrollLocked}

	a.detach = append(a.detach,
		a.gallery.Attach(bus),
		bus.Subscribe(events.ImageUploaded, a.feed.onUpload),
	)
	return a, nil
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) status() string {
	return fmt.Sprintf("(%d images, %d pending, %s)", len(a.gallery.Images()), len(a.uploader.Pending()), a.header.Mode())
}

// acceptDropped is the dropzone callback.
func (a *App) acceptDropped(files ...localfile.File) int {
	n := a.uploader.AcceptFiles(files...)
	if n > 0 {
		a.feed.post(formatInfo(fmt.Sprintf("%d file(s) dropped, %d pending. Type 'upload' to send them.", n, len(a.uploader.Pending()))))
	}
	return n
}

// Run mounts the gallery and blocks in the REPL until the user exits or
// input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Shutdown()

	fmt.Fprintln(a.out, StyleTitle.Render("photowall "+buildinfo.Version())+" "+StyleMuted.Render("(type 'help' for commands)"))

	loadCtx, cancel := a.withTimeout(ctx)
	if err := a.gallery.Load(loadCtx); err == nil {
		fmt.Fprintln(a.out, renderGrid(a.gallery.Images(), termWidth()))
	}
	cancel()

	if a.config.WatchDir != "" {
		if err := a.Watch(ctx, []string{a.config.WatchDir}); err != nil {
			fmt.Fprintln(a.out, formatError(err.Error()))
		}
	}

	runREPL(ctx, a, a.status, a.scanner)
	return nil
}

// Shutdown stops the drop folder watcher, releases pending previews and
// closes the stores.
func (a *App) Shutdown() error {
	var errs []error

	a.mu.Lock()
	if a.dropzone != nil {
		errs = append(errs, a.dropzone.Close())
		a.dropzone = nil
	}
	a.mu.Unlock()

	for _, d := range a.detach {
		d()
	}
	a.detach = nil

	if err := a.uploader.Cancel(); err != nil {
		a.logger.Warn(context.Background(), "pending previews not released", "error", err)
	}

	if a.backend != nil {
		errs = append(errs, a.backend.Close())
		a.backend = nil
	}
	return errors.Join(errs...)
}
