// Package server wires the photo page behind HTTP and gRPC: it opens the
// stores, mounts the gallery, serves the API and shuts everything down on
// SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/photowall/internal/backend"
	"github.com/dmitrijs2005/photowall/internal/dialog"
	"github.com/dmitrijs2005/photowall/internal/events"
	"github.com/dmitrijs2005/photowall/internal/gallery"
	"github.com/dmitrijs2005/photowall/internal/logging"
	"github.com/dmitrijs2005/photowall/internal/preview"
	"github.com/dmitrijs2005/photowall/internal/server/config"
	"github.com/dmitrijs2005/photowall/internal/server/httpapi"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/photowall/internal/server/grpc"
)

// openBackend is a test seam for backend.Open.
var openBackend = backend.Open

type App struct {
	config  *config.Config
	logger  logging.Logger
	backend *backend.Backend
	bus     *events.Bus
	gallery *gallery.Gallery
	detach  func()
	http    *http.Server
	grpc    *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	be, err := openBackend(ctx, c.Backend(), logger)
	if err != nil {
		return nil, fmt.Errorf("backend init error: %w", err)
	}

	bus := events.NewBus()
	g := gallery.New(be.Objects, be.Metadata, dialog.Headless{Logger: logger}, logger)
	h := httpapi.NewHandler(g, be.Objects, be.Metadata, bus, preview.NewRegistry(), logger, httpapi.Options{
		AllowedOrigins: c.Origins(),
		MaxUploadSize:  c.MaxUploadSize,
	})

	return &App{
		config:  c,
		logger:  logger,
		backend: be,
		bus:     bus,
		gallery: g,
		detach:  g.Attach(bus),
		http: &http.Server{
			Addr:              c.EndpointAddrHTTP,
			Handler:           h.Router(),
			ReadHeaderTimeout: 15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		grpc: gs.NewGRPCServer(c.EndpointAddrGRPC, logger),
	}, nil
}

// mount loads the gallery and reports the service healthy. A failed load
// keeps the server up with an empty gallery, NOT_SERVING until a reload
// succeeds.
func (app *App) mount(ctx context.Context) {
	if err := app.gallery.Load(ctx); err != nil {
		app.logger.Error(ctx, "gallery mount failed", "error", err)
		return
	}
	app.grpc.SetServing(true)
	app.logger.Info(ctx, "gallery mounted", "images", len(app.gallery.Images()))
}

func (app *App) serveHTTP(ctx context.Context, lis net.Listener) error {
	app.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())
	if err := app.http.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (app *App) shutdownHTTP(ctx context.Context) error {
	<-ctx.Done()
	app.logger.Info(ctx, "Stopping HTTP server...")
	app.grpc.SetServing(false)

	sctx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()
	return app.http.Shutdown(sctx)
}

// Run serves until ctx is done, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	defer app.close()

	app.logger.Info(ctx, "Starting app...")

	lis, err := net.Listen("tcp", app.config.EndpointAddrHTTP)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.config.EndpointAddrHTTP, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.grpc.Run(ctx) })
	g.Go(func() error { return app.serveHTTP(ctx, lis) })
	g.Go(func() error { return app.shutdownHTTP(ctx) })

	app.mount(ctx)

	return g.Wait()
}

func (app *App) close() {
	if app.detach != nil {
		app.detach()
	}
	if err := app.backend.Close(); err != nil {
		app.logger.Error(context.Background(), "backend close error", "error", err)
	}
}

// Logger builds the process logger from config.
func Logger(c *config.Config) logging.Logger {
	return logging.New(os.Stdout, c.LogFormat, c.LogLevel)
}
