// Package httpapi is the HTTP front end of the photo page: a JSON API over
// the gallery and uploader, plus a websocket feed of upload notifications.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/photowall/internal/common"
	"github.com/dmitrijs2005/photowall/internal/dialog"
	"github.com/dmitrijs2005/photowall/internal/events"
	"github.com/dmitrijs2005/photowall/internal/gallery"
	"github.com/dmitrijs2005/photowall/internal/logging"
	"github.com/dmitrijs2005/photowall/internal/models"
	"github.com/dmitrijs2005/photowall/internal/objectstore"
	"github.com/dmitrijs2005/photowall/internal/preview"
	"github.com/dmitrijs2005/photowall/internal/uploader"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options tune the router.
type Options struct {
	AllowedOrigins []string
	MaxUploadSize  int64
}

// MetadataStore is the image table as seen by the handler.
type MetadataStore interface {
	uploader.MetadataStore
	Get(ctx context.Context, id string) (models.ImageRecord, error)
}

type Handler struct {
	gallery  *gallery.Gallery
	objects  objectstore.Store
	metadata MetadataStore
	bus      *events.Bus
	previews *preview.Registry
	logger   logging.Logger
	opts     Options
}

func NewHandler(g *gallery.Gallery, objects objectstore.Store, metadata MetadataStore,
	bus *events.Bus, previews *preview.Registry, logger logging.Logger, opts Options) *Handler {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = 32 << 20
	}
	return &Handler{
		gallery:  g,
		objects:  objects,
		metadata: metadata,
		bus:      bus,
		previews: previews,
		logger:   logger.With("module", "httpapi"),
		opts:     opts,
	}
}

// Router builds the chi router with the standard middleware stack.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", h.events)

		r.Route("/images", func(r chi.Router) {
			r.Get("/", h.list)
			r.Post("/", h.upload)
			r.Patch("/{id}", h.updateCaption)
			r.Delete("/{id}", h.remove)
			r.Get("/{id}/download", h.download)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	ok(w, map[string]string{"status": "ok"})
}

// byID looks id up in the gallery mirror, then in the image table for rows
// written elsewhere since the last load. Positions are not accepted here.
func (h *Handler) byID(ctx context.Context, id string) (models.ImageRecord, error) {
	for _, rec := range h.gallery.Images() {
		if rec.ID == id {
			return rec, nil
		}
	}

	rec, err := h.metadata.Get(ctx, id)
	if err != nil {
		return models.ImageRecord{}, fmt.Errorf("image %q: %w", id, err)
	}
	return rec, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	if reload, _ := strconv.ParseBool(r.URL.Query().Get("reload")); reload {
		if err := h.gallery.Load(r.Context()); err != nil {
			failErr(w, err, gallery.FetchFailedMessage)
			return
		}
	}
	ok(w, h.gallery.Images())
}

// upload runs one uploader per request: every "file" part is offered to
// AcceptFiles, the "caption" value at the same position becomes its
// caption, then everything is submitted.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadSize)
	if err := r.ParseMultipartForm(h.opts.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		fail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	up := uploader.New(h.objects, h.metadata, h.bus, dialog.Headless{Logger: h.logger}, h.previews, h.logger)
	defer func() { _ = up.Cancel() }()

	files := r.MultipartForm.File["file"]
	captions := r.MultipartForm.Value["caption"]
	for i, fh := range files {
		if up.AcceptFiles(partFile{header: fh}) == 0 {
			continue
		}
		if i < len(captions) {
			_ = up.UpdateCaption(len(up.Pending())-1, captions[i])
		}
	}

	if len(up.Pending()) == 0 {
		failErr(w, common.ErrNoImages, "")
		return
	}

	records, err := up.SubmitAll(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Envelope{Success: false, Data: records, Error: uploader.UploadFailedMessage})
		return
	}
	created(w, records)
}

type captionRequest struct {
	Caption *string `json:"caption"`
}

func (h *Handler) updateCaption(w http.ResponseWriter, r *http.Request) {
	var req captionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Caption == nil {
		fail(w, http.StatusBadRequest, "caption is required")
		return
	}

	rec, err := h.byID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		failErr(w, err, "")
		return
	}

	if err := h.gallery.SaveCaption(r.Context(), rec, *req.Caption); err != nil {
		failErr(w, err, gallery.CaptionFailedMessage)
		return
	}

	rec.Caption = *req.Caption
	ok(w, rec)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	rec, err := h.byID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		failErr(w, err, "")
		return
	}

	if _, err := h.gallery.Remove(r.Context(), rec); err != nil {
		failErr(w, err, gallery.DeleteFailedMessage)
		return
	}
	ok(w, rec)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	rec, err := h.byID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		failErr(w, err, "")
		return
	}

	contentType := "application/octet-stream"
	if st, isStatter := h.objects.(objectstore.Statter); isStatter {
		info, err := st.Stat(r.Context(), rec.ObjectKey())
		if err != nil {
			failErr(w, err, gallery.DownloadFailedMessage)
			return
		}
		if info.ContentType != "" {
			contentType = info.ContentType
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": gallery.DownloadName(rec)}))

	n, err := h.gallery.Download(r.Context(), rec, w)
	if err != nil && n == 0 {
		w.Header().Del("Content-Disposition")
		failErr(w, err, gallery.DownloadFailedMessage)
	}
}
