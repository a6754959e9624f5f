package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/photowall/internal/events"
	"github.com/dmitrijs2005/photowall/internal/models"
	"github.com/gorilla/websocket"
)

const (
	// feedBuffer is the per-connection queue; notifications beyond it are
	// dropped for that connection.
	feedBuffer   = 16
	writeTimeout = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
)

// Notification is one message on the /api/events stream.
type Notification struct {
	Event events.Name        `json:"event"`
	Image models.ImageRecord `json:"image"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origins are enforced by the CORS middleware
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	// subscribe before the handshake completes so that nothing uploaded
	// after the client sees the upgrade is missed
	queue := make(chan models.ImageRecord, feedBuffer)
	unsubscribe := h.bus.Subscribe(events.ImageUploaded, func(ctx context.Context, rec models.ImageRecord) {
		select {
		case queue <- rec:
		default:
			h.logger.Warn(ctx, "websocket client too slow, notification dropped", "id", rec.ID)
		}
	})
	defer unsubscribe()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// the read side only handles control frames and notices the close
	go func() {
		defer cancel()
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case rec := <-queue:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(Notification{Event: events.ImageUploaded, Image: rec}); err != nil {
				h.logger.Debug(ctx, "websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
