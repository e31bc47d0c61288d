// internal/app/features/live/handler.go
package live

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/hygienedash/internal/app/system/auth"
	"github.com/dalemusser/hygienedash/internal/app/system/livehub"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler upgrades signed-in pages to a websocket that receives a notice
// after every snapshot commit.
type Handler struct {
	Hub *livehub.Hub
	Log *zap.Logger

	upgrader websocket.Upgrader
}

func NewHandler(hub *livehub.Hub, logger *zap.Logger) *Handler {
	return &Handler{
		Hub: hub,
		Log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     sameOrigin,
		},
	}
}

// sameOrigin accepts requests without an Origin header (non-browser
// clients) and browser requests from this host only.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// ServeLive handles GET /live.
func (h *Handler) ServeLive(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.Log.Debug("live upgrade rejected", zap.Error(err), zap.String("origin", r.Header.Get("Origin")))
		return
	}

	if !h.Hub.Attach(r.Context(), conn) {
		h.Log.Debug("live hub closed; connection dropped")
		return
	}

	user, _ := auth.CurrentUser(r)
	var id string
	if user != nil {
		id = user.ID
	}
	h.Log.Debug("live client attached", zap.String("user_id", id))
}
