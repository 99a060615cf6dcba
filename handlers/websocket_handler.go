package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/lamasia-league/realtime"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler accepts connections from allowedOrigins; "*" allows any.
func NewWebSocketHandler(hub *realtime.Hub, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
		logger: logger,
	}
}

// ServeWs upgrades an authenticated request. The client joins the league
// room and its private room; ?popups=granted enables NOTIFICATION_POPUP.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	popups := r.URL.Query().Get("popups") == "granted"

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту
		h.logger.Warn("websocket upgrade failed", slog.Int("user_id", user.ID), slog.Any("error", err))
		return
	}

	client := realtime.NewClient(h.hub, conn, user.ID, popups)
	if !h.hub.Join(client) {
		// сервер останавливается
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
