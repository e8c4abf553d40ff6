package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/league-system/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict Origin to the frontend host once it is deployed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeSeason subscribes the connection to live updates of one season.
// Clients connect to /ws/seasons/{seasonID}.
func (h *WebSocketHandler) ServeSeason(w http.ResponseWriter, r *http.Request) {
	seasonID, err := idParam(r, "seasonID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		slog.Debug("websocket upgrade failed",
			slog.Int("season_id", seasonID), slog.Any("error", err))
		return
	}
	h.hub.Subscribe(conn, live.SeasonRoom(seasonID))
}
