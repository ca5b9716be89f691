package server

import (
	"net/http"

	"github.com/duelworks/duel-server-go/internal/config"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The surrounding deployment fronts this with its own origin policy.
		return true
	},
}

// StartWebSocketServer serves the observer/intent websocket endpoint. Blocks
// until the listener fails.
func StartWebSocketServer(cfg config.WebSocketConfig, hub *Hub, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, logger, w, r)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	logger.Info("starting websocket server", zap.String("address", cfg.Address))
	return http.ListenAndServe(cfg.Address, mux)
}

func serveWS(hub *Hub, logger *zap.Logger, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(conn)
	hub.register <- client

	go client.writePump()
	go client.readPump(hub)
}
