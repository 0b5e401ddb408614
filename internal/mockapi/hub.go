package mockapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// hub fans broadcast messages out to every connected websocket client.
type hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]chan []byte
}

func newHub(logger *slog.Logger) *hub {
	return &hub{
		logger: logger.With("component", "mockapi.ws"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: map[*websocket.Conn]chan []byte{},
	}
}

func (h *hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	outbox := make(chan []byte, 32)
	h.mu.Lock()
	h.conns[conn] = outbox
	h.mu.Unlock()
	h.logger.Debug("client connected", "remote", conn.RemoteAddr())

	go h.writeLoop(conn, outbox)

	// Drain (and discard) client frames so pings and close frames are
	// processed; disconnect cleans the connection up.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("websocket read failed", "error", err)
			}
			break
		}
	}

	h.mu.Lock()
	if ch, found := h.conns[conn]; found {
		delete(h.conns, conn)
		close(ch)
	}
	h.mu.Unlock()
	conn.Close()
}

func (h *hub) writeLoop(conn *websocket.Conn, outbox <-chan []byte) {
	for msg := range outbox {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("websocket write failed", "error", err)
			return
		}
	}
}

func (h *hub) broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("broadcast marshal failed", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, outbox := range h.conns {
		select {
		case outbox <- data:
		default:
			h.logger.Warn("dropping broadcast for slow client", "remote", conn.RemoteAddr())
		}
	}
}
