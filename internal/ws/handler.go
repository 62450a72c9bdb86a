package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"vocabquiz/internal/quiz"
	"vocabquiz/internal/security"
	"vocabquiz/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// SnapshotSource supplies the state sent when a socket first connects
type SnapshotSource interface {
	Snapshot(learnerID string) (quiz.Snapshot, error)
}

// Handler upgrades GET /ws for the learner in the request context
type Handler struct {
	hub      *Hub
	sessions SnapshotSource
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, sessions SnapshotSource, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, sessions: sessions, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	learnerID, ok := security.LearnerFromContext(r.Context())
	if !ok {
		http.Error(w, "missing learner", http.StatusUnauthorized)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	conn := NewConnection(learnerID)
	if !h.hub.Register(conn, h.initialFrame(learnerID)) {
		wsConn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		wsConn.Close()
		return
	}

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

// initialFrame encodes the learner's current snapshot, if they have a quiz
func (h *Handler) initialFrame(learnerID string) func() []byte {
	return func() []byte {
		snap, err := h.sessions.Snapshot(learnerID)
		if err != nil {
			return nil
		}
		data, err := json.Marshal(service.Event{Type: service.EventSessionUpdate, Snapshot: snap})
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to encode initial snapshot")
			return nil
		}
		return data
	}
}

// readPump only services control frames; clients never send data
func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := wsConn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug().Err(err).Str("learner_id", conn.LearnerID).Msg("websocket closed unexpectedly")
			}
			return
		}
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := wsConn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
