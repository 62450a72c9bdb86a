// Package ws pushes quiz session events to a learner's open WebSocket connections.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"vocabquiz/internal/service"
)

// Connection is one open socket belonging to a learner
type Connection struct {
	LearnerID string
	Send      chan []byte
}

// NewConnection creates a connection with a buffered outbound queue
func NewConnection(learnerID string) *Connection {
	return &Connection{LearnerID: learnerID, Send: make(chan []byte, 256)}
}

type registration struct {
	conn    *Connection
	initial func() []byte
}

type delivery struct {
	learnerID string
	data      []byte
}

// Hub fans session events out to every connection of the learner they belong to
type Hub struct {
	conns map[string]map[*Connection]struct{}
	mu    sync.RWMutex

	register   chan registration
	unregister chan *Connection
	broadcast  chan delivery
	done       chan struct{}

	logger zerolog.Logger
}

// NewHub creates a hub; call Run to start delivering
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		register:   make(chan registration),
		unregister: make(chan *Connection),
		broadcast:  make(chan delivery, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and deliveries until ctx is done, then closes
// every connection
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for learnerID, set := range h.conns {
				for conn := range set {
					close(conn.Send)
				}
				delete(h.conns, learnerID)
			}
			h.mu.Unlock()
			return

		case reg := <-h.register:
			conn := reg.conn
			h.mu.Lock()
			if h.conns[conn.LearnerID] == nil {
				h.conns[conn.LearnerID] = make(map[*Connection]struct{})
			}
			h.conns[conn.LearnerID][conn] = struct{}{}
			h.mu.Unlock()

			// queued here so it precedes every broadcast handled after it
			if reg.initial != nil {
				if data := reg.initial(); data != nil {
					select {
					case conn.Send <- data:
					default:
					}
				}
			}
			h.logger.Debug().Str("learner_id", conn.LearnerID).Msg("websocket connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.conns[conn.LearnerID]; ok {
				if _, ok := set[conn]; ok {
					delete(set, conn)
					close(conn.Send)
					if len(set) == 0 {
						delete(h.conns, conn.LearnerID)
					}
					h.logger.Debug().Str("learner_id", conn.LearnerID).Msg("websocket disconnected")
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.conns[msg.learnerID] {
				select {
				case conn.Send <- msg.data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection. initial, when set, runs on the hub goroutine
// and its frame is queued before any later event. Register reports false and
// closes the connection's queue once Run has stopped.
func (h *Hub) Register(conn *Connection, initial func() []byte) bool {
	select {
	case h.register <- registration{conn: conn, initial: initial}:
		return true
	case <-h.done:
		close(conn.Send)
		return false
	}
}

// Unregister removes a connection and closes its queue
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// connections returns the number of open connections for a learner
func (h *Hub) connections(learnerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[learnerID])
}

// Notify implements service.Notifier. It never blocks the session that
// produced the event; if the hub is backed up the event is dropped.
func (h *Hub) Notify(learnerID string, event service.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("type", event.Type).Msg("failed to encode session event")
		return
	}

	select {
	case h.broadcast <- delivery{learnerID: learnerID, data: data}:
	default:
		h.logger.Warn().Str("learner_id", learnerID).Str("type", event.Type).Msg("websocket hub busy, event dropped")
	}
}
