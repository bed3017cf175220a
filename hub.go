package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/gorilla/websocket"

	"emberfall/server/internal/feed"
)

const writeWait = 10 * time.Second

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub fans simulation snapshots out to websocket observers. Observers are
// read-only; they receive state and send nothing.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	upgrader    websocket.Upgrader
	log         *bolt.Logger
}

func newHub(logger *bolt.Logger) *Hub {
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: logger,
	}
}

// ServeWS upgrades an observer connection and registers it for broadcasts.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	sub := &subscriber{conn: conn}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	count := len(h.subscribers)
	h.mu.Unlock()
	h.log.Info().Int("observers", count).Msg("observer connected")

	// Drain (and discard) incoming frames so pings and closes are handled.
	go func() {
		defer h.drop(sub)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	if _, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		sub.conn.Close()
	}
	h.mu.Unlock()
}

// Broadcast marshals the snapshot once and writes it to every observer,
// dropping connections that fail.
func (h *Hub) Broadcast(msg feed.StateMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.log.Error().Err(err).Msg("marshal state message")
		return
	}

	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.send(payload); err != nil {
			h.drop(sub)
		}
	}
}
