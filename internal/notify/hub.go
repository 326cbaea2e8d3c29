package notify

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"kursbot/internal/alert"
)

const writeTimeout = 5 * time.Second

// Hub broadcasts fired alerts to connected dashboard websockets.
// Subscribers that fail a write are dropped.
type Hub struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	logger *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{conns: make(map[*websocket.Conn]struct{}), logger: logger}
}

// Add registers a subscriber. The hub owns the connection from here on
// and closes it when a write fails.
func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

func (h *Hub) Notify(_ context.Context, fire alert.Fire) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(fire); err != nil {
			h.logger.Debugf("Dropping dashboard subscriber: %v", err)
			conn.Close()
			delete(h.conns, conn)
		}
	}
	return nil
}
