package live

import (
	"sync"
)

// Hub tracks open page connections so they can be closed on shutdown.
type Hub struct {
	mu    sync.Mutex
	conns map[*connection]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*connection]struct{})}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
}

// Len reports the number of open connections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Shutdown closes every open connection. Their read loops then tear down
// the controllers.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	conns := make([]*connection, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.conn.Close()
	}
}
