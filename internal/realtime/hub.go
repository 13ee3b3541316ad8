package realtime

import (
	"sync"

	"go.uber.org/zap"

	"github.com/sakalaundry/laundry-api/internal/observability"
)

// Client is one admin subscriber. Messages are queued on a bounded channel
// so one stalled connection cannot hold up the fan-out.
type Client struct {
	send chan []byte
}

// Send exposes the client's outbound queue to the connection writer.
func (c *Client) Send() <-chan []byte {
	return c.send
}

// Hub tracks the live admin subscriber set and fans events out to it.
// Delivery is best-effort and at-most-once per connection: events published
// while a subscriber is disconnected are lost to it, and a subscriber whose
// queue is full is dropped rather than buffered indefinitely.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	buffer  int
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(sendBuffer int, metrics *observability.Metrics, logger *zap.Logger) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 16
	}
	return &Hub{
		clients: make(map[*Client]struct{}),
		buffer:  sendBuffer,
		metrics: metrics,
		logger:  logger,
	}
}

// Register adds a subscriber and returns its client handle.
func (h *Hub) Register() *Client {
	client := &Client{send: make(chan []byte, h.buffer)}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	h.metrics.AdminClientConnected(1)
	return client
}

// Unregister removes a subscriber and closes its queue.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, present := h.clients[client]
	if present {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
	if present {
		h.metrics.AdminClientConnected(-1)
	}
}

// Broadcast queues a message for every connected subscriber. Subscribers
// with a full queue are dropped from the set.
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	var dropped []*Client
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			dropped = append(dropped, client)
		}
	}
	for _, client := range dropped {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()

	for range dropped {
		h.metrics.AdminClientConnected(-1)
		h.logger.Warn("dropped slow admin subscriber")
	}
}

// ClientCount reports the current subscriber count.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
