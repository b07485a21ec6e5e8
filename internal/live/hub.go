// Package live fans event change notifications out to connected stream clients.
package live

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kirinyoku/eventhub/internal/domain"
)

const defaultBuffer = 16

// Client is one subscriber. Messages arrive on C until the hub closes it.
type Client struct {
	C  <-chan domain.EventChanged
	ch chan domain.EventChanged
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	buffer  int
	closed  bool
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		clients: make(map[*Client]struct{}),
		buffer:  buffer,
	}
}

// Register adds a client. On a closed hub the returned client's channel is already closed.
func (h *Hub) Register() *Client {
	ch := make(chan domain.EventChanged, h.buffer)
	c := &Client{C: ch, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return c
	}
	h.clients[c] = struct{}{}

	return c
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.ch)
	}
}

// Broadcast never blocks: a client whose buffer is full misses the message.
func (h *Hub) Broadcast(msg domain.EventChanged) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.clients {
		select {
		case c.ch <- msg:
			delivered++
		default:
		}
	}

	return delivered
}

// PublishEventChanged lets the hub stand in for the redis publisher in single-node runs.
func (h *Hub) PublishEventChanged(_ context.Context, kind domain.ChangeKind, eventID uuid.UUID) error {
	h.Broadcast(domain.EventChanged{
		Type:    domain.EventChangedType,
		Kind:    kind,
		EventID: eventID,
		TsUnix:  time.Now().Unix(),
	})
	return nil
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client. Later registrations get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.ch)
	}
}
