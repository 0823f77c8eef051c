package main

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *Client) Send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// hub fans every message published on the runner out to connected clients.
type hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*Client]struct{})}
}

func (h *hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.conn.Close()
	}
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) broadcast(v interface{}) {
	h.mu.Lock()
	list := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	h.mu.Unlock()

	for _, c := range list {
		if err := c.Send(v); err != nil {
			log.Printf("client send error: %v", err)
			h.remove(c)
		}
	}
}

// serve drains states until the channel is closed.
func (h *hub) serve(states <-chan interface{}) {
	for state := range states {
		h.broadcast(state)
	}
}
