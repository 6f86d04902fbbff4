package server

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/handrps/internal/game"
)

const (
	// clientBuffer is how many messages may queue for a slow client before
	// further messages to it are dropped.
	clientBuffer = 64
	writeWait    = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Message is the envelope of every event sent on /ws/game.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// RoundEvent is the payload of a "round" message.
type RoundEvent struct {
	Outcome game.RoundOutcome `json:"outcome"`
	State   game.MatchState   `json:"state"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts game events to WebSocket clients. It implements
// game.Observer and never blocks the match loop.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	last    []byte
	closed  bool
	logger  *log.Logger
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  log.New(os.Stderr, "[ws] ", log.LstdFlags),
	}
}

// ServeHTTP upgrades the request and streams events until the client leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("websocket upgrade error: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	if !h.register(c) {
		conn.Close()
		return
	}
	go c.writePump()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister(c)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnFrame broadcasts a "frame" message.
func (h *Hub) OnFrame(view game.FrameView) {
	h.broadcast(Message{Type: "frame", Data: view})
}

// OnRound broadcasts a "round" message.
func (h *Hub) OnRound(outcome game.RoundOutcome, state game.MatchState) {
	h.broadcast(Message{Type: "round", Data: RoundEvent{Outcome: outcome, State: state}})
}

// OnMatch broadcasts a "match" message.
func (h *Hub) OnMatch(summary game.MatchSummary) {
	h.broadcast(Message{Type: "match", Data: summary})
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcast(m Message) {
	data, err := json.Marshal(m)
	if err != nil {
		h.logger.Printf("encode %s message: %v", m.Type, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Slow client, drop the message.
		}
	}
}

// register adds c and queues the latest event so the client can draw
// immediately.
func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// writePump sends queued messages until the hub closes the channel.
func (c *client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
