package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/calvinwijaya/twentyone/internal/game"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced on the HTTP routes
	},
}

// Message represents a WebSocket message
type Message struct {
	Type    string      `json:"type"`
	RoundID string      `json:"roundId,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	conn    *websocket.Conn
	send    chan []byte
	roundID string
	hub     *Hub
}

// Hub maintains the set of active clients and pushes round updates to them
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	rounds     map[string]map[*Client]bool
	mu         sync.RWMutex

	onMessage func(c *Client, msg Message)
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rounds:     make(map[string]map[*Client]bool),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true

			if client.roundID != "" {
				if _, exists := h.rounds[client.roundID]; !exists {
					h.rounds[client.roundID] = make(map[*Client]bool)
				}
				h.rounds[client.roundID][client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)

				if client.roundID != "" && h.rounds[client.roundID] != nil {
					delete(h.rounds[client.roundID], client)
					if len(h.rounds[client.roundID]) == 0 {
						delete(h.rounds, client.roundID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRound sends a message to all clients watching a round
func (h *Hub) BroadcastToRound(roundID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rounds[roundID] {
		select {
		case client.send <- data:
		default:
			// buffer full; the client will catch up on the next update
		}
	}
}

// BroadcastRoundUpdate pushes the current view of a round to its watchers
func (h *Hub) BroadcastRoundUpdate(view game.View) {
	h.BroadcastToRound(view.ID, Message{
		Type:    "roundUpdate",
		RoundID: view.ID,
		Data:    view,
	})
}

// Watchers returns the number of clients subscribed to a round
func (h *Hub) Watchers(roundID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rounds[roundID])
}

// WebSocketHandler handles WebSocket connections
func (h *Hub) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	client := &Client{
		conn:    conn,
		send:    make(chan []byte, 256),
		roundID: r.URL.Query().Get("roundId"),
		hub:     h,
	}
	h.register <- client

	// Send a welcome message
	welcomeMsg := Message{
		Type:    "welcome",
		RoundID: client.roundID,
		Data: map[string]string{
			"message": "Connected to the twenty-one table",
		},
	}
	welcomeData, _ := json.Marshal(welcomeMsg)
	client.send <- welcomeData

	go client.readPump()
	go client.writePump()
}

// sendMessage queues a message for this client only
func (c *Client) sendMessage(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if !c.hub.clients[c] {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(64 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		if c.hub.onMessage != nil {
			c.hub.onMessage(c, msg)
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
