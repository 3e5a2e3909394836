package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/drukmenu/drukmenu-backend/pkg/logger"
	"github.com/google/uuid"
)

const (
	EventMenuUpdated = "menu_updated"
	EventPong        = "pong"

	sendBufferSize = 16
)

// Event is pushed to every customer viewing a business's public menu.
type Event struct {
	Type       string    `json:"type"`
	BusinessID uuid.UUID `json:"business_id"`
	At         time.Time `json:"at"`
}

// ClientMessage is the only thing customers may send: a keepalive ping.
type ClientMessage struct {
	Type string `json:"type"`
}

// Client is one open public menu. Customers are anonymous, so a client is
// identified only by the business it watches.
type Client struct {
	Hub        *Hub
	Conn       *Conn
	BusinessID uuid.UUID
	Send       chan []byte

	// closed is guarded by Hub.mu and set when Send is closed.
	closed bool

	rateMu        sync.Mutex
	messageCount  int
	lastResetTime time.Time
}

func NewClient(hub *Hub, conn *Conn, businessID uuid.UUID) *Client {
	return &Client{
		Hub:        hub,
		Conn:       conn,
		BusinessID: businessID,
		Send:       make(chan []byte, sendBufferSize),
	}
}

type broadcastMessage struct {
	businessID uuid.UUID
	data       []byte
}

// Hub fans menu events out to the clients of each business.
type Hub struct {
	rooms      map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMessage
	done       chan struct{}

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan broadcastMessage, 1024),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			room, ok := h.rooms[client.BusinessID]
			if !ok {
				room = make(map[*Client]struct{})
				h.rooms[client.BusinessID] = room
			}
			room[client] = struct{}{}
			viewers := len(room)
			h.mu.Unlock()

			logger.Debug("Menu viewer connected", map[string]interface{}{
				"business_id": client.BusinessID,
				"viewers":     viewers,
			})

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			var stale []*Client
			h.mu.RLock()
			for client := range h.rooms[msg.businessID] {
				select {
				case client.Send <- msg.data:
				default:
					stale = append(stale, client)
				}
			}
			h.mu.RUnlock()

			for _, client := range stale {
				logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
					"business_id": client.BusinessID,
				})
				h.remove(client)
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.BusinessID]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}
	delete(room, client)
	h.closeSend(client)
	if len(room) == 0 {
		delete(h.rooms, client.BusinessID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		for client := range room {
			h.closeSend(client)
		}
		delete(h.rooms, id)
	}
}

// closeSend must be called with h.mu held.
func (h *Hub) closeSend(client *Client) {
	if client.closed {
		return
	}
	client.closed = true
	close(client.Send)
}

// Register adds the client to its business room. Once the hub has stopped
// the client's Send is closed instead, so its write pump exits.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		h.mu.Lock()
		h.closeSend(client)
		h.mu.Unlock()
	}
}

// Unregister never blocks after the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// PublishMenuUpdated tells open menus of the business to refetch. Events are
// dropped when the hub is saturated; viewers still see changes on reload.
func (h *Hub) PublishMenuUpdated(businessID uuid.UUID) {
	data, err := json.Marshal(Event{
		Type:       EventMenuUpdated,
		BusinessID: businessID,
		At:         time.Now().UTC(),
	})
	if err != nil {
		logger.Error("Failed to marshal menu event", err)
		return
	}

	select {
	case h.broadcast <- broadcastMessage{businessID: businessID, data: data}:
	default:
		logger.Warn("Broadcast channel full, menu event dropped", map[string]interface{}{
			"business_id": businessID,
		})
	}
}

// ViewerCount returns how many clients currently watch the business menu.
func (h *Hub) ViewerCount(businessID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[businessID])
}

// HandleClientMessage answers pings and ignores everything else.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	if !client.allow(time.Now()) {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"business_id": client.BusinessID,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil || msg.Type != "ping" {
		return
	}

	data, _ := json.Marshal(Event{Type: EventPong, BusinessID: client.BusinessID, At: time.Now().UTC()})

	// remove and closeAll close Send under the write lock
	h.mu.RLock()
	defer h.mu.RUnlock()
	if client.closed {
		return
	}
	select {
	case client.Send <- data:
	default:
	}
}

// allow enforces maxMessagesPerSecond per client.
func (c *Client) allow(now time.Time) bool {
	c.rateMu.Lock()
	defer c.rateMu.Unlock()

	if now.Sub(c.lastResetTime) >= time.Second {
		c.messageCount = 0
		c.lastResetTime = now
	}
	c.messageCount++
	return c.messageCount <= maxMessagesPerSecond
}
