package live

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Feeds the public site can subscribe to.
const (
	FeedPlayers = "players"
	FeedGallery = "gallery"
)

// Event types pushed to subscribers.
const (
	EventPlayerCreated = "PLAYER_CREATED"
	EventPlayerUpdated = "PLAYER_UPDATED"
	EventPlayerDeleted = "PLAYER_DELETED"
	EventPhotoCreated  = "PHOTO_CREATED"
	EventPhotoUpdated  = "PHOTO_UPDATED"
	EventPhotoDeleted  = "PHOTO_DELETED"
)

type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	Feed    string      `json:"feed,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type Client struct {
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	Feed     string
	IsClosed bool
	Mu       sync.Mutex
}

// Hub fans events out to websocket subscribers grouped by feed.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	feeds      map[string]map[*Client]bool
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		feeds:      make(map[string]map[*Client]bool),
	}
}

// Run owns the feed registry until ctx is cancelled, then closes every
// subscriber's send channel so the write pumps drain and exit.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.feeds[client.Feed]; !ok {
				h.feeds[client.Feed] = make(map[*Client]bool)
			}
			h.feeds[client.Feed][client] = true
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.feeds[client.Feed]; ok {
				if _, okClient := clients[client]; okClient {
					client.Mu.Lock()
					if !client.IsClosed {
						close(client.Send)
						client.IsClosed = true
					}
					client.Mu.Unlock()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.feeds, client.Feed)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for feed, clients := range h.feeds {
		for client := range clients {
			client.Mu.Lock()
			if !client.IsClosed {
				close(client.Send)
				client.IsClosed = true
			}
			client.Mu.Unlock()
		}
		delete(h.feeds, feed)
	}
}

// BroadcastToFeed отправляет событие всем подписчикам указанной ленты.
func (h *Hub) BroadcastToFeed(feed string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.feeds[feed]
	if !ok {
		return
	}

	event.Feed = feed
	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling event for feed %s: %v", feed, err)
		return
	}

	for client := range clients {
		client.Mu.Lock()
		if client.IsClosed {
			client.Mu.Unlock()
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
			// Slow subscriber, drop this event for it.
		}
		client.Mu.Unlock()
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
		c.Mu.Lock()
		c.IsClosed = true
		c.Mu.Unlock()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		// Подписчики ничего не присылают; читаем только ради keepalive.
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error on feed %s: %v", c.Feed, err)
			}
			break
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Mu.Lock()
		c.IsClosed = true
		c.Mu.Unlock()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
