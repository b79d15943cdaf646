package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/tshwanesporting/clubsite/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене здесь должна быть проверка Origin,
		// чтобы разрешать подключения только с доверенных доменов.
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeLive subscribes a client to one of the public event feeds.
// Клиент подключается к /ws/live?feed=players|gallery.
func (h *WebSocketHandler) ServeLive(w http.ResponseWriter, r *http.Request) {
	feed := r.URL.Query().Get("feed")
	if feed != live.FeedPlayers && feed != live.FeedGallery {
		http.Error(w, "feed must be one of: players, gallery", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader.Upgrade сам отправляет HTTP ошибку клиенту.
		log.Printf("Failed to upgrade connection for feed %s: %v", feed, err)
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Feed: feed,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
