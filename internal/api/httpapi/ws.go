package httpapi

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// WSMessage конверт сообщений живой ленты
type WSMessage struct {
	Type    string `json:"type"` // frame
	Payload any    `json:"payload,omitempty"`
}

// Hub рассылает кадры живой ленты всем подписчикам.
type Hub struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: map[*websocket.Conn]struct{}{},
	}
}

// HandleLive переводит соединение на websocket и подписывает его на ленту
func (h *Hub) HandleLive(w http.ResponseWriter, r *http.Request) {
	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	slog.Debug("live subscriber connected", "remote", r.RemoteAddr)
	go h.readLoop(c)
}

// readLoop читает до закрытия соединения клиентом; входящие сообщения игнорируются.
func (h *Hub) readLoop(c *websocket.Conn) {
	defer h.drop(c)
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(c *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		_ = c.Close()
		slog.Debug("live subscriber disconnected", "remote", c.RemoteAddr().String())
	}
}

// Broadcast отправляет сообщение всем подписчикам; сбойные соединения закрываются.
func (h *Hub) Broadcast(msg WSMessage) {
	h.mu.Lock()
	var failed []*websocket.Conn
	for c := range h.clients {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteJSON(msg); err != nil {
			slog.Debug("ws send failed", "remote", c.RemoteAddr().String(), "err", err)
			failed = append(failed, c)
		}
	}
	h.mu.Unlock()

	for _, c := range failed {
		h.drop(c)
	}
}

// Clients число активных подписчиков
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close отключает всех подписчиков
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"), time.Now().Add(writeWait))
		h.drop(c)
	}
}
