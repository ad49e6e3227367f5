package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pokerconnect/backend/internal/metrics"
	"github.com/pokerconnect/backend/pkg/logger"
)

// Event types pushed to connected clients. These replace the hosted
// platform's live-subscription callbacks: each event carries the latest
// state of the record it describes, and consumers treat it as a full
// replacement, not an incremental patch.
const (
	EventNotification = "notification"
	EventChatMessage  = "chat_message"
	EventFriendship   = "friendship"
)

// Event is the envelope written to WebSocket clients
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// Client is one WebSocket connection belonging to a user. A user may hold
// several concurrent connections (multiple tabs/devices).
type Client struct {
	ID     string
	UserID uint
	conn   *websocket.Conn
	Send   chan []byte
}

// Hub tracks all online connections and fans events out to them
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[string]*Client
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[string]*Client)}
}

// Register attaches a new connection for the user and starts its pumps
func (h *Hub) Register(userID uint, conn *websocket.Conn) *Client {
	client := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[string]*Client)
	}
	h.clients[userID][client.ID] = client
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	go client.writePump()
	go client.readPump(h)
	return client
}

// Unregister removes a connection and closes its send channel. Every
// connection must come back through here when its owner goes away so no
// event callback can touch a dead connection.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := conns[client.ID]; !ok {
		return
	}
	delete(conns, client.ID)
	if len(conns) == 0 {
		delete(h.clients, client.UserID)
	}
	close(client.Send)
	metrics.WSConnections.Dec()
}

// SendToUser pushes an event to every live connection of the user. Offline
// users simply miss the push; they pick the state up from the REST reads.
// Safe to call on a nil hub.
func (h *Hub) SendToUser(userID uint, event Event) {
	if h == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal realtime event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients[userID] {
		select {
		case client.Send <- data:
		default:
			// Slow consumer; drop rather than block the caller.
		}
	}
}

// IsOnline reports whether the user has at least one live connection
func (h *Hub) IsOnline(userID uint) bool {
	if h == nil {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; clients mutate state over REST. Its job
// is to detect the close and unregister.
func (c *Client) readPump(h *Hub) {
	defer h.Unregister(c)
	c.conn.SetReadLimit(1024)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
