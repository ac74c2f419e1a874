package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/xid"

	"messenger-service/internal/models"
)

// wsConn is the slice of *websocket.Conn the hub and the read loop need.
// Tests substitute an in-memory implementation.
type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one live authenticated connection. A user may own any number
// of concurrent clients (multi-device); the owner is set at handshake and
// never changes.
type Client struct {
	UserID      int
	ConnID      string
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time

	conn    wsConn
	writeMu sync.Mutex
}

// NewClient wraps an upgraded connection for the given owner.
func NewClient(conn wsConn, userID int) *Client {
	return &Client{
		UserID:      userID,
		ConnID:      xid.New().String(),
		ConnectedAt: time.Now(),
		conn:        conn,
	}
}

// Send marshals the event and writes it to the connection. Writes are
// serialized; the hub and the connection's own read loop may both push.
func (c *Client) Send(event models.ServerEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.write(payload)
}

func (c *Client) write(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
