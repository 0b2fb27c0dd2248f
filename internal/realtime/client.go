package realtime

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 5 * time.Minute
	pingPeriod     = 30 * time.Second
	sendBufferSize = 64
)

// Client is one WebSocket connection. Writes go through a buffered send
// channel drained by a single writer goroutine; a slow consumer drops
// messages rather than blocking the broadcaster.
type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	gameID   string
	playerID string
}

// NewClient wraps an upgraded connection.
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// PlayerID returns the logical player this connection registered as.
func (c *Client) PlayerID() string { return c.playerID }

// GameID returns the room this connection registered in.
func (c *Client) GameID() string { return c.gameID }

func (c *Client) enqueue(payload []byte) {
	select {
	case c.send <- payload:
	default:
		// Slow consumer: drop instead of stalling the room.
	}
}

// WritePump drains the send channel onto the connection and keeps it
// alive with pings. Run in its own goroutine; returns when the send
// channel closes or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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

// ReadInbound reads and decodes the next client frame, refreshing the
// read deadline.
func (c *Client) ReadInbound(msg *Inbound) error {
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	return c.conn.ReadJSON(msg)
}

// Close shuts the writer down.
func (c *Client) Close() {
	close(c.send)
}
