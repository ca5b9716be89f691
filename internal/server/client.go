package server

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const sendBufferSize = 256

// Client is one websocket connection: the stable connection handle the
// combat core keys fights on, plus the read/write pumps.
type Client struct {
	id      string
	fightID string
	conn    *websocket.Conn
	send    chan []byte
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// readPump decodes intents off the wire and hands them to the hub. It owns
// the read side of the connection and unregisters the client on exit.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg Envelope
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Debug("dropping malformed message",
				zap.String("conn_id", c.id),
				zap.Error(err),
			)
			continue
		}

		h.handleMessage(c, msg)
	}
}

// writePump drains the send channel onto the wire.
func (c *Client) writePump() {
	defer c.conn.Close()

	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// enqueue drops the message if the client's buffer is full rather than
// blocking combat progression. Delivery is at-most-once.
func (c *Client) enqueue(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}
