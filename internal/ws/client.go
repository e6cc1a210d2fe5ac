package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ecardgame/ecard-server/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second
	// Send pings to peer with this period; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer
	maxMessageSize = 4096
	// Outbound buffer per client
	sendBufferSize = 64
)

// Envelope is the wire format in both directions: an event name plus a
// JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// outEnvelope mirrors Envelope for marshalling arbitrary payloads
type outEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Client is one websocket connection. The reader feeds the hub's inbound
// queue; the writer drains the send channel.
type Client struct {
	id          model.PlayerID
	conn        *websocket.Conn
	send        chan []byte
	connectedAt time.Time
}

// readPump reads messages from the websocket and enqueues them on the
// hub. It runs in a per-connection goroutine and signals disconnect on
// any read error.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.enqueue(inboundEvent{kind: kindDisconnect, client: c})
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		h.enqueue(inboundEvent{kind: kindMessage, client: c, env: env})
	}
}

// writePump drains the send channel onto the websocket and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
