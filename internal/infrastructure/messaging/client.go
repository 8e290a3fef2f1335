package messaging

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	sendBufferSize = 16
	maxMessageSize = 4096
)

// Client represents a single connected editor view.
type Client struct {
	ID     string
	SiteID string
	Conn   *websocket.Conn
	Send   chan []byte

	closeOnce sync.Once
}

// NewClient wraps a websocket connection watching siteID. conn may be nil
// for clients that only drain Send.
func NewClient(siteID string, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.NewString(),
		SiteID: siteID,
		Conn:   conn,
		Send:   make(chan []byte, sendBufferSize),
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

// WritePump forwards queued events to the connection and keeps it alive
// with pings. It returns when Send is closed or a write fails.
func (c *Client) WritePump(pingInterval, writeTimeout time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump discards inbound frames until the peer goes away, then
// unregisters the client.
func (c *Client) ReadPump(b Broadcaster, pongWait time.Duration) {
	defer b.Unregister(c)

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
