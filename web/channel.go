// ABOUTME: Websocket implementation of the analyzer channel
// ABOUTME: One reader goroutine per connection delivers frames in arrival order
package web

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/harperreed/acctnotes/analyzer"
)

const closeGrace = time.Second

// WSChannel carries analyzer messages as websocket text frames.
type WSChannel struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu      sync.Mutex
	handler func([]byte)

	done      chan struct{}
	closeOnce sync.Once
}

var _ analyzer.Channel = (*WSChannel)(nil)

// NewWSChannel starts reading from conn. Done is closed when the peer goes away.
func NewWSChannel(conn *websocket.Conn) *WSChannel {
	c := &WSChannel{conn: conn, done: make(chan struct{})}
	go c.readLoop()
	return c
}

func (c *WSChannel) readLoop() {
	defer close(c.done)
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}

		c.mu.Lock()
		handler := c.handler
		c.mu.Unlock()
		if handler != nil {
			handler(data)
		}
	}
}

func (c *WSChannel) Send(ctx context.Context, data []byte) error {
	select {
	case <-c.done:
		return analyzer.ErrChannelClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
	} else {
		_ = c.conn.SetWriteDeadline(time.Time{})
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *WSChannel) OnReceive(handler func(data []byte)) {
	c.mu.Lock()
	c.handler = handler
	c.mu.Unlock()
}

// Done is closed once the connection has stopped reading.
func (c *WSChannel) Done() <-chan struct{} {
	return c.done
}

// Close sends a close frame and tears the connection down.
func (c *WSChannel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeGrace))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}
