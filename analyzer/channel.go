// ABOUTME: Abstract asynchronous channel to the analyzer plus an in-memory implementation
// ABOUTME: Delivery is FIFO and at-most-once; the memory channel delivers synchronously
package analyzer

import (
	"context"
	"errors"
	"sync"
)

// ErrChannelClosed is returned by Send after Close.
var ErrChannelClosed = errors.New("analyzer channel closed")

// Channel moves encoded messages between the workspace and the analyzer.
type Channel interface {
	// Send delivers one outbound message.
	Send(ctx context.Context, data []byte) error
	// OnReceive sets the handler for inbound messages. Handlers are invoked
	// one at a time in arrival order.
	OnReceive(handler func(data []byte))
	Close() error
}

// MemoryChannel is an in-process Channel. Outbound messages are recorded and
// inbound messages are injected with Deliver.
type MemoryChannel struct {
	mu      sync.Mutex
	recvMu  sync.Mutex
	sent    [][]byte
	handler func([]byte)
	closed  bool
	sendErr error
}

// NewMemoryChannel returns an open in-memory channel.
func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{}
}

func (c *MemoryChannel) Send(ctx context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrChannelClosed
	}
	if c.sendErr != nil {
		return c.sendErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sent = append(c.sent, append([]byte(nil), data...))
	return nil
}

func (c *MemoryChannel) OnReceive(handler func(data []byte)) {
	c.mu.Lock()
	c.handler = handler
	c.mu.Unlock()
}

// Deliver hands data to the receive handler on the caller's goroutine.
// Concurrent calls are serialized.
func (c *MemoryChannel) Deliver(data []byte) error {
	c.mu.Lock()
	closed, handler := c.closed, c.handler
	c.mu.Unlock()

	if closed {
		return ErrChannelClosed
	}
	if handler == nil {
		return nil
	}

	c.recvMu.Lock()
	defer c.recvMu.Unlock()
	handler(data)
	return nil
}

// FailSends makes every later Send return err. A nil err restores delivery.
func (c *MemoryChannel) FailSends(err error) {
	c.mu.Lock()
	c.sendErr = err
	c.mu.Unlock()
}

// Sent returns a copy of every message sent so far.
func (c *MemoryChannel) Sent() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([][]byte, len(c.sent))
	copy(out, c.sent)
	return out
}

func (c *MemoryChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}
