package events

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// clientIDCounter is used to generate unique client IDs.
var clientIDCounter atomic.Int64

// client represents a connected SSE client.
type client struct {
	id      string
	events  chan Event
	ctx     context.Context
	cancel  context.CancelFunc
	closed  atomic.Bool
	closeMu sync.Mutex
}

func newClient(ctx context.Context, bufferSize int) *client {
	clientCtx, cancel := context.WithCancel(ctx)

	return &client{
		id:     generateClientID(),
		events: make(chan Event, bufferSize),
		ctx:    clientCtx,
		cancel: cancel,
	}
}

func generateClientID() string {
	id := clientIDCounter.Add(1)
	return fmt.Sprintf("sse-client-%d-%d", time.Now().UnixNano(), id)
}

// close terminates the client connection.
func (c *client) close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed.Load() {
		return
	}

	c.closed.Store(true)
	c.cancel()
	close(c.events)
}

func (c *client) isClosed() bool {
	return c.closed.Load()
}

// send attempts to send an event to the client.
// Returns false if the client buffer is full (slow client).
func (c *client) send(event Event) bool {
	if c.isClosed() {
		return false
	}

	select {
	case c.events <- event:
		return true
	default:
		return false
	}
}
