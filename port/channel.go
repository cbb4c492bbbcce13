package port

import (
	"context"
	"sync"
)

// Channel is a buffered, context-aware channel. Unlike a bare channel it may
// be closed while senders are active: Send after Close returns ErrClosed.
type Channel[T any] struct {
	channel chan T
	closed  bool
	mu      sync.RWMutex
}

func NewChannel[T any](bufferSize int) *Channel[T] {
	return &Channel[T]{
		channel: make(chan T, bufferSize),
	}
}

func (c *Channel[T]) Send(ctx context.Context, message T) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClosed
	}

	select {
	case c.channel <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive blocks until a message arrives, ctx is done, or the channel is
// closed and drained.
func (c *Channel[T]) Receive(ctx context.Context) (T, error) {
	select {
	case message, ok := <-c.channel:
		if !ok {
			var zero T
			return zero, ErrClosed
		}
		return message, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (c *Channel[T]) TryReceive() (T, bool) {
	select {
	case message, ok := <-c.channel:
		return message, ok
	default:
		var zero T
		return zero, false
	}
}

// Close waits for in-flight sends to finish, then closes the channel.
// Buffered messages remain receivable.
func (c *Channel[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.channel)
	}
}

func (c *Channel[T]) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Channel[T]) QueueLength() int {
	return len(c.channel)
}
