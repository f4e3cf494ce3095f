package event

import "sync"

// Sender is the producer side of a Channel. Input and settings callbacks hold
// a Sender and never touch game state directly.
type Sender interface {
	Send(e Event)
}

// Channel is an unbounded multi-producer, single-consumer FIFO of events.
// Send never blocks; the frame loop drains it with TryReceive once per tick.
type Channel struct {
	mu    sync.Mutex
	queue []Event
	head  int
}

// NewChannel creates an empty channel.
func NewChannel() *Channel {
	return &Channel{}
}

// Send appends e. Safe for concurrent use.
func (c *Channel) Send(e Event) {
	c.mu.Lock()
	c.queue = append(c.queue, e)
	c.mu.Unlock()
}

// TryReceive returns the oldest queued event, or false when the channel is empty.
func (c *Channel) TryReceive() (Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.head == len(c.queue) {
		return nil, false
	}
	e := c.queue[c.head]
	c.queue[c.head] = nil
	c.head++

	// Reuse the backing array once fully drained.
	if c.head == len(c.queue) {
		c.queue = c.queue[:0]
		c.head = 0
	}
	return e, true
}

// Discard drops every queued event and returns how many were dropped.
func (c *Channel) Discard() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.queue) - c.head
	clear(c.queue)
	c.queue = c.queue[:0]
	c.head = 0
	return n
}

// Len returns the number of queued events.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue) - c.head
}
