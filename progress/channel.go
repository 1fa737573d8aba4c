// Package progress implements the ordered, unbounded delivery path between a
// running research agent (single producer) and its observer (single
// consumer). Publishing never blocks: an internal pump goroutine buffers
// pending events in memory so the producer is decoupled from a slow consumer.
package progress

import (
	"github.com/hupe1980/researchmesh/core"
)

// Channel relays progress events in FIFO order from one producer to one
// consumer. A nil *Channel is a valid silent sink: Publish on nil drops the
// event, so agent steps can emit unconditionally whether or not an observer
// is attached.
type Channel struct {
	in  chan core.ProgressEvent
	out chan core.ProgressEvent
}

// NewChannel creates a channel and starts its pump goroutine. The pump exits
// once Close has been called and all buffered events are drained.
func NewChannel() *Channel {
	c := &Channel{
		in:  make(chan core.ProgressEvent),
		out: make(chan core.ProgressEvent),
	}
	go c.pump()
	return c
}

// pump shuttles events from in to out through an unbounded queue. Receiving
// from in is always possible (the select never commits to a blocked send
// alone), so producers never wait on the consumer.
func (c *Channel) pump() {
	var queue []core.ProgressEvent
	for {
		var sendCh chan core.ProgressEvent
		var next core.ProgressEvent
		if len(queue) > 0 {
			sendCh = c.out
			next = queue[0]
		}
		select {
		case ev, ok := <-c.in:
			if !ok {
				for _, pending := range queue {
					c.out <- pending
				}
				close(c.out)
				return
			}
			queue = append(queue, ev)
		case sendCh <- next:
			queue = queue[1:]
		}
	}
}

// Publish enqueues an event for delivery. It preserves emission order and
// never blocks indefinitely. Publishing on a nil channel silently drops the
// event.
func (c *Channel) Publish(ev core.ProgressEvent) {
	if c == nil {
		return
	}
	c.in <- ev
}

// Events returns the consumer side. It is closed after Close once all
// buffered events have been delivered.
func (c *Channel) Events() <-chan core.ProgressEvent {
	if c == nil {
		return nil
	}
	return c.out
}

// Close stops the producer side. Buffered events are still delivered to the
// consumer before the Events channel closes. Close must be called exactly
// once, by the producer.
func (c *Channel) Close() {
	if c == nil {
		return
	}
	close(c.in)
}
