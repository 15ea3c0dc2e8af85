package sched

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-flow/flow/unit"
)

// ControlQueue is a bounded single-producer single-consumer event
// queue. One goroutine (a UI or network thread) pushes, the render
// goroutine drains it at block boundaries. Push never blocks; a full
// queue rejects the event.
type ControlQueue struct {
	buf  []unit.Event
	mask uint64
	head atomic.Uint64
	tail atomic.Uint64
}

// NewControlQueue creates a queue holding at least capacity events.
// The capacity is rounded up to the next power of two.
func NewControlQueue(capacity int) (*ControlQueue, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("sched: queue capacity must be positive: %d", capacity)
	}
	size := 1
	for size < capacity {
		size <<= 1
	}
	return &ControlQueue{
		buf:  make([]unit.Event, size),
		mask: uint64(size - 1),
	}, nil
}

// Cap returns the queue capacity.
func (q *ControlQueue) Cap() int {
	return len(q.buf)
}

// Len returns the number of queued events.
func (q *ControlQueue) Len() int {
	return int(q.tail.Load() - q.head.Load())
}

// Push enqueues an event. It reports false when the queue is full.
// Only one goroutine may push.
func (q *ControlQueue) Push(ev unit.Event) bool {
	tail := q.tail.Load()
	if tail-q.head.Load() == uint64(len(q.buf)) {
		return false
	}
	q.buf[tail&q.mask] = ev
	q.tail.Store(tail + 1)
	return true
}

// Pop dequeues the oldest event. It reports false when the queue is
// empty. Only one goroutine may pop.
func (q *ControlQueue) Pop() (unit.Event, bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return unit.Event{}, false
	}
	ev := q.buf[head&q.mask]
	q.head.Store(head + 1)
	return ev, true
}
