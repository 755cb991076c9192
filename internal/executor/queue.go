package executor

import (
	"sync"

	"pkt.systems/vshell/schema"
)

// Item is one queued message from a process session: an output fragment or
// the final exit status.
type Item struct {
	Session  uint64
	Fragment *schema.OutputFragment
	Exit     *schema.ExitStatus
}

// Queue is the append-only hand-off from reader goroutines to the event
// loop. Any number of goroutines may Push; exactly one consumer Drains.
type Queue struct {
	mu     sync.Mutex
	items  []Item
	notify chan struct{}
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{notify: make(chan struct{}, 1)}
}

// Push appends an item and wakes the consumer.
func (q *Queue) Push(item Item) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Drain removes and returns every queued item in arrival order.
func (q *Queue) Drain() []Item {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}

// Notify fires at least once after any Push since the last receive.
func (q *Queue) Notify() <-chan struct{} {
	return q.notify
}
