package queue

import "sync"

// defaultCapacity bounds the queue so a misbehaving or flooding peer
// cannot grow server memory unboundedly; once full, Enqueue drops the
// oldest pending item to make room for the newest (spec.md §4.7 drains up
// to 200 items per tick, so a deeper backlog than that is already falling
// behind and old entries are the least useful to keep).
const defaultCapacity = 1024

// InMemoryQueue is a mutex-guarded FIFO, adapted from the teacher's
// channel-backed queue into a slice so ReadAllMessages/ClearQueue can
// inspect and drain the whole backlog in one call, as the server's
// bounded per-tick ingest loop needs (spec.md §4.7 step 1).
type InMemoryQueue struct {
	mu    sync.Mutex
	items []interface{}
	cap   int
}

// NewInMemoryQueue constructs an empty queue bounded at defaultCapacity.
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{cap: defaultCapacity}
}

// Enqueue appends item, dropping the oldest pending item if the queue is
// at capacity.
func (q *InMemoryQueue) Enqueue(item interface{}) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.cap {
		q.items = q.items[1:]
	}
	q.items = append(q.items, item)
}

// Dequeue removes and returns the oldest item, or nil if the queue is
// empty.
func (q *InMemoryQueue) Dequeue() interface{} {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item
}

// Size returns the number of pending items.
func (q *InMemoryQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// ReadAllMessages returns a snapshot copy of all pending items without
// removing them.
func (q *InMemoryQueue) ReadAllMessages() []interface{} {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]interface{}, len(q.items))
	copy(out, q.items)
	return out
}

// ClearQueue discards all pending items.
func (q *InMemoryQueue) ClearQueue() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}

var _ Queue = (*InMemoryQueue)(nil)
