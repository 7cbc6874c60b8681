package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnqueueDequeueFIFOOrder(t *testing.T) {
	q := NewInMemoryQueue()
	q.Enqueue(1)
	q.Enqueue(2)
	q.Enqueue(3)

	assert.Equal(t, 1, q.Dequeue())
	assert.Equal(t, 2, q.Dequeue())
	assert.Equal(t, 3, q.Dequeue())
	assert.Nil(t, q.Dequeue())
}

func TestSizeAndReadAllMessagesDoesNotConsume(t *testing.T) {
	q := NewInMemoryQueue()
	q.Enqueue("a")
	q.Enqueue("b")

	assert.Equal(t, 2, q.Size())
	all := q.ReadAllMessages()
	assert.Equal(t, []interface{}{"a", "b"}, all)
	assert.Equal(t, 2, q.Size())
}

func TestClearQueue(t *testing.T) {
	q := NewInMemoryQueue()
	q.Enqueue("a")
	q.ClearQueue()
	assert.Equal(t, 0, q.Size())
	assert.Nil(t, q.Dequeue())
}

func TestEnqueueDropsOldestBeyondCapacity(t *testing.T) {
	q := NewInMemoryQueue()
	q.cap = 2
	q.Enqueue(1)
	q.Enqueue(2)
	q.Enqueue(3)

	assert.Equal(t, 2, q.Size())
	assert.Equal(t, 2, q.Dequeue())
	assert.Equal(t, 3, q.Dequeue())
}
