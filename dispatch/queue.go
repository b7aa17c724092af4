package dispatch

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Queue is a goroutine-safe FIFO of closures drained on one thread.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	closed  bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Post appends fn. It returns false if the queue is closed.
func (q *Queue) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		logrus.WithFields(logrus.Fields{
			"function": "Queue.Post",
		}).Debug("Dropping work posted to closed queue")
		return false
	}
	q.pending = append(q.pending, fn)
	return true
}

// Drain runs every closure posted before the call and returns how many ran.
// Closures posted while draining run on the next Drain.
func (q *Queue) Drain() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Len returns the number of closures waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close discards pending work and rejects further posts.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.pending = nil
}
