package lifecycle

import "sync"

// queue runs tasks one at a time, in post order, on a single goroutine.
// post never blocks, so tasks may post follow-up work. Tasks posted
// before close still run; posts after close are refused.
type queue struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool
	wake   chan struct{}
}

func newQueue() *queue {
	q := &queue{wake: make(chan struct{}, 1)}
	go q.run()
	return q
}

// post enqueues fn. It reports false once the queue is closed.
func (q *queue) post(fn func()) bool {
	if fn == nil {
		return true
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()
	q.signal()
	return true
}

func (q *queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// drain takes the pending tasks. done is true once the queue is closed
// and empty.
func (q *queue) drain() (tasks []func(), done bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	tasks = q.tasks
	q.tasks = nil
	return tasks, q.closed && len(tasks) == 0
}

func (q *queue) run() {
	for range q.wake {
		for {
			tasks, done := q.drain()
			if done {
				return
			}
			if len(tasks) == 0 {
				break
			}
			for _, fn := range tasks {
				fn()
			}
		}
	}
}

func (q *queue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}
