// Package scheduler hands work from background goroutines back to the update thread.
package scheduler

import (
	"context"
	"sync"
)

type Scheduler struct {
	mutex   sync.Mutex
	queue   []func()
	pending chan struct{}
}

func New() *Scheduler {
	return &Scheduler{
		pending: make(chan struct{}, 1),
	}
}

// Schedule queues fn to run on the next Update. Safe to call from any goroutine.
func (s *Scheduler) Schedule(fn func()) {
	s.mutex.Lock()
	s.queue = append(s.queue, fn)
	s.mutex.Unlock()

	select {
	case s.pending <- struct{}{}:
	default:
	}
}

// Update runs every queued task in FIFO order on the calling goroutine and
// returns how many ran. Tasks scheduled while running are left for the next Update.
func (s *Scheduler) Update() int {
	s.mutex.Lock()
	tasks := s.queue
	s.queue = nil
	s.mutex.Unlock()

	for _, task := range tasks {
		task()
	}

	return len(tasks)
}

// Wait blocks until at least one task is queued or ctx is done.
func (s *Scheduler) Wait(ctx context.Context) error {
	for {
		s.mutex.Lock()
		n := len(s.queue)
		s.mutex.Unlock()

		if n > 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.pending:
		}
	}
}
