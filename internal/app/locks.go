package service

import (
	"sync"

	"github.com/okian/jungle/internal/adapters/mq/queue"
)

// roundLocks serializes recalculations of the same kind for the same
// round, including ones picked up by different workers.
type roundLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// lock blocks until job's slot is free and returns its release func.
func (l *roundLocks) lock(job queue.Job) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[job.Key()]
	if !ok {
		m = &sync.Mutex{}
		l.locks[job.Key()] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
