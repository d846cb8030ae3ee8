// Package service implements the sportsbook operations served by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/jungle/internal/adapters/mq/queue"
	"github.com/okian/jungle/internal/adapters/mq/worker"
	"github.com/okian/jungle/internal/adapters/repository"
	"github.com/okian/jungle/internal/domain/dedupe"
	"github.com/okian/jungle/internal/domain/league"
	"github.com/okian/jungle/internal/domain/schedule"
	"github.com/okian/jungle/internal/domain/scoring"
	"github.com/okian/jungle/pkg/logger"
	"github.com/okian/jungle/pkg/metrics"
)

const (
	defaultWorkerCount = 2
	defaultQueueSize   = 1024
	defaultDedupeSize  = 1024
)

// Service coordinates storage, the league catalog, the schedule and the
// background recalculation workers.
//
// Until Start is called, recalculations triggered by writes run inline.
type Service struct {
	store    repository.Store
	league   *league.League
	schedule *schedule.Schedule
	calc     *scoring.Calculator
	now      func() time.Time

	mu      sync.RWMutex
	started bool
	pending dedupe.Deduper
	queue   *queue.InMemoryQueue
	pool    *worker.Pool
	running roundLocks

	workerCount int
	queueSize   int
	dedupeSize  int

	logger logger.Logger
}

// New constructs a Service over store.
func New(store repository.Store, lg *league.League, sched *schedule.Schedule, opts ...Option) *Service {
	s := &Service{
		store:       store,
		league:      lg,
		schedule:    sched,
		calc:        scoring.NewCalculator(),
		now:         time.Now,
		workerCount: defaultWorkerCount,
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start launches the worker pool. Calling it twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.pending = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithDeduper(s.pending),
	)
	s.pool = worker.NewPool(s.workerCount, s.queue, s)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "sportsbook service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop drains the queue and waits for the workers.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	s.logger.Info(ctx, "stopping sportsbook service...")

	err := s.pool.Shutdown(ctx)
	s.started = false
	s.logger.Info(ctx, "sportsbook service stopped")
	return err
}

// Ping checks the database.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// trigger schedules a recalculation. Before Start, or if the service is
// stopping, the job runs on the caller's goroutine.
func (s *Service) trigger(ctx context.Context, j queue.Job) error {
	s.mu.RLock()
	started := s.started
	q := s.queue
	s.mu.RUnlock()

	if started {
		err := q.Enqueue(ctx, j)
		if err == nil {
			return nil
		}
		if !errors.Is(err, queue.ErrClosed) {
			return fmt.Errorf("queue %s job for round %d: %w", j.Kind, j.Round, err)
		}
	}
	return s.run(ctx, j)
}

func (s *Service) run(ctx context.Context, j queue.Job) error {
	var err error
	switch j.Kind {
	case queue.KindLines:
		_, err = s.RefreshLines(ctx, j.Round)
	case queue.KindScores:
		_, err = s.CalculateScores(ctx, j.Round)
	default:
		err = fmt.Errorf("unknown job kind %q", j.Kind)
	}
	return err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"dedupeSize":   s.dedupeSize,
		"rounds":       len(s.schedule.Numbers()),
		"participants": len(s.league.Players()),
		"bettors":      len(s.league.Bettors()),
	}

	if s.started {
		queueLen := s.queue.Len(context.Background())
		stats["queueLength"] = queueLen
		stats["pendingJobs"] = s.pending.Size()
		stats["poolSize"] = s.pool.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.pool.Size())
	}
	return stats
}
