package scheduler

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aldwake/PetGrotto_Go/internal/logger"
	"github.com/aldwake/PetGrotto_Go/internal/worker"
)

// Scheduler enqueues jobs to the worker pool on fixed cadences. The
// clock is injected so cadences can be driven deterministically in
// tests.
type Scheduler struct {
	pool  *worker.Pool
	clock clockwork.Clock
	quit  chan struct{}
	wg    sync.WaitGroup
}

// New creates a scheduler over a running worker pool.
func New(pool *worker.Pool, clock clockwork.Clock) *Scheduler {
	return &Scheduler{
		pool:  pool,
		clock: clock,
		quit:  make(chan struct{}),
	}
}

// Schedule registers a job to run at a fixed interval. A full job
// queue drops that run rather than stalling the cadence.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := s.clock.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.Chan():
				if !s.pool.TryEnqueue(job) {
					logger.Warn(worker.LogMsgJobQueueFull, "interval", interval)
				}
			case <-s.quit:
				return
			}
		}
	}()
}

// Stop stops all cadences. Jobs already enqueued still run.
func (s *Scheduler) Stop() {
	close(s.quit)
	s.wg.Wait()
}
