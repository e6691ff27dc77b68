package graph

import (
	"context"
	"sync"
	"time"

	"github.com/dmorley/portalmap/pkg/logging"
)

// DefaultSweepInterval is how often the sweeper prunes expired
// connections. Expiry granularity is a minute, so anything in the
// low seconds is more than tight enough.
const DefaultSweepInterval = 5 * time.Second

// Sweeper periodically drives the engine's expiration sweep. Ticks call
// the engine synchronously, so at most one sweep is ever in flight and
// sweeps serialize with external mutations on the engine's own lock.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
	logger   logging.Logger
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewSweeper creates a sweeper for the engine. A non-positive interval
// falls back to DefaultSweepInterval.
func NewSweeper(engine *Engine, interval time.Duration, logger logging.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Sweeper{
		engine:   engine,
		interval: interval,
		logger:   logger.With(logging.Component("graph.sweeper")),
		done:     make(chan struct{}),
	}
}

// Start begins sweeping until ctx is cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("sweeper started", logging.Duration("interval", s.interval))
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case now := <-ticker.C:
				s.engine.SweepExpired(now)
			}
		}
	}()
}

// Stop halts the sweeper and waits for the in-flight tick, if any.
// Idempotent.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}
