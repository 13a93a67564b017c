package jobs

import (
	"context"
	"sync"
	"time"

	"trips-club/internal/logger"
)

// Sweeper promotes every viable proposal still in voting
type Sweeper interface {
	SweepViable(ctx context.Context) (int, error)
}

// ViabilitySweeper periodically promotes proposals whose support crossed the
// threshold without a request touching them
type ViabilitySweeper struct {
	sweeper  Sweeper
	interval time.Duration
	timeout  time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	mu      sync.Mutex
	started bool
}

// NewViabilitySweeper creates a new sweep job
func NewViabilitySweeper(sweeper Sweeper, interval time.Duration) *ViabilitySweeper {
	return &ViabilitySweeper{
		sweeper:  sweeper,
		interval: interval,
		timeout:  time.Minute,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs one sweep immediately and then one per interval until Stop.
// Only the first call runs the loop.
func (vs *ViabilitySweeper) Start() {
	vs.mu.Lock()
	if vs.started {
		vs.mu.Unlock()
		return
	}
	vs.started = true
	vs.mu.Unlock()
	defer close(vs.done)

	select {
	case <-vs.stopChan:
		return
	default:
	}
	logger.WithFields(logger.Fields{"interval": vs.interval.String()}).Info("Starting viability sweep job")

	vs.RunOnce()

	ticker := time.NewTicker(vs.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			vs.RunOnce()
		case <-vs.stopChan:
			logger.Info("Stopping viability sweep job")
			return
		}
	}
}

// Stop ends the loop and waits for an in-flight sweep to finish. Stopping a
// job that never started returns at once.
func (vs *ViabilitySweeper) Stop() {
	vs.stopOnce.Do(func() { close(vs.stopChan) })

	vs.mu.Lock()
	started := vs.started
	vs.mu.Unlock()
	if started {
		<-vs.done
	}
}

// RunOnce performs a single sweep and returns how many proposals it promoted
func (vs *ViabilitySweeper) RunOnce() int {
	ctx, cancel := context.WithTimeout(context.Background(), vs.timeout)
	defer cancel()

	promoted, err := vs.sweeper.SweepViable(ctx)
	if err != nil {
		logger.WithError(err).Error("Viability sweep failed")
		return promoted
	}
	if promoted > 0 {
		logger.WithFields(logger.Fields{"promoted": promoted}).Info("Viability sweep promoted proposals")
	}
	return promoted
}
