// internal/app/system/workers/refresher.go
package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/hygienedash/internal/app/system/dataset"
	"go.uber.org/zap"
)

// Refresher is a background worker that reloads the dashboard data on a
// fixed interval and on demand. Each cycle runs in its own goroutine so a
// new cycle can supersede one still in flight.
type Refresher struct {
	loader   *dataset.Loader
	log      *zap.Logger
	interval time.Duration

	trigger  chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRefresher creates a refresh worker.
//
// Parameters:
//   - loader: runs and commits each refresh cycle
//   - logger: zap logger for logging
//   - interval: how often to refresh (e.g., 5 minutes)
func NewRefresher(loader *dataset.Loader, logger *zap.Logger, interval time.Duration) *Refresher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Refresher{
		loader:   loader,
		log:      logger,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs the first refresh and begins the interval loop.
func (w *Refresher) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("refresh worker started", zap.Duration("interval", w.interval))
}

// Stop cancels any running cycle and waits for the worker to finish.
// Safe to call more than once.
func (w *Refresher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.cancel()
		w.wg.Wait()
		w.log.Info("refresh worker stopped")
	})
}

// Trigger requests a manual refresh without waiting for it. Requests made
// while one is already queued are merged.
func (w *Refresher) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// RefreshNow runs a manual refresh and waits for it. Canceling ctx stops the
// wait and the cycle; so does a newer cycle starting or Stop.
func (w *Refresher) RefreshNow(ctx context.Context) (dataset.Snapshot, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(w.ctx, cancel)
	defer stop()
	return w.loader.Refresh(ctx, dataset.TriggerManual)
}

func (w *Refresher) run() {
	defer w.wg.Done()

	w.cycle(dataset.TriggerStartup)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.cycle(dataset.TriggerInterval)
		case <-w.trigger:
			w.cycle(dataset.TriggerManual)
		}
	}
}

func (w *Refresher) cycle(trigger dataset.Trigger) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		_, err := w.loader.Refresh(w.ctx, trigger)
		switch {
		case err == nil:
		case errors.Is(err, dataset.ErrSuperseded), errors.Is(err, context.Canceled):
			w.log.Debug("refresh cycle ended early", zap.String("trigger", string(trigger)), zap.Error(err))
		default:
			w.log.Error("refresh cycle failed", zap.String("trigger", string(trigger)), zap.Error(err))
		}
	}()
}
