package workers

import (
	"context"
	"time"

	"github.com/mealkeep/syncserver/internal/config"
	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/internal/store"
)

// BatchReaper periodically expires pending batches that have outlived the
// configured visibility timeout. Devices that queue a batch and never call
// process (lost phone, uninstalled app) would otherwise inflate pending
// counts forever.
type BatchReaper struct {
	batches  store.BatchStore
	interval time.Duration
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	logger *logger.Logger
}

func NewBatchReaper(batches store.BatchStore, cfg config.Workers, logger *logger.Logger) *BatchReaper {
	ctx, cancel := context.WithCancel(context.Background())

	return &BatchReaper{
		batches:  batches,
		interval: cfg.ReapInterval,
		timeout:  cfg.BatchVisibilityTimeout,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Run starts the reap loop in a background goroutine and returns
// immediately. The loop stops when [BatchReaper.Stop] is called.
func (r *BatchReaper) Run() {
	go r.loop()
}

// Stop cancels the reap loop and waits for an in-flight pass to finish.
func (r *BatchReaper) Stop() {
	r.cancel()
	<-r.done
}

func (r *BatchReaper) loop() {
	defer close(r.done)
	r.logger.Info().
		Dur("interval", r.interval).
		Dur("visibilityTimeout", r.timeout).
		Msg("batch reaper started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Info().Msg("batch reaper stopped")
			return
		case <-ticker.C:
			r.reap()
		}
	}
}

func (r *BatchReaper) reap() {
	cutoff := time.Now().UTC().Add(-r.timeout)

	expired, err := r.batches.ExpireStaleBatches(r.ctx, cutoff)
	if err != nil {
		r.logger.Err(err).Str("func", "*BatchReaper.reap").Msg("error expiring stale batches")
		return
	}

	if expired > 0 {
		r.logger.Info().Int64("expired", expired).Time("cutoff", cutoff).Msg("expired stale batches")
	}
}
