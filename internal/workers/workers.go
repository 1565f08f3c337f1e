package workers

import (
	"github.com/mealkeep/syncserver/internal/config"
	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/internal/store"
)

type Workers struct {
	workers []Worker
}

func NewWorkers(storages *store.Storages, cfg config.Workers, logger *logger.Logger) *Workers {
	logger.Info().Msg("creating new workers...")

	return &Workers{
		workers: []Worker{
			NewBatchReaper(storages.BatchStore, cfg, logger),
		},
	}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

// Stop halts every worker, called once the HTTP server has drained.
func (w *Workers) Stop() {
	for _, worker := range w.workers {
		worker.Stop()
	}
}
