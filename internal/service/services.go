package service

import (
	"github.com/mealkeep/syncserver/internal/config"
	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/internal/store"
)

type Services struct {
	SyncService SyncService
}

func NewServices(storages store.Storages, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		SyncService: NewSyncService(storages.DocumentStore, storages.BatchStore, logger),
	}
}
