package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/internal/store"
	"github.com/mealkeep/syncserver/internal/utils"
	"github.com/mealkeep/syncserver/models"
)

// syncService is the concrete implementation of SyncService. It owns no
// state beyond its storage handles; every operation is driven by the
// version guards the store enforces, so the service stays safe under
// concurrent processors without any in-process locking.
type syncService struct {
	documents store.DocumentStore
	batches   store.BatchStore

	uuid *utils.UUIDGenerator

	logger *logger.Logger
}

// NewSyncService constructs a SyncService wired to the given document and
// batch stores. The returned service is safe for concurrent use.
func NewSyncService(documents store.DocumentStore, batches store.BatchStore, logger *logger.Logger) SyncService {
	return &syncService{
		documents: documents,
		batches:   batches,
		uuid:      utils.NewUUIDGenerator(),
		logger:    logger,
	}
}

// QueueSync implements SyncService.
//
// Items are validated and normalized (an unset version defaults to 1),
// then snapshotted into a new pending batch. The version store is not
// consulted: queueing must stay cheap so devices can submit while offline
// processing catches up.
//
// Returns the persisted batch or:
//   - ErrNoItemsProvided when items is empty.
//   - ErrEmptyItemID when an item carries no document ID.
//   - ErrUnsupportedResourceType when an item's type is unknown.
func (s *syncService) QueueSync(ctx context.Context, userID int64, deviceID string, items []models.SyncItem) (models.SyncBatch, error) {
	log := logger.FromContext(ctx)

	if len(items) == 0 {
		return models.SyncBatch{}, ErrNoItemsProvided
	}

	normalized := make([]models.SyncItem, len(items))
	for i, item := range items {
		if item.ID == "" {
			log.Error().Str("func", "syncService.QueueSync").Int("index", i).Msg("sync item has no ID")
			return models.SyncBatch{}, ErrEmptyItemID
		}
		if !item.Type.Valid() {
			log.Error().Str("func", "syncService.QueueSync").Str("type", string(item.Type)).Msg("unsupported resource type")
			return models.SyncBatch{}, fmt.Errorf("%w: %q", ErrUnsupportedResourceType, item.Type)
		}

		if item.Version <= 0 {
			item.Version = 1
		}
		if item.ClientID == "" {
			item.ClientID = deviceID
		}
		normalized[i] = item
	}

	batch := models.SyncBatch{
		BatchID:   s.uuid.Generate(),
		UserID:    userID,
		DeviceID:  deviceID,
		Items:     normalized,
		Status:    models.BatchPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.batches.CreateBatch(ctx, &batch); err != nil {
		log.Err(err).Str("func", "syncService.QueueSync").Str("batchID", batch.BatchID).Msg("error creating sync batch")
		return models.SyncBatch{}, fmt.Errorf("error creating sync batch: %w", err)
	}

	return batch, nil
}

// SyncNow implements SyncService: queue plus immediate processing in one
// call, for devices that are online and want their answer right away.
func (s *syncService) SyncNow(ctx context.Context, userID int64, deviceID string, items []models.SyncItem) (models.ProcessResult, error) {
	batch, err := s.QueueSync(ctx, userID, deviceID, items)
	if err != nil {
		return models.ProcessResult{}, err
	}

	return s.ProcessBatch(ctx, userID, batch.BatchID)
}
