package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/models"
)

// GetSyncStatus implements SyncService.
//
// The optional lastSyncedAt narrows both counts to batches created after
// that instant, letting a device ask "what happened since I last looked"
// instead of re-counting its whole history.
func (s *syncService) GetSyncStatus(ctx context.Context, userID int64, deviceID string, lastSyncedAt *time.Time) (models.SyncStatus, error) {
	log := logger.FromContext(ctx)

	pending, err := s.batches.CountPendingBatches(ctx, userID, deviceID, lastSyncedAt)
	if err != nil {
		log.Err(err).Str("func", "syncService.GetSyncStatus").Str("deviceID", deviceID).Msg("error counting pending batches")
		return models.SyncStatus{}, fmt.Errorf("error counting pending batches: %w", err)
	}

	conflicts, err := s.batches.CountUnresolvedForDevice(ctx, userID, deviceID, lastSyncedAt)
	if err != nil {
		log.Err(err).Str("func", "syncService.GetSyncStatus").Str("deviceID", deviceID).Msg("error counting unresolved conflicts")
		return models.SyncStatus{}, fmt.Errorf("error counting unresolved conflicts: %w", err)
	}

	syncedAt, err := s.batches.LastSyncedAt(ctx, userID, deviceID)
	if err != nil {
		log.Err(err).Str("func", "syncService.GetSyncStatus").Str("deviceID", deviceID).Msg("error loading last synced time")
		return models.SyncStatus{}, fmt.Errorf("error loading last synced time: %w", err)
	}

	return models.SyncStatus{
		PendingChanges: pending,
		Conflicts:      conflicts,
		LastSyncedAt:   syncedAt,
	}, nil
}
