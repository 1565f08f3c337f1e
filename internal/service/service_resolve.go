package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/internal/store"
	"github.com/mealkeep/syncserver/models"
)

// ResolveConflict implements SyncService.
//
// Strategy semantics:
//   - client: the client's original payload from the batch snapshot wins,
//     written at version max(clientVersion, serverVersion)+1.
//   - server: the stored payload stands; only the version is bumped to
//     serverVersion+1 so the client's next fetch sees fresh state. The
//     winning payload is copied onto the conflict record for audit.
//   - manual: caller-supplied merged data wins, written at version
//     max(clientVersion, serverVersion)+1 and kept on the conflict record.
//
// Every write goes through the same version guards as batch processing,
// so a resolution racing a newer write loses with ErrVersionConflict
// instead of silently overwriting it.
//
// The owning batch flips conflict → synced once its last conflict is
// resolved.
func (s *syncService) ResolveConflict(ctx context.Context, userID int64, conflictID string, resolution models.Resolution, manualData json.RawMessage) error {
	log := logger.FromContext(ctx)

	if !resolution.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidResolution, resolution)
	}
	if resolution == models.ResolutionManual && len(manualData) == 0 {
		return ErrManualDataRequired
	}

	conflict, err := s.batches.GetConflict(ctx, conflictID)
	if err != nil {
		return err
	}
	if conflict.Resolved() {
		return fmt.Errorf("%w: %s", store.ErrConflictAlreadyResolved, conflictID)
	}

	batch, err := s.batches.GetBatch(ctx, conflict.BatchID)
	if err != nil {
		return err
	}
	if batch.UserID != userID {
		// Do not reveal other users' conflict IDs.
		return store.ErrConflictNotFound
	}
	if batch.Status != models.BatchConflict {
		return fmt.Errorf("%w: batch %s is %s", ErrBatchNotInConflict, batch.BatchID, batch.Status)
	}

	resolvedData, err := s.applyResolution(ctx, userID, batch, conflict, resolution, manualData)
	if err != nil {
		log.Err(err).Str("func", "syncService.ResolveConflict").Str("conflictID", conflictID).Msg("error applying resolution")
		return err
	}

	now := time.Now().UTC()
	if err := s.batches.MarkConflictResolved(ctx, conflictID, resolution, resolvedData, now); err != nil {
		return err
	}

	remaining, err := s.batches.CountUnresolvedByBatch(ctx, conflict.BatchID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		err := s.batches.SetBatchStatus(ctx, conflict.BatchID, models.BatchConflict, models.BatchSynced, &now)
		if err != nil && !errors.Is(err, store.ErrBatchStateConflict) {
			// A state conflict means a concurrent resolver already
			// flipped the batch, which is the outcome we wanted.
			return err
		}
	}

	return nil
}

// applyResolution performs the version-store write a strategy demands
// and returns the payload to keep on the conflict record: nil for
// client wins (the batch snapshot already holds it), the stored
// document for server wins, the merged data for manual.
func (s *syncService) applyResolution(ctx context.Context, userID int64, batch models.SyncBatch, conflict models.Conflict, resolution models.Resolution, manualData json.RawMessage) (json.RawMessage, error) {
	key := models.DocumentKey{Type: conflict.Type, ID: conflict.ItemID}
	newVersion := max(conflict.ClientVersion, conflict.ServerVersion) + 1

	switch resolution {
	case models.ResolutionClient:
		item, found := batchItem(batch, conflict)
		if !found {
			return nil, fmt.Errorf("batch %s has no snapshot for item %s %q", batch.BatchID, conflict.Type, conflict.ItemID)
		}
		if item.Deleted {
			// The client's change was a deletion; honoring it removes
			// the document through the same guarded path as processing.
			tombstone := item
			tombstone.Version = newVersion
			_, casConflict, err := s.documents.ApplyItems(ctx, userID, []models.SyncItem{tombstone})
			if err != nil {
				return nil, err
			}
			if casConflict != nil {
				return nil, fmt.Errorf("%w: document %s %q moved to version %d", store.ErrVersionConflict, conflict.Type, conflict.ItemID, casConflict.ServerVersion)
			}
			return nil, nil
		}
		return nil, s.documents.WriteDocument(ctx, userID, key, item.Data, newVersion)

	case models.ResolutionServer:
		doc, err := s.documents.GetDocument(ctx, userID, key)
		if err != nil {
			return nil, err
		}
		if err := s.documents.BumpVersion(ctx, userID, key, conflict.ServerVersion+1); err != nil {
			return nil, err
		}
		return doc.Data, nil

	case models.ResolutionManual:
		return manualData, s.documents.WriteDocument(ctx, userID, key, manualData, newVersion)
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidResolution, resolution)
}

// batchItem finds the conflicting item in the batch's immutable snapshot.
func batchItem(batch models.SyncBatch, conflict models.Conflict) (models.SyncItem, bool) {
	for _, item := range batch.Items {
		if item.ID == conflict.ItemID && item.Type == conflict.Type {
			return item, true
		}
	}
	return models.SyncItem{}, false
}

// ListConflicts implements SyncService.
func (s *syncService) ListConflicts(ctx context.Context, userID int64) ([]models.Conflict, error) {
	return s.batches.ListUnresolvedConflicts(ctx, userID)
}
