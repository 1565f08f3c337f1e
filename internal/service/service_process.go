package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/internal/store"
	"github.com/mealkeep/syncserver/models"
)

// CheckConflicts implements SyncService.
//
// Conflict rule: a stored version strictly greater than the submitted
// version means the server has moved past the client's base — conflict.
// A missing document or a stored version at or below the submitted one
// means the item would apply cleanly. Deletions follow the same rule, so
// a device cannot delete a document it has not seen the latest version of.
//
// The returned conflicts carry no IDs; the processor assigns them when it
// persists the findings.
func (s *syncService) CheckConflicts(ctx context.Context, userID int64, items []models.SyncItem) ([]models.Conflict, error) {
	log := logger.FromContext(ctx)

	keys := make([]models.DocumentKey, len(items))
	for i, item := range items {
		keys[i] = models.DocumentKey{Type: item.Type, ID: item.ID}
	}

	states, err := s.documents.GetStates(ctx, userID, keys)
	if err != nil {
		log.Err(err).Str("func", "syncService.CheckConflicts").Msg("error loading document states")
		return nil, fmt.Errorf("error loading document states: %w", err)
	}

	stored := make(map[models.DocumentKey]int64, len(states))
	for _, state := range states {
		stored[state.Key()] = state.Version
	}

	var conflicts []models.Conflict
	for _, item := range items {
		serverVersion, exists := stored[models.DocumentKey{Type: item.Type, ID: item.ID}]
		if !exists || serverVersion <= item.Version {
			continue
		}

		conflicts = append(conflicts, models.Conflict{
			ItemID:        item.ID,
			Type:          item.Type,
			ClientVersion: item.Version,
			ServerVersion: serverVersion,
			Message:       fmt.Sprintf("version mismatch for %s %q: server has %d, client submitted %d", item.Type, item.ID, serverVersion, item.Version),
		})
	}

	return conflicts, nil
}

// ProcessBatch implements SyncService.
//
// The flow is all-or-nothing: a detection pass first, then a single
// transaction applying every item. Each write inside that transaction
// re-checks the version guard, so a document changed between detection
// and apply surfaces as a conflict discovered at apply time rather than a
// lost update; the batch then flips to conflict exactly as if the
// detector had caught it.
//
// Re-processing is idempotent: a batch already synced or in conflict
// returns its recorded outcome, a storage failure leaves the batch
// pending for retry, and an expired batch returns ErrBatchExpired.
func (s *syncService) ProcessBatch(ctx context.Context, userID int64, batchID string) (models.ProcessResult, error) {
	log := logger.FromContext(ctx)

	batch, err := s.batches.GetBatch(ctx, batchID)
	if err != nil {
		return models.ProcessResult{}, err
	}
	if batch.UserID != userID {
		// Do not reveal other users' batch IDs.
		return models.ProcessResult{}, store.ErrBatchNotFound
	}

	switch batch.Status {
	case models.BatchSynced:
		return models.ProcessResult{BatchID: batchID, Status: models.BatchSynced, Applied: len(batch.Items)}, nil
	case models.BatchConflict:
		return models.ProcessResult{BatchID: batchID, Status: models.BatchConflict, Conflicts: batch.Conflicts}, nil
	case models.BatchExpired:
		return models.ProcessResult{}, fmt.Errorf("%w: %s", ErrBatchExpired, batchID)
	}

	conflicts, err := s.CheckConflicts(ctx, userID, batch.Items)
	if err != nil {
		return models.ProcessResult{}, err
	}
	if len(conflicts) > 0 {
		return s.recordConflicts(ctx, userID, batchID, conflicts)
	}

	applied, casConflict, err := s.documents.ApplyItems(ctx, userID, batch.Items)
	if err != nil {
		// The batch stays pending: a storage failure is retryable.
		log.Err(err).Str("func", "syncService.ProcessBatch").Str("batchID", batchID).Msg("error applying batch items")
		return models.ProcessResult{}, fmt.Errorf("error applying batch items: %w", err)
	}
	if casConflict != nil {
		// A document moved between detection and apply; the transaction
		// was rolled back with nothing written.
		return s.recordConflicts(ctx, userID, batchID, []models.Conflict{*casConflict})
	}

	now := time.Now().UTC()
	if err := s.batches.SetBatchStatus(ctx, batchID, models.BatchPending, models.BatchSynced, &now); err != nil {
		if errors.Is(err, store.ErrBatchStateConflict) {
			// A concurrent processor finished first; its outcome stands.
			return s.ProcessBatch(ctx, userID, batchID)
		}
		log.Err(err).Str("func", "syncService.ProcessBatch").Str("batchID", batchID).Msg("error marking batch synced")
		return models.ProcessResult{}, fmt.Errorf("error marking batch synced: %w", err)
	}

	return models.ProcessResult{BatchID: batchID, Status: models.BatchSynced, Applied: applied}, nil
}

// recordConflicts assigns IDs to the detector's findings, persists them,
// and flips the batch to conflict. When another processor got there
// first, the recorded outcome wins.
func (s *syncService) recordConflicts(ctx context.Context, userID int64, batchID string, conflicts []models.Conflict) (models.ProcessResult, error) {
	log := logger.FromContext(ctx)

	for i := range conflicts {
		conflicts[i].ConflictID = s.uuid.Generate()
		conflicts[i].BatchID = batchID
	}

	if err := s.batches.SaveConflicts(ctx, batchID, userID, conflicts); err != nil {
		if errors.Is(err, store.ErrBatchStateConflict) {
			return s.ProcessBatch(ctx, userID, batchID)
		}
		log.Err(err).Str("func", "syncService.recordConflicts").Str("batchID", batchID).Msg("error saving conflicts")
		return models.ProcessResult{}, fmt.Errorf("error saving conflicts: %w", err)
	}

	return models.ProcessResult{BatchID: batchID, Status: models.BatchConflict, Conflicts: conflicts}, nil
}
