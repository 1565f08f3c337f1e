package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mealkeep/syncserver/models"
)

// SyncService is the synchronization engine: it queues device change
// batches, detects and applies them against the version store, settles
// conflicts, and reports outstanding work per device.
type SyncService interface {
	// QueueSync validates and persists a batch of client changes in
	// status pending. Nothing touches the version store yet.
	QueueSync(ctx context.Context, userID int64, deviceID string, items []models.SyncItem) (models.SyncBatch, error)

	// CheckConflicts compares each item's submitted version against the
	// stored document versions and returns one Conflict per item whose
	// stored version is strictly greater. Read-only.
	CheckConflicts(ctx context.Context, userID int64, items []models.SyncItem) ([]models.Conflict, error)

	// ProcessBatch runs a pending batch to completion: all items applied
	// and the batch synced, or conflicts recorded and the batch flipped
	// to conflict with no document mutated. Re-processing a finished
	// batch returns its recorded outcome.
	ProcessBatch(ctx context.Context, userID int64, batchID string) (models.ProcessResult, error)

	// SyncNow queues and immediately processes a batch in one call.
	SyncNow(ctx context.Context, userID int64, deviceID string, items []models.SyncItem) (models.ProcessResult, error)

	// ResolveConflict settles one conflict with the given strategy and
	// flips the owning batch to synced once its last conflict is gone.
	ResolveConflict(ctx context.Context, userID int64, conflictID string, resolution models.Resolution, manualData json.RawMessage) error

	// ListConflicts returns every unresolved conflict of the user.
	ListConflicts(ctx context.Context, userID int64) ([]models.Conflict, error)

	// GetSyncStatus reports pending batch and unresolved conflict counts
	// for a device, optionally ignoring batches created at or before
	// lastSyncedAt.
	GetSyncStatus(ctx context.Context, userID int64, deviceID string, lastSyncedAt *time.Time) (models.SyncStatus, error)
}
