package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mealkeep/syncserver/models"
)

// DocumentStore is the versioned-document access layer: every write goes
// through a conditional statement that enforces version monotonicity at
// the database, so a stale writer can never clobber a newer document.
type DocumentStore interface {
	// GetDocument returns one document, or [ErrDocumentNotFound].
	GetDocument(ctx context.Context, userID int64, key models.DocumentKey) (models.Document, error)

	// GetStates returns the stored version of every addressed document
	// that exists. Missing documents are simply absent from the result.
	GetStates(ctx context.Context, userID int64, keys []models.DocumentKey) ([]models.DocumentState, error)

	// ApplyItems writes a batch's items inside one transaction: upsert
	// for live items, delete for tombstones, each guarded by the item's
	// submitted version. On the first version-guard rejection the whole
	// transaction is rolled back and the offending item is returned as a
	// conflict (with the currently stored version); err is reserved for
	// storage failures.
	ApplyItems(ctx context.Context, userID int64, items []models.SyncItem) (applied int, conflict *models.Conflict, err error)

	// WriteDocument upserts a single document at an explicit version,
	// used when committing client/manual conflict resolutions. Returns
	// [ErrVersionConflict] when the store has moved past version.
	WriteDocument(ctx context.Context, userID int64, key models.DocumentKey, data json.RawMessage, version int64) error

	// BumpVersion advances only the version counter, used by the
	// "server" resolution strategy. Returns [ErrDocumentNotFound] or
	// [ErrVersionConflict].
	BumpVersion(ctx context.Context, userID int64, key models.DocumentKey, version int64) error
}

// BatchStore persists sync batches and their conflicts. Batches are an
// append-only audit trail: rows change status but are never removed.
type BatchStore interface {
	CreateBatch(ctx context.Context, batch *models.SyncBatch) error

	// GetBatch loads a batch with its conflict list, or
	// [ErrBatchNotFound].
	GetBatch(ctx context.Context, batchID string) (models.SyncBatch, error)

	// SetBatchStatus transitions a batch from → to conditionally; when
	// the batch is no longer in the from status, [ErrBatchStateConflict]
	// is returned and nothing changes.
	SetBatchStatus(ctx context.Context, batchID string, from, to models.BatchStatus, completedAt *time.Time) error

	// SaveConflicts records the detector's findings and flips the batch
	// from pending to conflict in one transaction.
	SaveConflicts(ctx context.Context, batchID string, userID int64, conflicts []models.Conflict) error

	// GetConflict returns one conflict, or [ErrConflictNotFound].
	GetConflict(ctx context.Context, conflictID string) (models.Conflict, error)

	// ListUnresolvedConflicts returns every open conflict of a user.
	ListUnresolvedConflicts(ctx context.Context, userID int64) ([]models.Conflict, error)

	// MarkConflictResolved annotates a conflict with its resolution.
	// Resolving an already-resolved conflict returns
	// [ErrConflictAlreadyResolved].
	MarkConflictResolved(ctx context.Context, conflictID string, resolution models.Resolution, resolvedData json.RawMessage, resolvedAt time.Time) error

	// CountUnresolvedByBatch reports how many conflicts on a batch still
	// await resolution.
	CountUnresolvedByBatch(ctx context.Context, batchID string) (int, error)

	// CountPendingBatches counts a device's batches in status pending,
	// optionally restricted to batches created after since.
	CountPendingBatches(ctx context.Context, userID int64, deviceID string, since *time.Time) (int, error)

	// CountUnresolvedForDevice counts unresolved conflicts across a
	// device's batches, optionally restricted to batches created after
	// since.
	CountUnresolvedForDevice(ctx context.Context, userID int64, deviceID string, since *time.Time) (int, error)

	// LastSyncedAt returns the completion time of the device's most
	// recently synced batch, nil when it has never synced.
	LastSyncedAt(ctx context.Context, userID int64, deviceID string) (*time.Time, error)

	// ExpireStaleBatches flips pending batches created before olderThan
	// to expired and reports how many were reaped.
	ExpireStaleBatches(ctx context.Context, olderThan time.Time) (int64, error)
}
