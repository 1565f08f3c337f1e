package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/models"
)

// batchRepository is the PostgreSQL-backed implementation of [BatchStore].
// The item list of a batch is stored as a jsonb snapshot taken at queue
// time, so conflict resolution can later replay the exact payload the
// client submitted, regardless of what happened to the live documents.
type batchRepository struct {
	*DB
	logger *logger.Logger
}

// NewBatchRepository constructs a [BatchStore] backed by the provided
// database connection and logger.
func NewBatchRepository(db *DB, logger *logger.Logger) BatchStore {
	return &batchRepository{
		DB:     db,
		logger: logger,
	}
}

// CreateBatch inserts a new batch row with its immutable item snapshot.
func (b *batchRepository) CreateBatch(ctx context.Context, batch *models.SyncBatch) error {
	log := logger.FromContext(ctx)

	itemsJSON, err := json.Marshal(batch.Items)
	if err != nil {
		log.Err(err).
			Str("func", "batchRepository.CreateBatch").
			Str("batch_id", batch.BatchID).
			Msg("failed to marshal batch items")
		return fmt.Errorf("failed to marshal batch items: %w", err)
	}

	_, execErr := b.DB.ExecContext(ctx, createSyncBatch,
		batch.BatchID,
		batch.UserID,
		batch.DeviceID,
		itemsJSON,
		batch.Status,
		batch.CreatedAt,
	)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "batchRepository.CreateBatch").
			Str("batch_id", batch.BatchID).
			Int64("user_id", batch.UserID).
			Str("pg_code", postgresError(execErr)).
			Msg("failed to insert sync batch")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	log.Info().
		Str("func", "batchRepository.CreateBatch").
		Str("batch_id", batch.BatchID).
		Int64("user_id", batch.UserID).
		Int("items_count", len(batch.Items)).
		Msg("sync batch queued")

	return nil
}

// GetBatch loads one batch together with its recorded conflicts.
func (b *batchRepository) GetBatch(ctx context.Context, batchID string) (models.SyncBatch, error) {
	log := logger.FromContext(ctx)

	var batch models.SyncBatch
	var itemsJSON []byte

	err := b.DB.QueryRowContext(ctx, getSyncBatch, batchID).Scan(
		&batch.BatchID,
		&batch.UserID,
		&batch.DeviceID,
		&itemsJSON,
		&batch.Status,
		&batch.CreatedAt,
		&batch.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SyncBatch{}, ErrBatchNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "batchRepository.GetBatch").
			Str("batch_id", batchID).
			Msg("failed to execute query for getting sync batch")
		return models.SyncBatch{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if unmarshalErr := json.Unmarshal(itemsJSON, &batch.Items); unmarshalErr != nil {
		log.Err(unmarshalErr).
			Str("func", "batchRepository.GetBatch").
			Str("batch_id", batchID).
			Msg("failed to unmarshal batch items")
		return models.SyncBatch{}, fmt.Errorf("failed to unmarshal batch items: %w", unmarshalErr)
	}

	conflicts, conflictsErr := b.getConflictsByBatch(ctx, batchID)
	if conflictsErr != nil {
		return models.SyncBatch{}, conflictsErr
	}
	batch.Conflicts = conflicts

	return batch, nil
}

// SetBatchStatus performs the conditional forward transition from → to.
func (b *batchRepository) SetBatchStatus(ctx context.Context, batchID string, from, to models.BatchStatus, completedAt *time.Time) error {
	log := logger.FromContext(ctx)

	result, err := b.DB.ExecContext(ctx, setSyncBatchStatus, batchID, from, to, completedAt)
	if err != nil {
		log.Err(err).
			Str("func", "batchRepository.SetBatchStatus").
			Str("batch_id", batchID).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("failed to execute status transition")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		// Either the batch does not exist or it has already moved on.
		if _, getErr := b.GetBatch(ctx, batchID); errors.Is(getErr, ErrBatchNotFound) {
			return ErrBatchNotFound
		}

		log.Warn().
			Str("func", "batchRepository.SetBatchStatus").
			Str("batch_id", batchID).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("batch status transition rejected: batch not in expected state")
		return ErrBatchStateConflict
	}

	log.Debug().
		Str("func", "batchRepository.SetBatchStatus").
		Str("batch_id", batchID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("batch status transitioned")

	return nil
}

// SaveConflicts records the detector's findings and flips the batch to
// conflict status inside a single transaction, so a crash between the two
// writes cannot leave conflicts attached to a pending batch.
func (b *batchRepository) SaveConflicts(ctx context.Context, batchID string, userID int64, conflicts []models.Conflict) error {
	log := logger.FromContext(ctx)

	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "batchRepository.SaveConflicts").
			Str("batch_id", batchID).
			Int("conflicts_count", len(conflicts)).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, saveSyncConflict)
	if err != nil {
		log.Err(err).
			Str("func", "batchRepository.SaveConflicts").
			Str("batch_id", batchID).
			Msg("failed to prepare statement")
		return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer stmt.Close()

	for idx, conflict := range conflicts {
		log.Debug().
			Str("func", "batchRepository.SaveConflicts").
			Int("iteration", idx+1).
			Int("total", len(conflicts)).
			Str("conflict_id", conflict.ConflictID).
			Str("item_id", conflict.ItemID).
			Msg("recording conflict in transaction")

		_, execErr := stmt.ExecContext(ctx,
			conflict.ConflictID,
			batchID,
			userID,
			conflict.ItemID,
			conflict.Type,
			conflict.ClientVersion,
			conflict.ServerVersion,
			conflict.Message,
		)
		if execErr != nil {
			log.Err(execErr).
				Str("func", "batchRepository.SaveConflicts").
				Int("iteration", idx+1).
				Str("conflict_id", conflict.ConflictID).
				Msg("failed to execute prepared statement")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
	}

	result, transitionErr := tx.ExecContext(ctx, setSyncBatchStatus,
		batchID, models.BatchPending, models.BatchConflict, nil)
	if transitionErr != nil {
		log.Err(transitionErr).
			Str("func", "batchRepository.SaveConflicts").
			Str("batch_id", batchID).
			Msg("failed to flip batch status to conflict")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, transitionErr)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrBatchStateConflict
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "batchRepository.SaveConflicts").
			Str("batch_id", batchID).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Info().
		Str("func", "batchRepository.SaveConflicts").
		Str("batch_id", batchID).
		Int("conflicts_count", len(conflicts)).
		Msg("conflicts recorded, batch flagged")

	return nil
}

// GetConflict loads one conflict row.
func (b *batchRepository) GetConflict(ctx context.Context, conflictID string) (models.Conflict, error) {
	log := logger.FromContext(ctx)

	conflict, err := scanConflict(b.DB.QueryRowContext(ctx, getSyncConflict, conflictID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conflict{}, ErrConflictNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "batchRepository.GetConflict").
			Str("conflict_id", conflictID).
			Msg("failed to execute query for getting conflict")
		return models.Conflict{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return conflict, nil
}

// ListUnresolvedConflicts returns every open conflict owned by the user.
func (b *batchRepository) ListUnresolvedConflicts(ctx context.Context, userID int64) ([]models.Conflict, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListUnresolvedQuery(userID)
	if err != nil {
		log.Err(err).
			Str("func", "batchRepository.ListUnresolvedConflicts").
			Int64("user_id", userID).
			Msg("failed to create query")
		return nil, err
	}

	rows, queryErr := b.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "batchRepository.ListUnresolvedConflicts").
			Int64("user_id", userID).
			Msg("failed to execute query for listing conflicts")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	return collectConflicts(rows)
}

// MarkConflictResolved annotates the conflict with the chosen strategy.
// The guard in the statement makes a double resolution a zero-row update.
func (b *batchRepository) MarkConflictResolved(ctx context.Context, conflictID string, resolution models.Resolution, resolvedData json.RawMessage, resolvedAt time.Time) error {
	log := logger.FromContext(ctx)

	var dataArg any
	if len(resolvedData) > 0 {
		dataArg = []byte(resolvedData)
	}

	result, err := b.DB.ExecContext(ctx, markSyncConflictResolved,
		conflictID, resolution, dataArg, resolvedAt)
	if err != nil {
		log.Err(err).
			Str("func", "batchRepository.MarkConflictResolved").
			Str("conflict_id", conflictID).
			Msg("failed to execute resolution update")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		if _, getErr := b.GetConflict(ctx, conflictID); errors.Is(getErr, ErrConflictNotFound) {
			return ErrConflictNotFound
		}

		log.Warn().
			Str("func", "batchRepository.MarkConflictResolved").
			Str("conflict_id", conflictID).
			Msg("conflict already carries a resolution")
		return ErrConflictAlreadyResolved
	}

	log.Info().
		Str("func", "batchRepository.MarkConflictResolved").
		Str("conflict_id", conflictID).
		Str("resolution", string(resolution)).
		Msg("conflict resolved")

	return nil
}

// CountUnresolvedByBatch reports the number of open conflicts on a batch.
func (b *batchRepository) CountUnresolvedByBatch(ctx context.Context, batchID string) (int, error) {
	log := logger.FromContext(ctx)

	var count int
	err := b.DB.QueryRowContext(ctx, countUnresolvedByBatch, batchID).Scan(&count)
	if err != nil {
		log.Err(err).
			Str("func", "batchRepository.CountUnresolvedByBatch").
			Str("batch_id", batchID).
			Msg("failed to count unresolved conflicts")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

// CountPendingBatches counts a device's batches still in pending status.
func (b *batchRepository) CountPendingBatches(ctx context.Context, userID int64, deviceID string, since *time.Time) (int, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCountPendingQuery(userID, deviceID, since)
	if err != nil {
		log.Err(err).
			Str("func", "batchRepository.CountPendingBatches").
			Int64("user_id", userID).
			Msg("failed to create query")
		return 0, err
	}

	var count int
	if scanErr := b.DB.QueryRowContext(ctx, query, args...).Scan(&count); scanErr != nil {
		log.Err(scanErr).
			Str("func", "batchRepository.CountPendingBatches").
			Int64("user_id", userID).
			Str("device_id", deviceID).
			Msg("failed to count pending batches")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	return count, nil
}

// CountUnresolvedForDevice counts open conflicts across a device's batches.
func (b *batchRepository) CountUnresolvedForDevice(ctx context.Context, userID int64, deviceID string, since *time.Time) (int, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildCountUnresolvedQuery(userID, deviceID, since)
	if err != nil {
		log.Err(err).
			Str("func", "batchRepository.CountUnresolvedForDevice").
			Int64("user_id", userID).
			Msg("failed to create query")
		return 0, err
	}

	var count int
	if scanErr := b.DB.QueryRowContext(ctx, query, args...).Scan(&count); scanErr != nil {
		log.Err(scanErr).
			Str("func", "batchRepository.CountUnresolvedForDevice").
			Int64("user_id", userID).
			Str("device_id", deviceID).
			Msg("failed to count unresolved conflicts")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	return count, nil
}

// LastSyncedAt returns the device's most recent successful sync time.
func (b *batchRepository) LastSyncedAt(ctx context.Context, userID int64, deviceID string) (*time.Time, error) {
	log := logger.FromContext(ctx)

	var lastSyncedAt *time.Time
	err := b.DB.QueryRowContext(ctx, lastSyncedAtQuery, userID, deviceID).Scan(&lastSyncedAt)
	if err != nil {
		log.Err(err).
			Str("func", "batchRepository.LastSyncedAt").
			Int64("user_id", userID).
			Str("device_id", deviceID).
			Msg("failed to query last synced timestamp")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return lastSyncedAt, nil
}

// ExpireStaleBatches reaps pending batches older than the cutoff.
func (b *batchRepository) ExpireStaleBatches(ctx context.Context, olderThan time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := b.DB.ExecContext(ctx, expireStaleBatches, olderThan)
	if err != nil {
		log.Err(err).
			Str("func", "batchRepository.ExpireStaleBatches").
			Time("older_than", olderThan).
			Msg("failed to expire stale batches")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	expired, _ := result.RowsAffected()
	if expired > 0 {
		log.Info().
			Str("func", "batchRepository.ExpireStaleBatches").
			Int64("expired_count", expired).
			Msg("stale pending batches expired")
	}

	return expired, nil
}

// getConflictsByBatch loads all conflicts recorded against one batch.
func (b *batchRepository) getConflictsByBatch(ctx context.Context, batchID string) ([]models.Conflict, error) {
	log := logger.FromContext(ctx)

	rows, err := b.DB.QueryContext(ctx, getBatchConflicts, batchID)
	if err != nil {
		log.Err(err).
			Str("func", "batchRepository.getConflictsByBatch").
			Str("batch_id", batchID).
			Msg("failed to execute query for batch conflicts")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	return collectConflicts(rows)
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanConflict(row rowScanner) (models.Conflict, error) {
	var conflict models.Conflict
	var resolution sql.NullString
	var resolvedData []byte

	err := row.Scan(
		&conflict.ConflictID,
		&conflict.BatchID,
		&conflict.ItemID,
		&conflict.Type,
		&conflict.ClientVersion,
		&conflict.ServerVersion,
		&conflict.Message,
		&resolution,
		&resolvedData,
		&conflict.ResolvedAt,
	)
	if err != nil {
		return models.Conflict{}, err
	}

	if resolution.Valid {
		conflict.Resolution = models.Resolution(resolution.String)
	}
	if len(resolvedData) > 0 {
		conflict.ResolvedData = resolvedData
	}

	return conflict, nil
}

func collectConflicts(rows *sql.Rows) ([]models.Conflict, error) {
	conflicts := make([]models.Conflict, 0, 8)

	for rows.Next() {
		conflict, scanErr := scanConflict(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		conflicts = append(conflicts, conflict)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return conflicts, nil
}
