package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/models"
)

// documentRepository is the PostgreSQL-backed implementation of
// [DocumentStore]. All writes run through CTE-based conditional statements
// that return both the pre-write stored version and the post-write result,
// so "not found", "applied", and "version conflict" are distinguished from
// a single round trip.
type documentRepository struct {
	*DB
	logger *logger.Logger
}

// NewDocumentRepository constructs a [DocumentStore] backed by the
// provided database connection and logger.
//
// The logger parameter is stored for fallback logging; most methods prefer
// the context-scoped logger obtained via [logger.FromContext].
func NewDocumentRepository(db *DB, logger *logger.Logger) DocumentStore {
	return &documentRepository{
		DB:     db,
		logger: logger,
	}
}

// GetDocument retrieves a single document by its (type, id) key.
func (d *documentRepository) GetDocument(ctx context.Context, userID int64, key models.DocumentKey) (models.Document, error) {
	log := logger.FromContext(ctx)

	var doc models.Document
	err := d.DB.QueryRowContext(ctx, getDocument, userID, key.Type, key.ID).Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Type,
		&doc.Data,
		&doc.Version,
		&doc.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, ErrDocumentNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.GetDocument").
			Int64("user_id", userID).
			Str("document_id", key.ID).
			Msg("failed to execute query for getting document")
		return models.Document{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return doc, nil
}

// GetStates returns the stored versions of the addressed documents.
// Documents that do not exist yet simply do not appear in the result;
// the conflict detector treats their absence as "free to create".
func (d *documentRepository) GetStates(ctx context.Context, userID int64, keys []models.DocumentKey) ([]models.DocumentState, error) {
	log := logger.FromContext(ctx)

	if len(keys) == 0 {
		return nil, nil
	}

	query, args, err := buildGetStatesQuery(userID, keys)
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.GetStates").
			Int64("user_id", userID).
			Msg("failed to create query")
		return nil, err
	}

	rows, queryErr := d.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "documentRepository.GetStates").
			Int64("user_id", userID).
			Int("keys_count", len(keys)).
			Msg("failed to execute query for getting document states")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	states := make([]models.DocumentState, 0, len(keys))

	for rows.Next() {
		var state models.DocumentState

		scanErr := rows.Scan(&state.Type, &state.ID, &state.Version)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "documentRepository.GetStates").
				Int64("user_id", userID).
				Msg("failed to scan document state row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		states = append(states, state)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "documentRepository.GetStates").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return states, nil
}

// ApplyItems writes every item of a batch inside one transaction, in the
// order supplied. Tombstones delete, everything else upserts at the
// item's submitted version; both paths carry the version guard.
//
// On the first guard rejection the transaction is rolled back (so a
// conflicted batch mutates nothing) and the rejected item comes back as a
// conflict carrying both versions. A nil conflict and nil error mean the
// commit succeeded and all items are applied.
func (d *documentRepository) ApplyItems(ctx context.Context, userID int64, items []models.SyncItem) (int, *models.Conflict, error) {
	log := logger.FromContext(ctx)

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "documentRepository.ApplyItems").
			Int64("user_id", userID).
			Int("items_count", len(items)).
			Msg("failed to begin transaction")
		return 0, nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for idx, item := range items {
		log.Debug().
			Str("func", "documentRepository.ApplyItems").
			Int("iteration", idx+1).
			Int("total", len(items)).
			Str("item_id", item.ID).
			Str("resource_type", string(item.Type)).
			Bool("deleted", item.Deleted).
			Msg("applying sync item in transaction")

		var currentVersion *int64
		var appliedVersion *int64
		var queryRowErr error

		if item.Deleted {
			queryRowErr = tx.QueryRowContext(ctx, applyDeleteDocument,
				userID, item.Type, item.ID, item.Version,
			).Scan(&currentVersion, &appliedVersion)
		} else {
			queryRowErr = tx.QueryRowContext(ctx, applyUpsertDocument,
				userID, item.Type, item.ID, []byte(item.Data), item.Version,
			).Scan(&currentVersion, &appliedVersion)
		}

		if queryRowErr != nil {
			log.Err(queryRowErr).
				Str("func", "documentRepository.ApplyItems").
				Int("iteration", idx+1).
				Str("item_id", item.ID).
				Msg("failed to execute conditional write")
			return 0, nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryRowErr)
		}

		// Deleting a document that never existed: both columns NULL.
		// Nothing to remove, the tombstone is already satisfied.
		if item.Deleted && currentVersion == nil {
			continue
		}

		// Guard rejected the write: the store holds a strictly newer
		// version than the one submitted. currentVersion can still be
		// NULL here: under READ COMMITTED the winning row may have been
		// committed after target_record's snapshot was taken, in which
		// case a fresh read sees the version that beat us.
		if appliedVersion == nil {
			serverVersion := int64(0)
			if currentVersion != nil {
				serverVersion = *currentVersion
			} else {
				refetchErr := tx.QueryRowContext(ctx, getDocumentVersion,
					userID, item.Type, item.ID,
				).Scan(&serverVersion)
				if refetchErr != nil && !errors.Is(refetchErr, sql.ErrNoRows) {
					log.Err(refetchErr).
						Str("func", "documentRepository.ApplyItems").
						Int("iteration", idx+1).
						Str("item_id", item.ID).
						Msg("failed to re-read version after rejected write")
					return 0, nil, fmt.Errorf("%w: %w", ErrExecutingQuery, refetchErr)
				}
			}

			log.Warn().
				Str("func", "documentRepository.ApplyItems").
				Int("iteration", idx+1).
				Str("item_id", item.ID).
				Int64("db_version", serverVersion).
				Int64("provided_version", item.Version).
				Msg("optimistic lock failed: version mismatch on apply")

			conflict := &models.Conflict{
				ItemID:        item.ID,
				Type:          item.Type,
				ClientVersion: item.Version,
				ServerVersion: serverVersion,
				Message: fmt.Sprintf("version mismatch for %s %q: server has %d, client submitted %d",
					item.Type, item.ID, serverVersion, item.Version),
			}
			return 0, conflict, nil
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "documentRepository.ApplyItems").
			Int64("user_id", userID).
			Int("items_count", len(items)).
			Msg("failed to commit transaction")
		return 0, nil, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Info().
		Str("func", "documentRepository.ApplyItems").
		Int64("user_id", userID).
		Int("items_count", len(items)).
		Msg("successfully applied sync items")

	return len(items), nil, nil
}

// WriteDocument commits a client or manual conflict resolution: the
// payload is written verbatim at the explicitly chosen version, still
// under the monotonicity guard so a concurrent writer that has already
// moved past version surfaces as [ErrVersionConflict].
func (d *documentRepository) WriteDocument(ctx context.Context, userID int64, key models.DocumentKey, data json.RawMessage, version int64) error {
	log := logger.FromContext(ctx)

	var currentVersion *int64
	var appliedVersion *int64

	queryRowErr := d.DB.QueryRowContext(ctx, applyUpsertDocument,
		userID, key.Type, key.ID, []byte(data), version,
	).Scan(&currentVersion, &appliedVersion)
	if queryRowErr != nil {
		log.Err(queryRowErr).
			Str("func", "documentRepository.WriteDocument").
			Str("document_id", key.ID).
			Msg("failed to execute resolution write")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, queryRowErr)
	}

	if appliedVersion == nil {
		// currentVersion is NULL when the winning row committed after
		// target_record's snapshot; the conflict is real either way.
		event := log.Warn().
			Str("func", "documentRepository.WriteDocument").
			Str("document_id", key.ID).
			Int64("provided_version", version)
		if currentVersion != nil {
			event = event.Int64("db_version", *currentVersion)
		}
		event.Msg("optimistic lock failed: version mismatch on resolution write")
		return ErrVersionConflict
	}

	return nil
}

// BumpVersion acknowledges a conflict without touching the payload: only
// the version counter advances, under the same guard as every other write.
func (d *documentRepository) BumpVersion(ctx context.Context, userID int64, key models.DocumentKey, version int64) error {
	log := logger.FromContext(ctx)

	var currentVersion *int64
	var bumpedVersion *int64

	queryRowErr := d.DB.QueryRowContext(ctx, bumpDocumentVersion,
		userID, key.Type, key.ID, version,
	).Scan(&currentVersion, &bumpedVersion)
	if queryRowErr != nil {
		log.Err(queryRowErr).
			Str("func", "documentRepository.BumpVersion").
			Str("document_id", key.ID).
			Msg("failed to execute version bump")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, queryRowErr)
	}

	// not found: target_record empty -> both NULL
	if currentVersion == nil {
		log.Warn().
			Str("func", "documentRepository.BumpVersion").
			Str("document_id", key.ID).
			Msg("document not found")
		return ErrDocumentNotFound
	}

	// found but not updated -> version mismatch
	if bumpedVersion == nil {
		log.Warn().
			Str("func", "documentRepository.BumpVersion").
			Str("document_id", key.ID).
			Int64("db_version", *currentVersion).
			Int64("provided_version", version).
			Msg("optimistic lock failed: version mismatch on bump")
		return ErrVersionConflict
	}

	return nil
}
