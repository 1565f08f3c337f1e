package store

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/mealkeep/syncserver/models"
)

// psql is the shared squirrel builder configured for PostgreSQL
// positional placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	getDocument = `SELECT id, user_id, resource_type, data, version, updated_at
		FROM documents
		WHERE user_id = $1 AND resource_type = $2 AND id = $3;`

	getDocumentVersion = `SELECT version FROM documents
		WHERE user_id = $1 AND resource_type = $2 AND id = $3;`

	// applyUpsertDocument is the atomic conditional write at the heart of
	// the engine. The CTE returns two columns:
	//   - target_record.version: the version stored before the write,
	//     NULL when the document did not exist;
	//   - applied.version: the version after the write, NULL when the
	//     version guard rejected it.
	// The combination lets the caller distinguish "created", "updated",
	// and "version conflict" from a single round trip, with no window
	// between the check and the write.
	applyUpsertDocument = `WITH target_record AS (
			SELECT version FROM documents
			WHERE user_id = $1 AND resource_type = $2 AND id = $3
		), applied AS (
			INSERT INTO documents (user_id, resource_type, id, data, version, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (user_id, resource_type, id) DO UPDATE
				SET data = excluded.data, version = excluded.version, updated_at = NOW()
				WHERE documents.version <= excluded.version
			RETURNING version
		)
		SELECT
			(SELECT version FROM target_record) AS current_version,
			(SELECT version FROM applied) AS applied_version;`

	// applyDeleteDocument removes a document under the same version
	// guard. Both columns NULL means the document never existed, which
	// the caller treats as an already-applied delete.
	applyDeleteDocument = `WITH target_record AS (
			SELECT version FROM documents
			WHERE user_id = $1 AND resource_type = $2 AND id = $3
		), removed AS (
			DELETE FROM documents
			WHERE user_id = $1 AND resource_type = $2 AND id = $3 AND version <= $4
			RETURNING version
		)
		SELECT
			(SELECT version FROM target_record) AS current_version,
			(SELECT version FROM removed) AS removed_version;`

	// bumpDocumentVersion advances only the version counter, leaving the
	// payload untouched. Used by the "server" resolution strategy.
	bumpDocumentVersion = `WITH target_record AS (
			SELECT version FROM documents
			WHERE user_id = $1 AND resource_type = $2 AND id = $3
		), bumped AS (
			UPDATE documents SET version = $4, updated_at = NOW()
			WHERE user_id = $1 AND resource_type = $2 AND id = $3 AND version <= $4
			RETURNING version
		)
		SELECT
			(SELECT version FROM target_record) AS current_version,
			(SELECT version FROM bumped) AS bumped_version;`

	createSyncBatch = `INSERT INTO sync_batches (batch_id, user_id, device_id, items, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);`

	getSyncBatch = `SELECT batch_id, user_id, device_id, items, status, created_at, completed_at
		FROM sync_batches
		WHERE batch_id = $1;`

	// setSyncBatchStatus is a conditional transition: the row is updated
	// only when it is still in the expected source status, so concurrent
	// processors cannot move a batch backwards.
	setSyncBatchStatus = `UPDATE sync_batches
		SET status = $3, completed_at = COALESCE($4, completed_at)
		WHERE batch_id = $1 AND status = $2;`

	saveSyncConflict = `INSERT INTO sync_conflicts
			(conflict_id, batch_id, user_id, item_id, resource_type, client_version, server_version, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	getSyncConflict = `SELECT conflict_id, batch_id, item_id, resource_type,
			client_version, server_version, message, resolution, resolved_data, resolved_at
		FROM sync_conflicts
		WHERE conflict_id = $1;`

	getBatchConflicts = `SELECT conflict_id, batch_id, item_id, resource_type,
			client_version, server_version, message, resolution, resolved_data, resolved_at
		FROM sync_conflicts
		WHERE batch_id = $1
		ORDER BY conflict_id;`

	// markSyncConflictResolved resolves at most once: the IS NULL guard
	// makes a second resolution a zero-row update.
	markSyncConflictResolved = `UPDATE sync_conflicts
		SET resolution = $2, resolved_data = $3, resolved_at = $4
		WHERE conflict_id = $1 AND resolution IS NULL;`

	countUnresolvedByBatch = `SELECT COUNT(*) FROM sync_conflicts
		WHERE batch_id = $1 AND resolution IS NULL;`

	lastSyncedAtQuery = `SELECT MAX(completed_at) FROM sync_batches
		WHERE user_id = $1 AND device_id = $2 AND status = 'synced';`

	expireStaleBatches = `UPDATE sync_batches
		SET status = 'expired'
		WHERE status = 'pending' AND created_at < $1;`
)

// buildGetStatesQuery builds the detector's read: the stored version of
// every document addressed by keys, scoped to one user. Keys hit distinct
// (resource_type, id) pairs, so the filter is a disjunction of pair
// equalities.
func buildGetStatesQuery(userID int64, keys []models.DocumentKey) (string, []any, error) {
	pairs := make(sq.Or, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, sq.Eq{"resource_type": key.Type, "id": key.ID})
	}

	query, args, err := psql.
		Select("resource_type", "id", "version").
		From("documents").
		Where(sq.Eq{"user_id": userID}).
		Where(pairs).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildCountPendingQuery counts a device's batches still waiting to be
// processed, optionally scoped to batches created after since.
func buildCountPendingQuery(userID int64, deviceID string, since *time.Time) (string, []any, error) {
	builder := psql.
		Select("COUNT(*)").
		From("sync_batches").
		Where(sq.Eq{"user_id": userID, "device_id": deviceID, "status": models.BatchPending})

	if since != nil {
		builder = builder.Where(sq.Gt{"created_at": *since})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildCountUnresolvedQuery counts unresolved conflicts across a device's
// batches, optionally scoped to batches created after since.
func buildCountUnresolvedQuery(userID int64, deviceID string, since *time.Time) (string, []any, error) {
	builder := psql.
		Select("COUNT(*)").
		From("sync_conflicts c").
		Join("sync_batches b ON b.batch_id = c.batch_id").
		Where(sq.Eq{"b.user_id": userID, "b.device_id": deviceID}).
		Where("c.resolution IS NULL")

	if since != nil {
		builder = builder.Where(sq.Gt{"b.created_at": *since})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildListUnresolvedQuery selects every open conflict belonging to a user,
// newest batches first.
func buildListUnresolvedQuery(userID int64) (string, []any, error) {
	query, args, err := psql.
		Select("conflict_id", "batch_id", "item_id", "resource_type",
			"client_version", "server_version", "message",
			"resolution", "resolved_data", "resolved_at").
		From("sync_conflicts").
		Where(sq.Eq{"user_id": userID}).
		Where("resolution IS NULL").
		OrderBy("conflict_id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
