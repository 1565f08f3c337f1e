package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/mealkeep/syncserver/internal/logger"
	"github.com/mealkeep/syncserver/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// newDBFromSQL wraps an existing *sql.DB for tests.
func newDBFromSQL(db *sql.DB) *DB {
	return &DB{
		DB:              db,
		errorClassifier: NewPostgresErrorClassifier(),
		logger:          logger.Nop(),
	}
}

func newTestDocumentRepo(t *testing.T, db *sql.DB) DocumentStore {
	t.Helper()
	return NewDocumentRepository(newDBFromSQL(db), logger.Nop())
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

// casColumns is the two-column result of every conditional write CTE.
var casColumns = []string{"current_version", "applied_version"}

func casRow(current, applied any) *sqlmock.Rows {
	return sqlmock.NewRows(casColumns).AddRow(current, applied)
}

// ── GetDocument ──────────────────────────────────────────────────────────────

func TestGetDocument(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("success", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, resource_type, data, version, updated_at")).
			WithArgs(int64(42), models.ResourceRecipe, "recipe-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "resource_type", "data", "version", "updated_at"}).
				AddRow("recipe-1", int64(42), models.ResourceRecipe, []byte(`{"title":"Plov"}`), int64(3), now))

		doc, err := repo.GetDocument(testContext(), 42, models.DocumentKey{Type: models.ResourceRecipe, ID: "recipe-1"})

		require.NoError(t, err)
		assert.Equal(t, "recipe-1", doc.ID)
		assert.Equal(t, int64(3), doc.Version)
		assert.JSONEq(t, `{"title":"Plov"}`, string(doc.Data))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, resource_type, data, version, updated_at")).
			WithArgs(int64(42), models.ResourceRecipe, "missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetDocument(testContext(), 42, models.DocumentKey{Type: models.ResourceRecipe, ID: "missing"})

		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("query error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, resource_type, data, version, updated_at")).
			WithArgs(int64(42), models.ResourceRecipe, "recipe-1").
			WillReturnError(errors.New("connection reset"))

		_, err := repo.GetDocument(testContext(), 42, models.DocumentKey{Type: models.ResourceRecipe, ID: "recipe-1"})

		assert.ErrorIs(t, err, ErrExecutingQuery)
	})
}

// ── GetStates ────────────────────────────────────────────────────────────────

func TestGetStates(t *testing.T) {
	keys := []models.DocumentKey{
		{Type: models.ResourceRecipe, ID: "recipe-1"},
		{Type: models.ResourceShoppingList, ID: "list-1"},
	}

	t.Run("returns existing versions only", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT resource_type, id, version FROM documents")).
			WillReturnRows(sqlmock.NewRows([]string{"resource_type", "id", "version"}).
				AddRow(models.ResourceRecipe, "recipe-1", int64(5)))

		states, err := repo.GetStates(testContext(), 42, keys)

		require.NoError(t, err)
		require.Len(t, states, 1)
		assert.Equal(t, "recipe-1", states[0].ID)
		assert.Equal(t, int64(5), states[0].Version)
	})

	t.Run("no keys short-circuits", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		states, err := repo.GetStates(testContext(), 42, nil)

		require.NoError(t, err)
		assert.Nil(t, states)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT resource_type, id, version FROM documents")).
			WillReturnError(errors.New("timeout"))

		_, err := repo.GetStates(testContext(), 42, keys)

		assert.ErrorIs(t, err, ErrExecutingQuery)
	})
}

// ── ApplyItems ───────────────────────────────────────────────────────────────

func TestApplyItems(t *testing.T) {
	items := []models.SyncItem{
		{ID: "recipe-1", Type: models.ResourceRecipe, Data: json.RawMessage(`{"title":"Plov"}`), Version: 2},
		{ID: "list-1", Type: models.ResourceShoppingList, Data: json.RawMessage(`{"name":"Weekly"}`), Version: 1},
	}

	t.Run("applies all items and commits", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("WITH target_record AS")).
			WithArgs(int64(42), models.ResourceRecipe, "recipe-1", []byte(`{"title":"Plov"}`), int64(2)).
			WillReturnRows(casRow(int64(1), int64(2)))
		mock.ExpectQuery(regexp.QuoteMeta("WITH target_record AS")).
			WithArgs(int64(42), models.ResourceShoppingList, "list-1", []byte(`{"name":"Weekly"}`), int64(1)).
			WillReturnRows(casRow(nil, int64(1)))
		mock.ExpectCommit()

		applied, conflict, err := repo.ApplyItems(testContext(), 42, items)

		require.NoError(t, err)
		assert.Nil(t, conflict)
		assert.Equal(t, 2, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("version guard rejection rolls back", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("WITH target_record AS")).
			WithArgs(int64(42), models.ResourceRecipe, "recipe-1", []byte(`{"title":"Plov"}`), int64(2)).
			WillReturnRows(casRow(int64(7), nil))
		mock.ExpectRollback()

		applied, conflict, err := repo.ApplyItems(testContext(), 42, items)

		require.NoError(t, err)
		require.NotNil(t, conflict)
		assert.Zero(t, applied)
		assert.Equal(t, "recipe-1", conflict.ItemID)
		assert.Equal(t, int64(2), conflict.ClientVersion)
		assert.Equal(t, int64(7), conflict.ServerVersion)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejection with invisible winner re-reads server version", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		// The winning row committed after target_record's snapshot:
		// the CTE returns (NULL, NULL) for a plain upsert.
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("WITH target_record AS")).
			WithArgs(int64(42), models.ResourceRecipe, "recipe-1", []byte(`{"title":"Plov"}`), int64(2)).
			WillReturnRows(casRow(nil, nil))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM documents")).
			WithArgs(int64(42), models.ResourceRecipe, "recipe-1").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(int64(7)))
		mock.ExpectRollback()

		applied, conflict, err := repo.ApplyItems(testContext(), 42, items)

		require.NoError(t, err)
		require.NotNil(t, conflict)
		assert.Zero(t, applied)
		assert.Equal(t, "recipe-1", conflict.ItemID)
		assert.Equal(t, int64(2), conflict.ClientVersion)
		assert.Equal(t, int64(7), conflict.ServerVersion)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejection with winner gone again still conflicts", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("WITH target_record AS")).
			WithArgs(int64(42), models.ResourceRecipe, "recipe-1", []byte(`{"title":"Plov"}`), int64(2)).
			WillReturnRows(casRow(nil, nil))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM documents")).
			WithArgs(int64(42), models.ResourceRecipe, "recipe-1").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, conflict, err := repo.ApplyItems(testContext(), 42, items)

		require.NoError(t, err)
		require.NotNil(t, conflict)
		assert.Zero(t, conflict.ServerVersion)
	})

	t.Run("tombstone for missing document is a no-op", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		tombstone := []models.SyncItem{
			{ID: "recipe-9", Type: models.ResourceRecipe, Version: 4, Deleted: true},
		}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("WITH target_record AS")).
			WithArgs(int64(42), models.ResourceRecipe, "recipe-9", int64(4)).
			WillReturnRows(casRow(nil, nil))
		mock.ExpectCommit()

		applied, conflict, err := repo.ApplyItems(testContext(), 42, tombstone)

		require.NoError(t, err)
		assert.Nil(t, conflict)
		assert.Equal(t, 1, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale tombstone surfaces a conflict", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		tombstone := []models.SyncItem{
			{ID: "recipe-9", Type: models.ResourceRecipe, Version: 2, Deleted: true},
		}

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("WITH target_record AS")).
			WithArgs(int64(42), models.ResourceRecipe, "recipe-9", int64(2)).
			WillReturnRows(casRow(int64(6), nil))
		mock.ExpectRollback()

		_, conflict, err := repo.ApplyItems(testContext(), 42, tombstone)

		require.NoError(t, err)
		require.NotNil(t, conflict)
		assert.Equal(t, int64(6), conflict.ServerVersion)
	})

	t.Run("begin error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		_, _, err := repo.ApplyItems(testContext(), 42, items)

		assert.ErrorIs(t, err, ErrBeginningTransaction)
	})

	t.Run("write error rolls back", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("WITH target_record AS")).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		_, _, err := repo.ApplyItems(testContext(), 42, items)

		assert.ErrorIs(t, err, ErrExecutingQuery)
	})

	t.Run("commit error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		single := items[:1]

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("WITH target_record AS")).
			WillReturnRows(casRow(int64(1), int64(2)))
		mock.ExpectCommit().WillReturnError(errors.New("deadlock detected"))

		_, _, err := repo.ApplyItems(testContext(), 42, single)

		assert.ErrorIs(t, err, ErrCommitingTransaction)
	})
}

// ── WriteDocument ────────────────────────────────────────────────────────────

func TestWriteDocument(t *testing.T) {
	key := models.DocumentKey{Type: models.ResourceRecipe, ID: "recipe-1"}
	data := json.RawMessage(`{"title":"Merged"}`)

	t.Run("success", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		mock.ExpectQuery(regexp.QuoteMeta("WITH target_record AS")).
			WithArgs(int64(42), models.ResourceRecipe, "recipe-1", []byte(data), int64(6)).
			WillReturnRows(casRow(int64(5), int64(6)))

		err := repo.WriteDocument(testContext(), 42, key, data, 6)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store moved past version", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		mock.ExpectQuery(regexp.QuoteMeta("WITH target_record AS")).
			WillReturnRows(casRow(int64(9), nil))

		err := repo.WriteDocument(testContext(), 42, key, data, 6)

		assert.ErrorIs(t, err, ErrVersionConflict)
	})

	t.Run("rejection with invisible winner", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		mock.ExpectQuery(regexp.QuoteMeta("WITH target_record AS")).
			WillReturnRows(casRow(nil, nil))

		err := repo.WriteDocument(testContext(), 42, key, data, 6)

		assert.ErrorIs(t, err, ErrVersionConflict)
	})

	t.Run("query error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		mock.ExpectQuery(regexp.QuoteMeta("WITH target_record AS")).
			WillReturnError(errors.New("connection reset"))

		err := repo.WriteDocument(testContext(), 42, key, data, 6)

		assert.ErrorIs(t, err, ErrExecutingQuery)
	})
}

// ── BumpVersion ──────────────────────────────────────────────────────────────

func TestBumpVersion(t *testing.T) {
	key := models.DocumentKey{Type: models.ResourceRecipe, ID: "recipe-1"}

	t.Run("success", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		mock.ExpectQuery(regexp.QuoteMeta("WITH target_record AS")).
			WithArgs(int64(42), models.ResourceRecipe, "recipe-1", int64(6)).
			WillReturnRows(casRow(int64(5), int64(6)))

		err := repo.BumpVersion(testContext(), 42, key, 6)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("document not found", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		mock.ExpectQuery(regexp.QuoteMeta("WITH target_record AS")).
			WillReturnRows(casRow(nil, nil))

		err := repo.BumpVersion(testContext(), 42, key, 6)

		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("version mismatch", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestDocumentRepo(t, db)

		mock.ExpectQuery(regexp.QuoteMeta("WITH target_record AS")).
			WillReturnRows(casRow(int64(9), nil))

		err := repo.BumpVersion(testContext(), 42, key, 6)

		assert.ErrorIs(t, err, ErrVersionConflict)
	})
}
