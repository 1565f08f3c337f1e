package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known
// failure conditions. Callers should use [errors.Is] to match against them.
var (
	// ErrBatchNotFound is returned when an operation targets a sync batch
	// that does not exist.
	ErrBatchNotFound = errors.New("sync batch was not found")

	// ErrBatchStateConflict is returned when a status transition is
	// attempted on a batch that is not in the expected source state
	// (for example, marking a batch synced twice).
	ErrBatchStateConflict = errors.New("sync batch is not in the expected state")

	// ErrDocumentNotFound is returned when a query or conditional write
	// targets a document that does not exist in the version store.
	ErrDocumentNotFound = errors.New("document was not found")

	// ErrVersionConflict is returned when an optimistic-locking check
	// fails: the stored document version is ahead of the version the
	// caller tried to establish, meaning another device has modified the
	// record since the client last synchronized.
	ErrVersionConflict = errors.New("document version conflict occurred")

	// ErrConflictNotFound is returned when a resolution targets an
	// unknown conflict identifier.
	ErrConflictNotFound = errors.New("sync conflict was not found")

	// ErrConflictAlreadyResolved is returned when a conflict that already
	// carries a resolution is resolved a second time.
	ErrConflictAlreadyResolved = errors.New("sync conflict is already resolved")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain
// logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised
	// SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a read query fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrPreparingStatement is returned when a SQL statement cannot be
	// prepared.
	ErrPreparingStatement = errors.New("failed to prepare statement")

	// ErrExecutingStatement is returned when executing a prepared DML
	// statement fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a
	// single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
