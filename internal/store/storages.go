package store

import (
	"context"

	"github.com/mealkeep/syncserver/internal/config"
	"github.com/mealkeep/syncserver/internal/logger"
)

// Storages aggregates the repositories of the sync engine behind their
// interfaces so that the service layer can be constructed against mocks.
type Storages struct {
	DocumentStore DocumentStore
	BatchStore    BatchStore
}

// NewStorages connects to PostgreSQL, applies pending migrations, and
// wires up all repositories over the shared connection.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
		return nil, err
	}

	return &Storages{
		DocumentStore: NewDocumentRepository(db, log),
		BatchStore:    NewBatchRepository(db, log),
	}, nil
}
