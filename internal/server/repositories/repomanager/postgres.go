package repomanager

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/videotube/internal/dbx"
	"github.com/dmitrijs2005/videotube/internal/server/migrations"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/videos"
)

// PostgresRepositoryManager builds Postgres-backed repositories.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs the manager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Subscriptions(db dbx.DBTX) subscriptions.Repository {
	return subscriptions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Videos(db dbx.DBTX) videos.Repository {
	return videos.NewPostgresRepository(db)
}
