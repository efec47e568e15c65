// Package repomanager bundles repository constructors behind a single
// interface so services can obtain repositories bound to either the shared
// connection pool or a transaction handle.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/videotube/internal/dbx"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/videotube/internal/server/repositories/videos"
)

// RepositoryManager produces repositories bound to the given DBTX and owns
// schema migrations.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Subscriptions(db dbx.DBTX) subscriptions.Repository
	Videos(db dbx.DBTX) videos.Repository
}
