// Package repomanager vends repository implementations bound to a DBTX and
// owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/commis-dev/commis/internal/dbx"
	"github.com/commis-dev/commis/internal/server/repositories/apitokens"
	"github.com/commis-dev/commis/internal/server/repositories/devicesessions"
	"github.com/commis-dev/commis/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to either the pooled
// connection or an open transaction, so services can compose repository
// calls inside dbx.WithTx.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	DeviceSessions(db dbx.DBTX) devicesessions.Repository
	APITokens(db dbx.DBTX) apitokens.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
