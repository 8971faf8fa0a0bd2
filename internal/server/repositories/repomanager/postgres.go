// PostgreSQL wiring: repository constructors plus goose migrations over the
// embedded SQL files.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/commis-dev/commis/internal/dbx"
	"github.com/commis-dev/commis/internal/server/migrations"
	"github.com/commis-dev/commis/internal/server/repositories/apitokens"
	"github.com/commis-dev/commis/internal/server/repositories/devicesessions"
	"github.com/commis-dev/commis/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository
// implementations and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// DeviceSessions returns a devicesessions.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) DeviceSessions(db dbx.DBTX) devicesessions.Repository {
	return devicesessions.NewPostgresRepository(db)
}

// APITokens returns an apitokens.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) APITokens(db dbx.DBTX) apitokens.Repository {
	return apitokens.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
