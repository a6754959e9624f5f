// Package repomanager provides RepositoryManager implementations for
// PostgreSQL and SQLite, wiring repository constructors together with the
// embedded goose migrations of each dialect.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/photowall/internal/dbx"
	"github.com/dmitrijs2005/photowall/internal/migrations"
	"github.com/dmitrijs2005/photowall/internal/repositories/images"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

// Images returns an images.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Images(db dbx.DBTX) images.Repository {
	return images.NewPostgresRepository(db)
}

// RunMigrations applies the embedded PostgreSQL migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, "pgx", migrations.PostgresDir)
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
