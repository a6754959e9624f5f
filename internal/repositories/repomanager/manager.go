package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/photowall/internal/dbx"
	"github.com/dmitrijs2005/photowall/internal/repositories/images"
)

// RepositoryManager vends dialect-specific repositories and owns the schema.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Images(db dbx.DBTX) images.Repository
}
