// Package backend opens the object store and the metadata database selected
// by configuration and hands them to the front ends.
package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/photowall/internal/common"
	"github.com/dmitrijs2005/photowall/internal/logging"
	"github.com/dmitrijs2005/photowall/internal/metadata"
	"github.com/dmitrijs2005/photowall/internal/objectstore"
	"github.com/dmitrijs2005/photowall/internal/repositories/repomanager"
)

const (
	StorageS3     = "s3"
	StorageMinio  = "minio"
	StorageLocal  = "local"
	StorageMemory = "memory"

	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
)

type Config struct {
	Storage string

	Bucket     string
	Region     string
	Endpoint   string
	AccessKey  string
	SecretKey  string
	UseSSL     bool
	PublicBase string

	// LocalDir is the root of the "local" store.
	LocalDir string

	Database    string
	DatabaseDSN string
}

type Backend struct {
	Objects  objectstore.Store
	Metadata *metadata.Service

	closers []func() error
}

var (
	sqlOpen       = sql.Open
	newS3Store    = objectstore.NewS3Store
	newMinioStore = objectstore.NewMinioStore
)

// Open connects both stores and applies the schema migrations. On error
// everything opened so far is closed again.
func Open(ctx context.Context, c Config, logger logging.Logger) (*Backend, error) {
	b := &Backend{}

	objects, err := b.openObjects(ctx, c)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	b.Objects = objects

	db, rm, err := b.openDatabase(ctx, c)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	b.Metadata = metadata.NewService(db, rm, logger)

	logger.Info(ctx, "backend ready", "storage", c.Storage, "database", c.Database)
	return b, nil
}

func (b *Backend) openObjects(ctx context.Context, c Config) (objectstore.Store, error) {
	switch c.Storage {
	case StorageS3:
		return newS3Store(ctx, objectstore.S3Config{
			Region:     c.Region,
			AccessKey:  c.AccessKey,
			SecretKey:  c.SecretKey,
			Bucket:     c.Bucket,
			Endpoint:   c.Endpoint,
			PublicBase: c.PublicBase,
		})
	case StorageMinio:
		return newMinioStore(ctx, objectstore.MinioConfig{
			Endpoint:   c.Endpoint,
			AccessKey:  c.AccessKey,
			SecretKey:  c.SecretKey,
			Bucket:     c.Bucket,
			Region:     c.Region,
			UseSSL:     c.UseSSL,
			PublicBase: c.PublicBase,
		})
	case StorageLocal:
		s, err := objectstore.NewLocalStore(c.LocalDir)
		if err != nil {
			return nil, fmt.Errorf("local store: %w", err)
		}
		b.closers = append(b.closers, s.Close)
		return s, nil
	case StorageMemory:
		return objectstore.NewMemoryStore(c.PublicBase), nil
	default:
		return nil, fmt.Errorf("storage %q: %w", c.Storage, common.ErrUnknownBackend)
	}
}

func (b *Backend) openDatabase(ctx context.Context, c Config) (*sql.DB, repomanager.RepositoryManager, error) {
	var (
		driver string
		rm     repomanager.RepositoryManager
	)
	switch c.Database {
	case DatabasePostgres:
		driver, rm = "pgx", repomanager.NewPostgresRepositoryManager()
	case DatabaseSQLite:
		driver, rm = "sqlite", repomanager.NewSQLiteRepositoryManager()
	default:
		return nil, nil, fmt.Errorf("database %q: %w", c.Database, common.ErrUnknownBackend)
	}

	db, err := sqlOpen(driver, c.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}
	b.closers = append(b.closers, db.Close)

	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}
	return db, rm, nil
}

// Close releases the database handle and the local index, newest first.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	b.closers = nil
	return errors.Join(errs...)
}
