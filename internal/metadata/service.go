// Package metadata is the row-oriented image table API used by the uploader
// and the gallery. Every call runs its repository inside a transaction.
package metadata

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/photowall/internal/dbx"
	"github.com/dmitrijs2005/photowall/internal/logging"
	"github.com/dmitrijs2005/photowall/internal/models"
	"github.com/dmitrijs2005/photowall/internal/repositories/repomanager"
)

type Service struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewService(db *sql.DB, repomanager repomanager.RepositoryManager, logger logging.Logger) *Service {
	return &Service{
		db:          db,
		repomanager: repomanager,
		logger:      logger.With("module", "metadata"),
	}
}

func (s *Service) Insert(ctx context.Context, rec models.ImageRecord) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Images(tx).Insert(ctx, &rec)
	})
	if err != nil {
		return err
	}
	s.logger.Debug(ctx, "image inserted", "id", rec.ID)
	return nil
}

// ListAll returns every record, newest first.
func (s *Service) ListAll(ctx context.Context) ([]models.ImageRecord, error) {
	return s.repomanager.Images(s.db).ListAll(ctx)
}

// Get returns the row with the given id, or common.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (models.ImageRecord, error) {
	rec, err := s.repomanager.Images(s.db).GetByID(ctx, id)
	if err != nil {
		return models.ImageRecord{}, err
	}
	return *rec, nil
}

func (s *Service) UpdateCaption(ctx context.Context, id, caption string) (models.ImageRecord, error) {
	rec, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.ImageRecord, error) {
		return s.repomanager.Images(tx).UpdateCaption(ctx, id, caption)
	})
	if err != nil {
		return models.ImageRecord{}, err
	}
	return *rec, nil
}

// Delete removes the row with the given id. A missing row yields
// common.ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.Images(tx).Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}
	s.logger.Debug(ctx, "image deleted", "id", id)
	return nil
}
