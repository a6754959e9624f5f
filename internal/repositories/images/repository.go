// Package images stores ImageRecord rows. Each dialect has its own
// implementation over a dbx.DBTX, so it can run inside a transaction.
package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/photowall/internal/common"
	"github.com/dmitrijs2005/photowall/internal/models"
)

type Repository interface {
	Insert(ctx context.Context, rec *models.ImageRecord) error
	// ListAll returns every row, newest first.
	ListAll(ctx context.Context) ([]models.ImageRecord, error)
	GetByID(ctx context.Context, id string) (*models.ImageRecord, error)
	// UpdateCaption returns the updated row, or common.ErrNotFound.
	UpdateCaption(ctx context.Context, id, caption string) (*models.ImageRecord, error)
	// Delete returns the deleted row, or common.ErrNotFound.
	Delete(ctx context.Context, id string) (*models.ImageRecord, error)
}

func checkInserted(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("%w: %d", common.ErrUnexpectedRowsCount, n)
	}
	return nil
}

func notFound(err error, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("image %q: %w", id, common.ErrNotFound)
	}
	return err
}
