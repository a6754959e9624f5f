package images

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/photowall/internal/dbx"
	"github.com/dmitrijs2005/photowall/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, rec *models.ImageRecord) error {
	query := `INSERT INTO images (id, url, caption, created_at) VALUES ($1, $2, $3, $4)`
	res, err := r.db.ExecContext(ctx, query, rec.ID, rec.URL, rec.Caption, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return checkInserted(res)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]models.ImageRecord, error) {
	query := `SELECT id, url, caption, created_at FROM images ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select images: %w", err)
	}
	defer rows.Close()

	result := make([]models.ImageRecord, 0)
	for rows.Next() {
		var item models.ImageRecord
		if err := rows.Scan(&item.ID, &item.URL, &item.Caption, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.ImageRecord, error) {
	query := `SELECT id, url, caption, created_at FROM images WHERE id = $1`
	rec := &models.ImageRecord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rec.ID, &rec.URL, &rec.Caption, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to select image: %w", notFound(err, id))
	}
	return rec, nil
}

func (r *PostgresRepository) UpdateCaption(ctx context.Context, id, caption string) (*models.ImageRecord, error) {
	query := `UPDATE images SET caption = $1 WHERE id = $2 RETURNING id, url, caption, created_at`
	rec := &models.ImageRecord{}
	err := r.db.QueryRowContext(ctx, query, caption, id).Scan(&rec.ID, &rec.URL, &rec.Caption, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update caption: %w", notFound(err, id))
	}
	return rec, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (*models.ImageRecord, error) {
	query := `DELETE FROM images WHERE id = $1 RETURNING id, url, caption, created_at`
	rec := &models.ImageRecord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rec.ID, &rec.URL, &rec.Caption, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to delete image: %w", notFound(err, id))
	}
	return rec, nil
}
