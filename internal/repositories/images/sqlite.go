package images

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/photowall/internal/dbx"
	"github.com/dmitrijs2005/photowall/internal/models"
)

// SQLiteRepository stores created_at as unix milliseconds; ties are broken
// by insertion order so the newest row still comes first.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLite(s scanner, rec *models.ImageRecord) error {
	var ms int64
	if err := s.Scan(&rec.ID, &rec.URL, &rec.Caption, &ms); err != nil {
		return err
	}
	rec.CreatedAt = time.UnixMilli(ms).UTC()
	return nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.ImageRecord) error {
	query := `INSERT INTO images (id, url, caption, created_at) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, rec.ID, rec.URL, rec.Caption, rec.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert image: %w", err)
	}
	return checkInserted(res)
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.ImageRecord, error) {
	query := `SELECT id, url, caption, created_at FROM images ORDER BY created_at DESC, rowid DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error selecting images: %w", err)
	}
	defer rows.Close()

	result := make([]models.ImageRecord, 0)
	for rows.Next() {
		var item models.ImageRecord
		if err := scanSQLite(rows, &item); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.ImageRecord, error) {
	query := `SELECT id, url, caption, created_at FROM images WHERE id = ?`
	rec := &models.ImageRecord{}
	if err := scanSQLite(r.db.QueryRowContext(ctx, query, id), rec); err != nil {
		return nil, fmt.Errorf("failed to select image: %w", notFound(err, id))
	}
	return rec, nil
}

func (r *SQLiteRepository) UpdateCaption(ctx context.Context, id, caption string) (*models.ImageRecord, error) {
	query := `UPDATE images SET caption = ? WHERE id = ? RETURNING id, url, caption, created_at`
	rec := &models.ImageRecord{}
	if err := scanSQLite(r.db.QueryRowContext(ctx, query, caption, id), rec); err != nil {
		return nil, fmt.Errorf("failed to update caption: %w", notFound(err, id))
	}
	return rec, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) (*models.ImageRecord, error) {
	query := `DELETE FROM images WHERE id = ? RETURNING id, url, caption, created_at`
	rec := &models.ImageRecord{}
	if err := scanSQLite(r.db.QueryRowContext(ctx, query, id), rec); err != nil {
		return nil, fmt.Errorf("failed to delete image: %w", notFound(err, id))
	}
	return rec, nil
}
