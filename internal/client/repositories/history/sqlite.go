package history

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/csomedia/internal/dbx"
	"github.com/dmitrijs2005/csomedia/internal/storage"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, f storage.UploadedFile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO history (id, bucket, path, public_url, file_name, file_size, mime_type, checksum, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(bucket, path) DO UPDATE SET
			id = excluded.id,
			public_url = excluded.public_url,
			file_name = excluded.file_name,
			file_size = excluded.file_size,
			mime_type = excluded.mime_type,
			checksum = excluded.checksum,
			uploaded_at = excluded.uploaded_at
	`, f.ID, f.Bucket.ID(), f.Path, f.PublicURL, f.FileName, f.FileSize, f.MimeType, f.Checksum, f.UploadedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to add history[%s]: %w", f.Path, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, bucket storage.Bucket, limit int) ([]storage.UploadedFile, error) {
	query := `SELECT id, bucket, path, public_url, file_name, file_size, mime_type, checksum, uploaded_at FROM history`
	var args []any
	if bucket.Valid() {
		query += ` WHERE bucket = ?`
		args = append(args, bucket.ID())
	}
	query += ` ORDER BY uploaded_at DESC, path`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var result []storage.UploadedFile
	for rows.Next() {
		var (
			f          storage.UploadedFile
			bucketID   string
			uploadedAt int64
		)
		if err := rows.Scan(&f.ID, &bucketID, &f.Path, &f.PublicURL, &f.FileName, &f.FileSize, &f.MimeType, &f.Checksum, &uploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if f.Bucket, err = storage.ParseBucket(bucketID); err != nil {
			return nil, fmt.Errorf("history row %s: %w", f.ID, err)
		}
		f.UploadedAt = time.UnixMilli(uploadedAt).UTC()
		result = append(result, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history rows: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, bucket storage.Bucket, path string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM history WHERE bucket = ? AND path = ?`, bucket.ID(), path)
	if err != nil {
		return fmt.Errorf("failed to remove history[%s]: %w", path, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM history`)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
