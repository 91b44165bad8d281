// Package uploads persists the upload ledger: one row per object stored
// through the media server.
package uploads

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/csomedia/internal/common"
	"github.com/dmitrijs2005/csomedia/internal/dbx"
	"github.com/dmitrijs2005/csomedia/internal/server/models"
)

// DefaultListLimit caps ListByUser when the caller passes limit <= 0.
const DefaultListLimit = 100

// PostgresRepository implements the ledger over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert records u. An upsert over an existing (bucket, path) replaces the
// previous row and clears its deletion mark.
func (r *PostgresRepository) Insert(ctx context.Context, u *models.Upload) error {
	query := `
		INSERT INTO uploads (id, user_id, organisation_id, bucket, path, file_name, file_size, mime_type, checksum, public_url, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (bucket, path)
		DO UPDATE SET
			id = EXCLUDED.id,
			user_id = EXCLUDED.user_id,
			organisation_id = EXCLUDED.organisation_id,
			file_name = EXCLUDED.file_name,
			file_size = EXCLUDED.file_size,
			mime_type = EXCLUDED.mime_type,
			checksum = EXCLUDED.checksum,
			public_url = EXCLUDED.public_url,
			uploaded_at = EXCLUDED.uploaded_at,
			deleted_at = NULL
	`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.UserID, u.OrganisationID, u.Bucket, u.Path, u.FileName, u.FileSize, u.MimeType, u.Checksum, u.PublicURL, u.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to insert upload: %w", err)
	}
	return nil
}

// ListByUser returns the user's live uploads, newest first. An empty bucket
// matches every bucket.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID, bucket string, limit int) ([]*models.Upload, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, user_id, organisation_id, bucket, path, file_name, file_size, mime_type, checksum, public_url, uploaded_at
		FROM uploads
		WHERE user_id = $1 AND ($2 = '' OR bucket = $2) AND deleted_at IS NULL
		ORDER BY uploaded_at DESC
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, userID, bucket, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select uploads: %w", err)
	}
	defer rows.Close()

	var result []*models.Upload
	for rows.Next() {
		var u models.Upload
		if err := rows.Scan(&u.ID, &u.UserID, &u.OrganisationID, &u.Bucket, &u.Path, &u.FileName,
			&u.FileSize, &u.MimeType, &u.Checksum, &u.PublicURL, &u.UploadedAt); err != nil {
			return nil, err
		}
		result = append(result, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkDeleted flags the live row for (bucket, path). Objects that were never
// recorded yield common.ErrorNotFound.
func (r *PostgresRepository) MarkDeleted(ctx context.Context, bucket, path string) error {
	query := `UPDATE uploads SET deleted_at = now() WHERE bucket = $1 AND path = $2 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, bucket, path)
	if err != nil {
		return fmt.Errorf("failed to mark deleted: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
