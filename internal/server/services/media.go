// Package services contains server-side business logic. MediaService puts
// the upload client behind the RPC layer and keeps the upload ledger in
// step with the object store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/csomedia/internal/common"
	"github.com/dmitrijs2005/csomedia/internal/dbx"
	"github.com/dmitrijs2005/csomedia/internal/logging"
	"github.com/dmitrijs2005/csomedia/internal/server/config"
	"github.com/dmitrijs2005/csomedia/internal/server/models"
	"github.com/dmitrijs2005/csomedia/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/csomedia/internal/storage"
	"github.com/dmitrijs2005/csomedia/internal/storage/objectstore"
)

// ErrLedgerDisabled is returned by ListUploads when no database is configured.
var ErrLedgerDisabled = errors.New("upload ledger disabled")

// MediaService runs storage operations on behalf of authenticated users.
// Ledger writes are best effort: a failed write is logged and the storage
// result is still returned.
type MediaService struct {
	client       *storage.Client
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	logger       logging.Logger
	signedURLTTL time.Duration
	uploadURLTTL time.Duration
	now          func() time.Time
}

// NewMediaService constructs a MediaService. A nil db disables the ledger.
func NewMediaService(client *storage.Client, db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) *MediaService {
	return &MediaService{
		client:       client,
		db:           db,
		repomanager:  m,
		logger:       l.With("module", "media_service"),
		signedURLTTL: cfg.SignedURLTTL,
		uploadURLTTL: cfg.UploadURLTTL,
		now:          time.Now,
	}
}

func (s *MediaService) ledgerEnabled() bool {
	return s.db != nil && s.repomanager != nil
}

// Upload stores file for userID. The user id in opts is replaced by userID.
func (s *MediaService) Upload(ctx context.Context, userID string, file storage.File, bucket storage.Bucket, opts storage.UploadOptions) (*storage.UploadedFile, error) {
	opts.UserID = userID

	res, err := s.client.Upload(ctx, file, bucket, opts)
	if err != nil {
		return nil, err
	}

	if s.ledgerEnabled() {
		if err := s.repomanager.Uploads(s.db).Insert(ctx, models.NewUpload(res, userID, opts.OrganisationID)); err != nil {
			s.logger.Warn(ctx, "ledger insert failed", "bucket", bucket.ID(), "path", res.Path, "error", err)
		}
	}

	return res, nil
}

func (s *MediaService) Download(ctx context.Context, bucket storage.Bucket, path string) ([]byte, error) {
	return s.client.Download(ctx, bucket, path)
}

// Delete removes the object and marks its ledger row deleted.
func (s *MediaService) Delete(ctx context.Context, bucket storage.Bucket, path string) error {
	if err := s.client.Delete(ctx, bucket, path); err != nil {
		return err
	}

	if s.ledgerEnabled() {
		s.markDeleted(ctx, s.repomanager.Uploads(s.db).MarkDeleted(ctx, bucket.ID(), path), bucket, path)
	}
	return nil
}

// DeleteMultiple removes every object in paths and marks the ledger rows in
// one transaction.
func (s *MediaService) DeleteMultiple(ctx context.Context, bucket storage.Bucket, paths []string) error {
	if err := s.client.DeleteMultiple(ctx, bucket, paths); err != nil {
		return err
	}
	if !s.ledgerEnabled() || len(paths) == 0 {
		return nil
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Uploads(tx)
		for _, p := range paths {
			if err := repo.MarkDeleted(ctx, bucket.ID(), p); err != nil && !errors.Is(err, common.ErrorNotFound) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Warn(ctx, "ledger delete failed", "bucket", bucket.ID(), "paths", len(paths), "error", err)
	}
	return nil
}

func (s *MediaService) markDeleted(ctx context.Context, err error, bucket storage.Bucket, path string) {
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorNotFound):
		s.logger.Debug(ctx, "deleted object was not in the ledger", "bucket", bucket.ID(), "path", path)
	default:
		s.logger.Warn(ctx, "ledger delete failed", "bucket", bucket.ID(), "path", path, "error", err)
	}
}

func (s *MediaService) List(ctx context.Context, bucket storage.Bucket, folder string, limit int) ([]objectstore.ObjectInfo, error) {
	return s.client.List(ctx, bucket, folder, limit)
}

func (s *MediaService) GetPublicURL(bucket storage.Bucket, path string) string {
	return s.client.GetPublicURL(bucket, path)
}

// CreateSignedURL returns a download URL; ttl <= 0 uses the configured default.
func (s *MediaService) CreateSignedURL(ctx context.Context, bucket storage.Bucket, path string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.signedURLTTL
	}
	return s.client.CreateSignedURL(ctx, bucket, path, ttl)
}

// CreateUploadURL reserves a key for a direct upload by userID and returns
// it with a presigned PUT URL. The key follows the bucket's folder layout
// unless customPath is given.
func (s *MediaService) CreateUploadURL(ctx context.Context, userID string, bucket storage.Bucket, fileName, organisationID, customPath string, ttl time.Duration) (string, string, error) {
	if !bucket.Valid() {
		return "", "", common.NewValidationError([]string{common.ErrUnknownBucket.Error()})
	}

	key := customPath
	if key == "" {
		if fileName == "" {
			return "", "", common.NewValidationError([]string{"File name is required"})
		}
		key = storage.GenerateFilePath(bucket, fileName, organisationID, userID, s.now())
	}

	if ttl <= 0 {
		ttl = s.uploadURLTTL
	}
	u, err := s.client.CreateUploadURL(ctx, bucket, key, ttl)
	if err != nil {
		return "", "", err
	}
	return key, u, nil
}

// ListUploads returns userID's recorded uploads, newest first. A zero
// bucket lists every bucket.
func (s *MediaService) ListUploads(ctx context.Context, userID string, bucket storage.Bucket, limit int) ([]storage.UploadedFile, error) {
	if !s.ledgerEnabled() {
		return nil, ErrLedgerDisabled
	}

	var name string
	if bucket.Valid() {
		name = bucket.ID()
	}

	rows, err := s.repomanager.Uploads(s.db).ListByUser(ctx, userID, name, limit)
	if err != nil {
		return nil, err
	}

	out := make([]storage.UploadedFile, 0, len(rows))
	for _, r := range rows {
		f, err := r.UploadedFile()
		if err != nil {
			s.logger.Warn(ctx, "skipping ledger row", "id", r.ID, "bucket", r.Bucket, "error", err)
			continue
		}
		out = append(out, f)
	}
	return out, nil
}
