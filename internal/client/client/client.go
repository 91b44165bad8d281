package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/csomedia/internal/api"
	"github.com/dmitrijs2005/csomedia/internal/storage"
	"github.com/dmitrijs2005/csomedia/internal/storage/objectstore"
)

// Client is the media service as seen by the CLI.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	ListBuckets(ctx context.Context) ([]api.BucketInfo, error)
	Upload(ctx context.Context, file storage.File, bucket storage.Bucket, opts storage.UploadOptions) (*storage.UploadedFile, error)
	Download(ctx context.Context, bucket storage.Bucket, path string) ([]byte, error)
	Delete(ctx context.Context, bucket storage.Bucket, path string) error
	DeleteMultiple(ctx context.Context, bucket storage.Bucket, paths []string) error
	List(ctx context.Context, bucket storage.Bucket, folder string, limit int) ([]objectstore.ObjectInfo, error)
	GetPublicURL(ctx context.Context, bucket storage.Bucket, path string) (string, error)
	CreateSignedURL(ctx context.Context, bucket storage.Bucket, path string, ttl time.Duration) (string, error)
	CreateUploadURL(ctx context.Context, bucket storage.Bucket, fileName, organisationID, customPath string, ttl time.Duration) (string, string, error)
	ListUploads(ctx context.Context, bucket storage.Bucket, limit int) ([]storage.UploadedFile, error)
}
