package history

import (
	"context"

	"github.com/dmitrijs2005/csomedia/internal/storage"
)

type Repository interface {
	// Add records f, replacing an earlier record of the same bucket and path.
	Add(ctx context.Context, f storage.UploadedFile) error
	// List returns the newest records first; bucket 0 means every bucket and
	// limit <= 0 means no limit.
	List(ctx context.Context, bucket storage.Bucket, limit int) ([]storage.UploadedFile, error)
	// Remove forgets the record of an object; a missing record is not an error.
	Remove(ctx context.Context, bucket storage.Bucket, path string) error
	Clear(ctx context.Context) error
}
