package uploads

import (
	"context"

	"github.com/dmitrijs2005/csomedia/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, u *models.Upload) error
	ListByUser(ctx context.Context, userID, bucket string, limit int) ([]*models.Upload, error)
	MarkDeleted(ctx context.Context, bucket, path string) error
}
