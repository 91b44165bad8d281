package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/csomedia/internal/dbx"
	"github.com/dmitrijs2005/csomedia/internal/server/repositories/uploads"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Uploads(db dbx.DBTX) uploads.Repository
}
