package uploads

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/csomedia/internal/common"
	"github.com/dmitrijs2005/csomedia/internal/server/models"
	"github.com/google/go-cmp/cmp"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var uploadedAt = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func sampleUpload() *models.Upload {
	return &models.Upload{
		ID:             "7f1c0a52-8a4e-4d7c-9d55-2d1f7c1f0e11",
		UserID:         "u1",
		OrganisationID: "o1",
		Bucket:         "project-media",
		Path:           "projects/o1/1748772000000-plan.pdf",
		FileName:       "plan.pdf",
		FileSize:       2048,
		MimeType:       "application/pdf",
		Checksum:       "c0ffee",
		PublicURL:      "https://cdn/project-media/projects/o1/1748772000000-plan.pdf",
		UploadedAt:     uploadedAt,
	}
}

const insertQuery = `(?s)^\s*INSERT\s+INTO\s+uploads\b.*ON\s+CONFLICT\s*\(bucket,\s*path\)\s*DO\s+UPDATE\s+SET\b.*deleted_at\s*=\s*NULL\s*$`

func TestInsert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := sampleUpload()
	mock.ExpectExec(insertQuery).
		WithArgs(u.ID, u.UserID, u.OrganisationID, u.Bucket, u.Path, u.FileName, u.FileSize, u.MimeType, u.Checksum, u.PublicURL, u.UploadedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Insert(context.Background(), u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQuery).WillReturnError(errors.New("conn refused"))

	err := repo.Insert(context.Background(), sampleUpload())
	if err == nil || err.Error() != "failed to insert upload: conn refused" {
		t.Fatalf("unexpected error: %v", err)
	}
}

const listQuery = `(?s)^\s*SELECT\s+id,.*FROM\s+uploads\s+WHERE\s+user_id\s*=\s*\$1.*deleted_at\s+IS\s+NULL\s+ORDER\s+BY\s+uploaded_at\s+DESC\s+LIMIT\s+\$3\s*$`

var listColumns = []string{"id", "user_id", "organisation_id", "bucket", "path", "file_name", "file_size", "mime_type", "checksum", "public_url", "uploaded_at"}

func TestListByUser_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := sampleUpload()
	rows := sqlmock.NewRows(listColumns).
		AddRow(u.ID, u.UserID, u.OrganisationID, u.Bucket, u.Path, u.FileName, u.FileSize, u.MimeType, u.Checksum, u.PublicURL, u.UploadedAt)

	mock.ExpectQuery(listQuery).WithArgs("u1", "project-media", 10).WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "u1", "project-media", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 row, got %d", len(got))
	}
	if diff := cmp.Diff(u, got[0]); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListByUser_DefaultLimit(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQuery).WithArgs("u1", "", DefaultListLimit).WillReturnRows(sqlmock.NewRows(listColumns))

	got, err := repo.ListByUser(context.Background(), "u1", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want no rows, got %d", len(got))
	}
}

func TestListByUser_Errors(t *testing.T) {
	t.Run("query", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(listQuery).WillReturnError(errors.New("boom"))
		if _, err := repo.ListByUser(context.Background(), "u1", "", 5); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("scan", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		rows := sqlmock.NewRows(listColumns).
			AddRow("id", "u1", "", "b", "p", "f", "not-a-number", "m", "", "", uploadedAt)
		mock.ExpectQuery(listQuery).WillReturnRows(rows)
		if _, err := repo.ListByUser(context.Background(), "u1", "", 5); err == nil {
			t.Fatal("expected scan error")
		}
	})

	t.Run("rows", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		u := sampleUpload()
		rows := sqlmock.NewRows(listColumns).
			AddRow(u.ID, u.UserID, u.OrganisationID, u.Bucket, u.Path, u.FileName, u.FileSize, u.MimeType, u.Checksum, u.PublicURL, u.UploadedAt).
			RowError(0, errors.New("row broken"))
		mock.ExpectQuery(listQuery).WillReturnRows(rows)
		if _, err := repo.ListByUser(context.Background(), "u1", "", 5); err == nil {
			t.Fatal("expected rows error")
		}
	})
}

const markQuery = `^UPDATE\s+uploads\s+SET\s+deleted_at\s*=\s*now\(\)\s+WHERE\s+bucket\s*=\s*\$1\s+AND\s+path\s*=\s*\$2\s+AND\s+deleted_at\s+IS\s+NULL$`

func TestMarkDeleted(t *testing.T) {
	tests := []struct {
		name    string
		result  sql.Result
		execErr error
		wantErr error
		anyErr  bool
	}{
		{name: "ok", result: sqlmock.NewResult(0, 1)},
		{name: "not recorded", result: sqlmock.NewResult(0, 0), wantErr: common.ErrorNotFound},
		{name: "exec error", execErr: errors.New("boom"), anyErr: true},
		{name: "rows affected error", result: sqlmock.NewErrorResult(errors.New("ra")), anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			exp := mock.ExpectExec(markQuery).WithArgs("user-avatars", "u1/1-a.png")
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(tt.result)
			}

			err := repo.MarkDeleted(context.Background(), "user-avatars", "u1/1-a.png")
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
			case tt.anyErr:
				if err == nil {
					t.Fatal("expected error")
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}
