// Package models defines server-side data models persisted in the database.
package models

import (
	"time"

	"github.com/dmitrijs2005/csomedia/internal/storage"
)

// Upload is a ledger row describing one stored object and who put it there.
type Upload struct {
	// ID matches storage.UploadedFile.ID.
	ID             string
	UserID         string
	OrganisationID string

	// Bucket is the physical bucket name; Bucket and Path identify the object.
	Bucket string
	Path   string

	FileName  string
	FileSize  int64
	MimeType  string
	Checksum  string
	PublicURL string

	UploadedAt time.Time
	// DeletedAt is set when the object was removed through the server.
	DeletedAt *time.Time
}

// NewUpload builds a ledger row from a successful upload.
func NewUpload(f *storage.UploadedFile, userID, organisationID string) *Upload {
	return &Upload{
		ID:             f.ID,
		UserID:         userID,
		OrganisationID: organisationID,
		Bucket:         f.Bucket.ID(),
		Path:           f.Path,
		FileName:       f.FileName,
		FileSize:       f.FileSize,
		MimeType:       f.MimeType,
		Checksum:       f.Checksum,
		PublicURL:      f.PublicURL,
		UploadedAt:     f.UploadedAt,
	}
}

// UploadedFile converts the row back to the wire shape. Rows naming a
// bucket that is no longer declared return common.ErrUnknownBucket.
func (u *Upload) UploadedFile() (storage.UploadedFile, error) {
	b, err := storage.ParseBucket(u.Bucket)
	if err != nil {
		return storage.UploadedFile{}, err
	}
	return storage.UploadedFile{
		ID:         u.ID,
		Path:       u.Path,
		PublicURL:  u.PublicURL,
		Bucket:     b,
		FileName:   u.FileName,
		FileSize:   u.FileSize,
		MimeType:   u.MimeType,
		Checksum:   u.Checksum,
		UploadedAt: u.UploadedAt,
	}, nil
}
