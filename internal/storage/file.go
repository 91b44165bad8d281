package storage

import (
	"io"
	"time"
)

// File is a file offered for upload. Size and ContentType are the values
// declared by the caller; Validate trusts them and the client verifies Size
// against the bytes actually read from Content.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Content     io.Reader
}

// UploadOptions tune a single Upload call. Empty identifiers drop their
// segment from the generated path; CustomPath bypasses generation entirely.
type UploadOptions struct {
	OrganisationID string
	UserID         string
	CustomPath     string
	Upsert         bool
	CacheControl   string
}

// UploadedFile describes an object after a successful upload.
type UploadedFile struct {
	ID         string    `json:"id"`
	Path       string    `json:"path"`
	PublicURL  string    `json:"publicUrl,omitempty"`
	Bucket     Bucket    `json:"bucket"`
	FileName   string    `json:"fileName"`
	FileSize   int64     `json:"fileSize"`
	MimeType   string    `json:"mimeType"`
	Checksum   string    `json:"checksum,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}
