package api

import (
	"github.com/dmitrijs2005/csomedia/internal/storage"
	"github.com/dmitrijs2005/csomedia/internal/storage/objectstore"
)

type Empty struct{}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type BucketInfo struct {
	Bucket storage.Bucket `json:"bucket"`
	storage.BucketConfig
}

type ListBucketsResponse struct {
	Buckets []BucketInfo `json:"buckets"`
}

// UploadRequest carries a whole file. Bucket is the physical bucket name.
// The uploader's identity is taken from the access token, never from the
// request.
type UploadRequest struct {
	Bucket         string `json:"bucket"`
	FileName       string `json:"fileName"`
	ContentType    string `json:"contentType"`
	Size           int64  `json:"size"`
	Content        []byte `json:"content"`
	OrganisationID string `json:"organisationId,omitempty"`
	CustomPath     string `json:"customPath,omitempty"`
	Upsert         bool   `json:"upsert,omitempty"`
	CacheControl   string `json:"cacheControl,omitempty"`
}

type ObjectRequest struct {
	Bucket string `json:"bucket"`
	Path   string `json:"path"`
}

type DownloadResponse struct {
	Content []byte `json:"content"`
}

type DeleteMultipleRequest struct {
	Bucket string   `json:"bucket"`
	Paths  []string `json:"paths"`
}

type ListRequest struct {
	Bucket string `json:"bucket"`
	Folder string `json:"folder,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

type ListResponse struct {
	Objects []objectstore.ObjectInfo `json:"objects"`
}

type URLResponse struct {
	URL string `json:"url"`
}

// SignedURLRequest asks for a download URL valid for ExpiresIn seconds.
type SignedURLRequest struct {
	Bucket    string `json:"bucket"`
	Path      string `json:"path"`
	ExpiresIn int64  `json:"expiresIn,omitempty"`
}

// UploadURLRequest asks for a presigned PUT URL. The object key is
// generated from FileName unless CustomPath is set.
type UploadURLRequest struct {
	Bucket         string `json:"bucket"`
	FileName       string `json:"fileName"`
	OrganisationID string `json:"organisationId,omitempty"`
	CustomPath     string `json:"customPath,omitempty"`
	ExpiresIn      int64  `json:"expiresIn,omitempty"`
}

type UploadURLResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

type ListUploadsRequest struct {
	Bucket string `json:"bucket,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

type ListUploadsResponse struct {
	Uploads []storage.UploadedFile `json:"uploads"`
}

type UploadResponse struct {
	File storage.UploadedFile `json:"file"`
}
