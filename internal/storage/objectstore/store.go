// Package objectstore adapts hosted object-storage services (S3 compatible
// stores such as MinIO, Google Cloud Storage, or an in-process map) to the
// narrow Store contract used by the upload client.
package objectstore

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when the requested object does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrAlreadyExists is returned by Put when Upsert is false and the key is taken.
	ErrAlreadyExists = errors.New("object already exists")
)

// PutOptions control a single object write.
type PutOptions struct {
	ContentType  string
	CacheControl string
	// Upsert allows overwriting an existing object at the same key.
	Upsert   bool
	Metadata map[string]string
}

// ObjectInfo describes a stored object as reported by the backend.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

// Method is the HTTP method a signed URL is valid for.
type Method string

const (
	MethodGet Method = "GET"
	MethodPut Method = "PUT"
)

// Store is the object-storage API consumed by storage.Client. Every method
// maps to a single backend request; none of them retry.
type Store interface {
	Put(ctx context.Context, bucket, key string, body io.ReadSeeker, size int64, opts PutOptions) (*ObjectInfo, error)
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Delete(ctx context.Context, bucket, key string) error
	DeleteMany(ctx context.Context, bucket string, keys []string) error
	// List returns objects directly under prefix (non-recursive), at most limit
	// entries when limit > 0 and every matching object otherwise.
	List(ctx context.Context, bucket, prefix string, limit int) ([]ObjectInfo, error)
	// PublicURL returns the unauthenticated URL of an object. It performs no I/O.
	PublicURL(bucket, key string) string
	// SignedURL returns a time-limited URL allowing method on the object.
	SignedURL(ctx context.Context, bucket, key string, method Method, ttl time.Duration) (string, error)
}
