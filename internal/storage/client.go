package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/csomedia/internal/common"
	"github.com/dmitrijs2005/csomedia/internal/cryptox"
	"github.com/dmitrijs2005/csomedia/internal/logging"
	"github.com/dmitrijs2005/csomedia/internal/storage/objectstore"
	"github.com/google/uuid"
)

// DefaultSignedURLTTL is used when CreateSignedURL is called with ttl <= 0.
const DefaultSignedURLTTL = time.Hour

// Client uploads validated files to an object store and exposes the
// remaining object operations with their errors normalised to
// *common.UploadError. Client never retries.
type Client struct {
	store    objectstore.Store
	logger   logging.Logger
	observer Observer
	now      func() time.Time
	newID    func() string
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithObserver reports operation telemetry to o.
func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithClock overrides the time source used for paths and UploadedAt.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func NewClient(store objectstore.Store, logger logging.Logger, opts ...ClientOption) *Client {
	if logger == nil {
		logger = logging.Nop()
	}
	c := &Client{
		store:    store,
		logger:   logger,
		observer: nopObserver{},
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload validates file against bucket, stores it with a single Put and,
// for public buckets, resolves its public URL. Validation failures are
// returned before any storage request is made.
func (c *Client) Upload(ctx context.Context, file File, bucket Bucket, opts UploadOptions) (*UploadedFile, error) {
	if err := ValidateFile(file, bucket).Err(); err != nil {
		c.observer.RecordRejected(bucket)
		c.logger.Debug(ctx, "upload rejected", "bucket", bucket, "file", file.Name, "error", err)
		return nil, err
	}
	if file.Content == nil {
		c.observer.RecordRejected(bucket)
		return nil, common.NewValidationError([]string{"File content is missing"})
	}

	data, checksum, err := cryptox.ReadAllDigest(file.Content, file.Size+1)
	if err != nil {
		return nil, common.NewTransportError("read file", err)
	}
	if int64(len(data)) != file.Size {
		c.observer.RecordRejected(bucket)
		return nil, common.NewValidationError([]string{
			fmt.Sprintf("File size mismatch: declared %d bytes, read %d bytes", file.Size, len(data)),
		})
	}

	uploadedAt := c.now()
	key := opts.CustomPath
	if key == "" {
		key = GenerateFilePath(bucket, file.Name, opts.OrganisationID, opts.UserID, uploadedAt)
	}

	start := time.Now()
	_, err = c.store.Put(ctx, bucket.ID(), key, bytes.NewReader(data), file.Size, objectstore.PutOptions{
		ContentType:  file.ContentType,
		CacheControl: opts.CacheControl,
		Upsert:       opts.Upsert,
		Metadata:     map[string]string{"checksum": checksum},
	})
	c.observer.RecordUpload(bucket, time.Since(start), file.Size, err)
	if err != nil {
		c.logger.Error(ctx, "upload failed", "bucket", bucket, "path", key, "error", err)
		return nil, common.NewTransportError("upload", err)
	}

	result := &UploadedFile{
		ID:         c.newID(),
		Path:       key,
		Bucket:     bucket,
		FileName:   file.Name,
		FileSize:   file.Size,
		MimeType:   file.ContentType,
		Checksum:   checksum,
		UploadedAt: uploadedAt,
	}
	if bucket.IsPublic() {
		result.PublicURL = c.store.PublicURL(bucket.ID(), key)
	}

	c.logger.Info(ctx, "file uploaded", "bucket", bucket, "path", key, "size", file.Size)
	return result, nil
}

// Download returns the content of the object at path.
func (c *Client) Download(ctx context.Context, bucket Bucket, path string) ([]byte, error) {
	var data []byte
	err := c.observe(ctx, "download", bucket, func() (err error) {
		data, err = c.store.Get(ctx, bucket.ID(), path)
		return err
	})
	return data, err
}

// Delete removes a single object.
func (c *Client) Delete(ctx context.Context, bucket Bucket, path string) error {
	return c.observe(ctx, "delete", bucket, func() error {
		return c.store.Delete(ctx, bucket.ID(), path)
	})
}

// DeleteMultiple removes every object in paths. An empty list is a no-op.
func (c *Client) DeleteMultiple(ctx context.Context, bucket Bucket, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	return c.observe(ctx, "delete_multiple", bucket, func() error {
		return c.store.DeleteMany(ctx, bucket.ID(), paths)
	})
}

// List returns the objects directly under folder.
func (c *Client) List(ctx context.Context, bucket Bucket, folder string, limit int) ([]objectstore.ObjectInfo, error) {
	var items []objectstore.ObjectInfo
	err := c.observe(ctx, "list", bucket, func() (err error) {
		items, err = c.store.List(ctx, bucket.ID(), folder, limit)
		return err
	})
	return items, err
}

// GetPublicURL returns the unauthenticated URL of path. It is computed for
// private buckets too; such URLs are not servable without a signature.
func (c *Client) GetPublicURL(bucket Bucket, path string) string {
	return c.store.PublicURL(bucket.ID(), path)
}

// CreateSignedURL returns a time-limited download URL for path.
func (c *Client) CreateSignedURL(ctx context.Context, bucket Bucket, path string, ttl time.Duration) (string, error) {
	return c.sign(ctx, "sign", bucket, path, objectstore.MethodGet, ttl)
}

// CreateUploadURL returns a time-limited URL that accepts a PUT of the
// object at path. No validation is applied to the eventual upload.
func (c *Client) CreateUploadURL(ctx context.Context, bucket Bucket, path string, ttl time.Duration) (string, error) {
	return c.sign(ctx, "sign_upload", bucket, path, objectstore.MethodPut, ttl)
}

func (c *Client) sign(ctx context.Context, op string, bucket Bucket, path string, method objectstore.Method, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}
	var u string
	err := c.observe(ctx, op, bucket, func() (err error) {
		u, err = c.store.SignedURL(ctx, bucket.ID(), path, method, ttl)
		return err
	})
	return u, err
}

func (c *Client) observe(ctx context.Context, op string, bucket Bucket, call func() error) error {
	start := time.Now()
	err := call()
	c.observer.RecordOperation(op, bucket, time.Since(start), err)
	if err != nil {
		c.logger.Error(ctx, "storage request failed", "op", op, "bucket", bucket, "error", err)
		return common.NewTransportError(op, err)
	}
	return nil
}
