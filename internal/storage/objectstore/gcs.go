package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GCSConfig holds settings for the Google Cloud Storage backend.
//
// SigningEmail and SigningPrivateKey are the service account used for V4
// signed URLs; when empty the client's own credentials sign them.
// Endpoint points the client at an emulator and disables authentication.
type GCSConfig struct {
	CredentialsFile   string
	Endpoint          string
	SigningEmail      string
	SigningPrivateKey string
	PublicBaseURL     string
}

// GCSStore implements Store using Google Cloud Storage.
type GCSStore struct {
	client        *storage.Client
	signingEmail  string
	signingKey    []byte
	publicBaseURL string
	now           func() time.Time
}

// NewGCSStore creates a client (application default credentials unless
// CredentialsFile or Endpoint say otherwise).
func NewGCSStore(ctx context.Context, cfg GCSConfig) (*GCSStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return newGCSStore(client, cfg), nil
}

func newGCSStore(client *storage.Client, cfg GCSConfig) *GCSStore {
	base := cfg.PublicBaseURL
	if base == "" {
		base = "https://storage.googleapis.com"
	}

	var key []byte
	if cfg.SigningPrivateKey != "" {
		// keys copied from env files carry literal \n sequences
		key = []byte(strings.ReplaceAll(cfg.SigningPrivateKey, `\n`, "\n"))
	}

	return &GCSStore{
		client:        client,
		signingEmail:  cfg.SigningEmail,
		signingKey:    key,
		publicBaseURL: strings.TrimRight(base, "/"),
		now:           time.Now,
	}
}

// objectWriter is the part of *storage.Writer that Put uses.
type objectWriter interface {
	io.Writer
	Close() error
	Attrs() *storage.ObjectAttrs
}

// newObjectWriter is a test seam for ObjectHandle.NewWriter.
var newObjectWriter = func(ctx context.Context, obj *storage.ObjectHandle, opts PutOptions) objectWriter {
	w := obj.NewWriter(ctx)
	w.ContentType = opts.ContentType
	w.CacheControl = opts.CacheControl
	w.Metadata = opts.Metadata
	return w
}

// Put streams body into a new object. Closing a GCS writer commits what was
// written, so a failed copy cancels the writer context first and the
// partial object is discarded.
func (s *GCSStore) Put(ctx context.Context, bucket, key string, body io.ReadSeeker, size int64, opts PutOptions) (*ObjectInfo, error) {
	obj := s.client.Bucket(bucket).Object(key)
	if !opts.Upsert {
		obj = obj.If(storage.Conditions{DoesNotExist: true})
	}

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := newObjectWriter(wctx, obj, opts)
	if _, err := io.Copy(w, body); err != nil {
		cancel()
		_ = w.Close()
		return nil, fmt.Errorf("gcs write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("gcs close failed: %w", err)
	}

	info := &ObjectInfo{Key: key, Size: size, ContentType: opts.ContentType, LastModified: s.now().UTC()}
	if attrs := w.Attrs(); attrs != nil {
		info.Size = attrs.Size
		info.ETag = attrs.Etag
		info.LastModified = attrs.Updated
	}
	return info, nil
}

func (s *GCSStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	r, err := s.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gcs get failed for %s: %w", key, err)
	}
	defer func() { _ = r.Close() }()

	return io.ReadAll(r)
}

func (s *GCSStore) Delete(ctx context.Context, bucket, key string) error {
	err := s.client.Bucket(bucket).Object(key).Delete(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("gcs delete failed for %s: %w", key, err)
	}
	return nil
}

func (s *GCSStore) DeleteMany(ctx context.Context, bucket string, keys []string) error {
	b := s.client.Bucket(bucket)
	for _, k := range keys {
		if err := b.Object(k).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("gcs delete failed for %s: %w", k, err)
		}
	}
	return nil
}

func (s *GCSStore) List(ctx context.Context, bucket, prefix string, limit int) ([]ObjectInfo, error) {
	it := s.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix, Delimiter: "/"})

	var result []ObjectInfo
	for limit <= 0 || len(result) < limit {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gcs list failed: %w", err)
		}
		// synthetic directory entry
		if attrs.Prefix != "" {
			continue
		}
		result = append(result, ObjectInfo{
			Key:          attrs.Name,
			Size:         attrs.Size,
			ContentType:  attrs.ContentType,
			ETag:         attrs.Etag,
			LastModified: attrs.Updated,
		})
	}
	return result, nil
}

func (s *GCSStore) PublicURL(bucket, key string) string {
	return s.publicBaseURL + "/" + bucket + "/" + escapeKey(key)
}

func (s *GCSStore) SignedURL(ctx context.Context, bucket, key string, method Method, ttl time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  string(method),
		Expires: s.now().Add(ttl),
	}

	if s.signingEmail != "" {
		opts.GoogleAccessID = s.signingEmail
		opts.PrivateKey = s.signingKey
		return storage.SignedURL(bucket, key, opts)
	}

	return s.client.Bucket(bucket).SignedURL(key, opts)
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
