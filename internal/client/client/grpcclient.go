package client

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/csomedia/internal/api"
	"github.com/dmitrijs2005/csomedia/internal/common"
	"github.com/dmitrijs2005/csomedia/internal/storage"
	"github.com/dmitrijs2005/csomedia/internal/storage/objectstore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// mediaAPI is the generated-style stub surface; *api.MediaClient implements it.
type mediaAPI interface {
	Ping(ctx context.Context, in *api.PingRequest, opts ...grpc.CallOption) (*api.PingResponse, error)
	ListBuckets(ctx context.Context, in *api.Empty, opts ...grpc.CallOption) (*api.Envelope[api.ListBucketsResponse], error)
	Upload(ctx context.Context, in *api.UploadRequest, opts ...grpc.CallOption) (*api.Envelope[api.UploadResponse], error)
	Download(ctx context.Context, in *api.ObjectRequest, opts ...grpc.CallOption) (*api.Envelope[api.DownloadResponse], error)
	Delete(ctx context.Context, in *api.ObjectRequest, opts ...grpc.CallOption) (*api.Envelope[api.Empty], error)
	DeleteMultiple(ctx context.Context, in *api.DeleteMultipleRequest, opts ...grpc.CallOption) (*api.Envelope[api.Empty], error)
	List(ctx context.Context, in *api.ListRequest, opts ...grpc.CallOption) (*api.Envelope[api.ListResponse], error)
	GetPublicURL(ctx context.Context, in *api.ObjectRequest, opts ...grpc.CallOption) (*api.Envelope[api.URLResponse], error)
	CreateSignedURL(ctx context.Context, in *api.SignedURLRequest, opts ...grpc.CallOption) (*api.Envelope[api.URLResponse], error)
	CreateUploadURL(ctx context.Context, in *api.UploadURLRequest, opts ...grpc.CallOption) (*api.Envelope[api.UploadURLResponse], error)
	ListUploads(ctx context.Context, in *api.ListUploadsRequest, opts ...grpc.CallOption) (*api.Envelope[api.ListUploadsResponse], error)
}

var _ Client = (*GRPCClient)(nil)

type GRPCClient struct {
	endpointURL    string
	conn           *grpc.ClientConn
	client         mediaAPI
	accessToken    string
	maxMessageSize int
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewMediaClientService dials endpointURL. maxMessageSize bounds both
// directions; 0 keeps the gRPC default.
func NewMediaClientService(endpointURL, accessToken string, maxMessageSize int) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken, maxMessageSize: maxMessageSize}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}
	if s.maxMessageSize > 0 {
		opts = append(opts, grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(s.maxMessageSize), grpc.MaxCallSendMsgSize(s.maxMessageSize)))
	}

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewMediaClient(conn)
	return nil
}

// SetAccessToken replaces the token sent with subsequent calls.
func (s *GRPCClient) SetAccessToken(token string) {
	s.accessToken = token
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) ListBuckets(ctx context.Context) ([]api.BucketInfo, error) {
	resp, err := unwrap(s.client.ListBuckets(ctx, &api.Empty{}))
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Buckets, nil
}

// Upload validates file against bucket, then sends it in a single request.
// Invalid files never reach the server.
func (s *GRPCClient) Upload(ctx context.Context, file storage.File, bucket storage.Bucket, opts storage.UploadOptions) (*storage.UploadedFile, error) {
	if err := storage.ValidateFile(file, bucket).Err(); err != nil {
		return nil, err
	}
	if file.Content == nil {
		return nil, common.NewValidationError([]string{"File content is missing"})
	}

	content, err := io.ReadAll(io.LimitReader(file.Content, file.Size+1))
	if err != nil {
		return nil, common.NewTransportError("read", err)
	}
	if int64(len(content)) != file.Size {
		return nil, common.NewValidationError([]string{
			fmt.Sprintf("File size mismatch: declared %d bytes, read %d bytes", file.Size, len(content)),
		})
	}

	req := &api.UploadRequest{
		Bucket:         bucket.ID(),
		FileName:       file.Name,
		ContentType:    file.ContentType,
		Size:           file.Size,
		Content:        content,
		OrganisationID: opts.OrganisationID,
		CustomPath:     opts.CustomPath,
		Upsert:         opts.Upsert,
		CacheControl:   opts.CacheControl,
	}

	resp, err := unwrap(s.client.Upload(ctx, req))
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.File, nil
}

func (s *GRPCClient) Download(ctx context.Context, bucket storage.Bucket, path string) ([]byte, error) {
	resp, err := unwrap(s.client.Download(ctx, &api.ObjectRequest{Bucket: bucket.ID(), Path: path}))
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Content, nil
}

func (s *GRPCClient) Delete(ctx context.Context, bucket storage.Bucket, path string) error {
	_, err := unwrap(s.client.Delete(ctx, &api.ObjectRequest{Bucket: bucket.ID(), Path: path}))
	return s.mapError(err)
}

func (s *GRPCClient) DeleteMultiple(ctx context.Context, bucket storage.Bucket, paths []string) error {
	_, err := unwrap(s.client.DeleteMultiple(ctx, &api.DeleteMultipleRequest{Bucket: bucket.ID(), Paths: paths}))
	return s.mapError(err)
}

func (s *GRPCClient) List(ctx context.Context, bucket storage.Bucket, folder string, limit int) ([]objectstore.ObjectInfo, error) {
	resp, err := unwrap(s.client.List(ctx, &api.ListRequest{Bucket: bucket.ID(), Folder: folder, Limit: limit}))
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Objects, nil
}

func (s *GRPCClient) GetPublicURL(ctx context.Context, bucket storage.Bucket, path string) (string, error) {
	resp, err := unwrap(s.client.GetPublicURL(ctx, &api.ObjectRequest{Bucket: bucket.ID(), Path: path}))
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.URL, nil
}

// CreateSignedURL returns a download URL; ttl is rounded down to whole
// seconds and 0 selects the server default.
func (s *GRPCClient) CreateSignedURL(ctx context.Context, bucket storage.Bucket, path string, ttl time.Duration) (string, error) {
	req := &api.SignedURLRequest{Bucket: bucket.ID(), Path: path, ExpiresIn: int64(ttl / time.Second)}
	resp, err := unwrap(s.client.CreateSignedURL(ctx, req))
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.URL, nil
}

// CreateUploadURL returns the object path the server chose and a presigned
// PUT URL for it.
func (s *GRPCClient) CreateUploadURL(ctx context.Context, bucket storage.Bucket, fileName, organisationID, customPath string, ttl time.Duration) (string, string, error) {
	req := &api.UploadURLRequest{
		Bucket:         bucket.ID(),
		FileName:       fileName,
		OrganisationID: organisationID,
		CustomPath:     customPath,
		ExpiresIn:      int64(ttl / time.Second),
	}
	resp, err := unwrap(s.client.CreateUploadURL(ctx, req))
	if err != nil {
		return "", "", s.mapError(err)
	}
	return resp.Path, resp.URL, nil
}

// ListUploads returns the caller's uploads; bucket 0 means every bucket.
func (s *GRPCClient) ListUploads(ctx context.Context, bucket storage.Bucket, limit int) ([]storage.UploadedFile, error) {
	req := &api.ListUploadsRequest{Limit: limit}
	if bucket.Valid() {
		req.Bucket = bucket.ID()
	}
	resp, err := unwrap(s.client.ListUploads(ctx, req))
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Uploads, nil
}

// unwrap folds a call result and its envelope into a single error.
func unwrap[T any](env *api.Envelope[T], err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	return env.Unwrap()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable:
		return ErrUnavailable
	case codes.Unimplemented:
		return fmt.Errorf("%w: %s", ErrNotSupported, st.Message())
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	case codes.Canceled:
		return context.Canceled
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
