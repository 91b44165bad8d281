package grpc

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/csomedia/internal/api"
	"github.com/dmitrijs2005/csomedia/internal/common"
	"github.com/dmitrijs2005/csomedia/internal/server/services"
	"github.com/dmitrijs2005/csomedia/internal/storage"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var _ api.MediaServer = (*GRPCServer)(nil)

// parseBucket resolves a wire bucket name, reporting unknown names as a
// validation failure.
func parseBucket(name string) (storage.Bucket, error) {
	b, err := storage.ParseBucket(name)
	if err != nil {
		return 0, common.NewValidationError([]string{err.Error()})
	}
	return b, nil
}

func (s *GRPCServer) fail(ctx context.Context, method string, err error) {
	var ue *common.UploadError
	if errors.As(err, &ue) && ue.Kind == common.KindValidation {
		s.logger.Info(ctx, "request rejected", "method", method, "error", err)
		return
	}
	s.logger.Error(ctx, "request failed", "method", method, "error", err)
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) ListBuckets(ctx context.Context, req *api.Empty) (*api.Envelope[api.ListBucketsResponse], error) {
	all := storage.Buckets()
	out := make([]api.BucketInfo, 0, len(all))
	for _, b := range all {
		out = append(out, api.BucketInfo{Bucket: b, BucketConfig: b.Config()})
	}
	return api.OK(api.ListBucketsResponse{Buckets: out}), nil
}

func (s *GRPCServer) Upload(ctx context.Context, req *api.UploadRequest) (*api.Envelope[api.UploadResponse], error) {
	bucket, err := parseBucket(req.Bucket)
	if err != nil {
		return api.Fail[api.UploadResponse](err), nil
	}

	file := storage.File{
		Name:        req.FileName,
		Size:        req.Size,
		ContentType: req.ContentType,
		Content:     bytes.NewReader(req.Content),
	}
	opts := storage.UploadOptions{
		OrganisationID: req.OrganisationID,
		CustomPath:     req.CustomPath,
		Upsert:         req.Upsert,
		CacheControl:   req.CacheControl,
	}

	res, err := s.media.Upload(ctx, userIDFromContext(ctx), file, bucket, opts)
	if err != nil {
		s.fail(ctx, "upload", err)
		return api.Fail[api.UploadResponse](err), nil
	}

	return api.OK(api.UploadResponse{File: *res}), nil
}

func (s *GRPCServer) Download(ctx context.Context, req *api.ObjectRequest) (*api.Envelope[api.DownloadResponse], error) {
	bucket, err := parseBucket(req.Bucket)
	if err != nil {
		return api.Fail[api.DownloadResponse](err), nil
	}

	data, err := s.media.Download(ctx, bucket, req.Path)
	if err != nil {
		s.fail(ctx, "download", err)
		return api.Fail[api.DownloadResponse](err), nil
	}
	return api.OK(api.DownloadResponse{Content: data}), nil
}

func (s *GRPCServer) Delete(ctx context.Context, req *api.ObjectRequest) (*api.Envelope[api.Empty], error) {
	bucket, err := parseBucket(req.Bucket)
	if err != nil {
		return api.Fail[api.Empty](err), nil
	}

	if err := s.media.Delete(ctx, bucket, req.Path); err != nil {
		s.fail(ctx, "delete", err)
		return api.Fail[api.Empty](err), nil
	}
	return api.OK(api.Empty{}), nil
}

func (s *GRPCServer) DeleteMultiple(ctx context.Context, req *api.DeleteMultipleRequest) (*api.Envelope[api.Empty], error) {
	bucket, err := parseBucket(req.Bucket)
	if err != nil {
		return api.Fail[api.Empty](err), nil
	}

	if err := s.media.DeleteMultiple(ctx, bucket, req.Paths); err != nil {
		s.fail(ctx, "delete_multiple", err)
		return api.Fail[api.Empty](err), nil
	}
	return api.OK(api.Empty{}), nil
}

func (s *GRPCServer) List(ctx context.Context, req *api.ListRequest) (*api.Envelope[api.ListResponse], error) {
	bucket, err := parseBucket(req.Bucket)
	if err != nil {
		return api.Fail[api.ListResponse](err), nil
	}

	items, err := s.media.List(ctx, bucket, req.Folder, req.Limit)
	if err != nil {
		s.fail(ctx, "list", err)
		return api.Fail[api.ListResponse](err), nil
	}
	return api.OK(api.ListResponse{Objects: items}), nil
}

func (s *GRPCServer) GetPublicURL(ctx context.Context, req *api.ObjectRequest) (*api.Envelope[api.URLResponse], error) {
	bucket, err := parseBucket(req.Bucket)
	if err != nil {
		return api.Fail[api.URLResponse](err), nil
	}
	return api.OK(api.URLResponse{URL: s.media.GetPublicURL(bucket, req.Path)}), nil
}

func (s *GRPCServer) CreateSignedURL(ctx context.Context, req *api.SignedURLRequest) (*api.Envelope[api.URLResponse], error) {
	bucket, err := parseBucket(req.Bucket)
	if err != nil {
		return api.Fail[api.URLResponse](err), nil
	}

	u, err := s.media.CreateSignedURL(ctx, bucket, req.Path, time.Duration(req.ExpiresIn)*time.Second)
	if err != nil {
		s.fail(ctx, "sign", err)
		return api.Fail[api.URLResponse](err), nil
	}
	return api.OK(api.URLResponse{URL: u}), nil
}

func (s *GRPCServer) CreateUploadURL(ctx context.Context, req *api.UploadURLRequest) (*api.Envelope[api.UploadURLResponse], error) {
	bucket, err := parseBucket(req.Bucket)
	if err != nil {
		return api.Fail[api.UploadURLResponse](err), nil
	}

	path, u, err := s.media.CreateUploadURL(ctx, userIDFromContext(ctx), bucket, req.FileName, req.OrganisationID, req.CustomPath,
		time.Duration(req.ExpiresIn)*time.Second)
	if err != nil {
		s.fail(ctx, "sign_upload", err)
		return api.Fail[api.UploadURLResponse](err), nil
	}
	return api.OK(api.UploadURLResponse{Path: path, URL: u}), nil
}

func (s *GRPCServer) ListUploads(ctx context.Context, req *api.ListUploadsRequest) (*api.Envelope[api.ListUploadsResponse], error) {
	var bucket storage.Bucket
	if req.Bucket != "" {
		b, err := parseBucket(req.Bucket)
		if err != nil {
			return api.Fail[api.ListUploadsResponse](err), nil
		}
		bucket = b
	}

	uploads, err := s.media.ListUploads(ctx, userIDFromContext(ctx), bucket, req.Limit)
	if errors.Is(err, services.ErrLedgerDisabled) {
		return nil, status.Error(codes.Unimplemented, err.Error())
	}
	if err != nil {
		s.fail(ctx, "list_uploads", err)
		return api.Fail[api.ListUploadsResponse](err), nil
	}
	return api.OK(api.ListUploadsResponse{Uploads: uploads}), nil
}
