package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/csomedia/internal/api"
	"github.com/dmitrijs2005/csomedia/internal/logging"
	"github.com/dmitrijs2005/csomedia/internal/storage"
	"github.com/dmitrijs2005/csomedia/internal/storage/objectstore"
	"google.golang.org/grpc"
)

// mediaSvc is the subset of services.MediaService used by the handlers.
type mediaSvc interface {
	Upload(ctx context.Context, userID string, file storage.File, bucket storage.Bucket, opts storage.UploadOptions) (*storage.UploadedFile, error)
	Download(ctx context.Context, bucket storage.Bucket, path string) ([]byte, error)
	Delete(ctx context.Context, bucket storage.Bucket, path string) error
	DeleteMultiple(ctx context.Context, bucket storage.Bucket, paths []string) error
	List(ctx context.Context, bucket storage.Bucket, folder string, limit int) ([]objectstore.ObjectInfo, error)
	GetPublicURL(bucket storage.Bucket, path string) string
	CreateSignedURL(ctx context.Context, bucket storage.Bucket, path string, ttl time.Duration) (string, error)
	CreateUploadURL(ctx context.Context, userID string, bucket storage.Bucket, fileName, organisationID, customPath string, ttl time.Duration) (string, string, error)
	ListUploads(ctx context.Context, userID string, bucket storage.Bucket, limit int) ([]storage.UploadedFile, error)
}

type GRPCServer struct {
	address         string
	media           mediaSvc
	logger          logging.Logger
	jwtSecret       []byte
	maxMessageBytes int
}

func NewGRPCServer(a string, l logging.Logger, media mediaSvc, secretKey string, maxMessageBytes int) *GRPCServer {
	return &GRPCServer{
		address:         a,
		logger:          l.With("module", "grpc_server"),
		media:           media,
		jwtSecret:       []byte(secretKey),
		maxMessageBytes: maxMessageBytes,
	}
}

func (s *GRPCServer) serverOptions() []grpc.ServerOption {
	opts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor)}
	if s.maxMessageBytes > 0 {
		opts = append(opts, grpc.MaxRecvMsgSize(s.maxMessageBytes), grpc.MaxSendMsgSize(s.maxMessageBytes))
	}
	return opts
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(s.serverOptions()...)
	api.RegisterMediaServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
