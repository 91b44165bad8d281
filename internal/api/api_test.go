package api

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/dmitrijs2005/csomedia/internal/common"
	"github.com/dmitrijs2005/csomedia/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeMedia struct {
	lastUpload *UploadRequest
}

func (f *fakeMedia) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}

func (f *fakeMedia) ListBuckets(context.Context, *Empty) (*Envelope[ListBucketsResponse], error) {
	return OK(ListBucketsResponse{Buckets: []BucketInfo{{Bucket: storage.UserAvatars, BucketConfig: storage.UserAvatars.Config()}}}), nil
}

func (f *fakeMedia) Upload(_ context.Context, in *UploadRequest) (*Envelope[UploadResponse], error) {
	f.lastUpload = in
	if in.Size == 0 {
		return Fail[UploadResponse](common.NewValidationError([]string{"File is empty"})), nil
	}
	return OK(UploadResponse{File: storage.UploadedFile{ID: "1", Path: "u/" + in.FileName, Bucket: storage.UserAvatars}}), nil
}

func (f *fakeMedia) Download(context.Context, *ObjectRequest) (*Envelope[DownloadResponse], error) {
	return OK(DownloadResponse{Content: []byte{0, 1, 2}}), nil
}

func (f *fakeMedia) Delete(context.Context, *ObjectRequest) (*Envelope[Empty], error) {
	return Fail[Empty](common.NewTransportError("delete", errors.New("gone"))), nil
}

func (f *fakeMedia) DeleteMultiple(context.Context, *DeleteMultipleRequest) (*Envelope[Empty], error) {
	return OK(Empty{}), nil
}

func (f *fakeMedia) List(context.Context, *ListRequest) (*Envelope[ListResponse], error) {
	return OK(ListResponse{}), nil
}

func (f *fakeMedia) GetPublicURL(context.Context, *ObjectRequest) (*Envelope[URLResponse], error) {
	return OK(URLResponse{URL: "https://cdn/x"}), nil
}

func (f *fakeMedia) CreateSignedURL(context.Context, *SignedURLRequest) (*Envelope[URLResponse], error) {
	return OK(URLResponse{URL: "https://cdn/x?sig"}), nil
}

func (f *fakeMedia) CreateUploadURL(context.Context, *UploadURLRequest) (*Envelope[UploadURLResponse], error) {
	return OK(UploadURLResponse{Path: "p", URL: "https://cdn/p?sig"}), nil
}

func (f *fakeMedia) ListUploads(context.Context, *ListUploadsRequest) (*Envelope[ListUploadsResponse], error) {
	return OK(ListUploadsResponse{}), nil
}

func startServer(t *testing.T, srv MediaServer, opts ...grpc.ServerOption) *MediaClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(opts...)
	RegisterMediaServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewMediaClient(conn)
}

func TestMediaClient_RoundTrip(t *testing.T) {
	fake := &fakeMedia{}
	c := startServer(t, fake)
	ctx := context.Background()

	ping, err := c.Ping(ctx, &PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", ping.Status)

	env, err := c.Upload(ctx, &UploadRequest{Bucket: "user-avatars", FileName: "a.png", ContentType: "image/png", Size: 3, Content: []byte("abc")})
	require.NoError(t, err)
	data, err := env.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, "u/a.png", data.File.Path)
	assert.Equal(t, storage.UserAvatars, data.File.Bucket)
	assert.Equal(t, []byte("abc"), fake.lastUpload.Content)

	buckets, err := c.ListBuckets(ctx, &Empty{})
	require.NoError(t, err)
	require.True(t, buckets.Success)
	require.Len(t, buckets.Data.Buckets, 1)
	assert.Equal(t, int64(2*1024*1024), buckets.Data.Buckets[0].MaxFileSize)

	dl, err := c.Download(ctx, &ObjectRequest{Bucket: "user-avatars", Path: "x"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, dl.Data.Content)
}

func TestMediaClient_FailureEnvelope(t *testing.T) {
	c := startServer(t, &fakeMedia{})
	ctx := context.Background()

	env, err := c.Upload(ctx, &UploadRequest{Bucket: "user-avatars", FileName: "a.png"})
	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.Equal(t, common.CodeValidation, env.Code)
	assert.Equal(t, "File is empty", env.Error)

	_, err = env.Unwrap()
	assert.ErrorIs(t, err, common.ErrValidation)

	del, err := c.Delete(ctx, &ObjectRequest{Bucket: "user-avatars", Path: "x"})
	require.NoError(t, err)
	_, err = del.Unwrap()
	assert.ErrorIs(t, err, common.ErrTransport)
	assert.Equal(t, "delete: gone", err.Error())
}

func TestServiceDesc_InterceptorSeesFullMethod(t *testing.T) {
	var seen []string
	interceptor := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		seen = append(seen, info.FullMethod)
		return handler(ctx, req)
	}
	c := startServer(t, &fakeMedia{}, grpc.ChainUnaryInterceptor(interceptor))

	_, err := c.Ping(context.Background(), &PingRequest{})
	require.NoError(t, err)
	_, err = c.CreateUploadURL(context.Background(), &UploadURLRequest{Bucket: "user-avatars", FileName: "a"})
	require.NoError(t, err)

	assert.Equal(t, []string{MethodPing, MethodCreateUploadURL}, seen)
}

func TestEnvelope_Unwrap(t *testing.T) {
	var nilEnv *Envelope[URLResponse]
	_, err := nilEnv.Unwrap()
	assert.ErrorIs(t, err, common.ErrTransport)

	empty := &Envelope[Empty]{Success: true}
	got, err := empty.Unwrap()
	require.NoError(t, err)
	assert.NotNil(t, got)

	capEnv := Fail[Empty](common.NewCapacityError("Maximum 3 files allowed"))
	assert.Equal(t, common.CodeMaxFilesExceeded, capEnv.Code)
	_, err = capEnv.Unwrap()
	assert.ErrorIs(t, err, common.ErrCapacity)

	plain := Fail[Empty](errors.New("boom"))
	assert.Equal(t, common.CodeUploadError, plain.Code)
}

func TestStructCodec(t *testing.T) {
	c := structCodec{}
	assert.Equal(t, "protostruct", c.Name())

	b, err := c.Marshal(&SignedURLRequest{Bucket: "b", Path: "p", ExpiresIn: 60})
	require.NoError(t, err)

	var wire structpb.Value
	require.NoError(t, proto.Unmarshal(b, &wire))
	fields := wire.GetStructValue().GetFields()
	assert.Equal(t, "b", fields["bucket"].GetStringValue())
	assert.Equal(t, float64(60), fields["expiresIn"].GetNumberValue())

	var out SignedURLRequest
	require.NoError(t, c.Unmarshal(b, &out))
	assert.Equal(t, SignedURLRequest{Bucket: "b", Path: "p", ExpiresIn: 60}, out)
}

func TestStructCodec_BinaryContent(t *testing.T) {
	c := structCodec{}
	in := &UploadRequest{Bucket: "blog-images", FileName: "a.png", Size: 5, Content: []byte{0x89, 'P', 'N', 'G', 0}}

	b, err := c.Marshal(in)
	require.NoError(t, err)

	var out UploadRequest
	require.NoError(t, c.Unmarshal(b, &out))
	assert.Equal(t, *in, out)
}

func TestStructCodec_RejectsGarbage(t *testing.T) {
	var out SignedURLRequest
	assert.Error(t, structCodec{}.Unmarshal([]byte{0xff, 0xff, 0xff}, &out))
}
