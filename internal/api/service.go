package api

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "csomedia.MediaService"

// Full method names, as seen by interceptors.
const (
	MethodPing            = "/" + ServiceName + "/Ping"
	MethodListBuckets     = "/" + ServiceName + "/ListBuckets"
	MethodUpload          = "/" + ServiceName + "/Upload"
	MethodDownload        = "/" + ServiceName + "/Download"
	MethodDelete          = "/" + ServiceName + "/Delete"
	MethodDeleteMultiple  = "/" + ServiceName + "/DeleteMultiple"
	MethodList            = "/" + ServiceName + "/List"
	MethodGetPublicURL    = "/" + ServiceName + "/GetPublicURL"
	MethodCreateSignedURL = "/" + ServiceName + "/CreateSignedURL"
	MethodCreateUploadURL = "/" + ServiceName + "/CreateUploadURL"
	MethodListUploads     = "/" + ServiceName + "/ListUploads"
)

// MediaServer is implemented by the media service.
type MediaServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	ListBuckets(context.Context, *Empty) (*Envelope[ListBucketsResponse], error)
	Upload(context.Context, *UploadRequest) (*Envelope[UploadResponse], error)
	Download(context.Context, *ObjectRequest) (*Envelope[DownloadResponse], error)
	Delete(context.Context, *ObjectRequest) (*Envelope[Empty], error)
	DeleteMultiple(context.Context, *DeleteMultipleRequest) (*Envelope[Empty], error)
	List(context.Context, *ListRequest) (*Envelope[ListResponse], error)
	GetPublicURL(context.Context, *ObjectRequest) (*Envelope[URLResponse], error)
	CreateSignedURL(context.Context, *SignedURLRequest) (*Envelope[URLResponse], error)
	CreateUploadURL(context.Context, *UploadURLRequest) (*Envelope[UploadURLResponse], error)
	ListUploads(context.Context, *ListUploadsRequest) (*Envelope[ListUploadsResponse], error)
}

// unary adapts a typed MediaServer method to a grpc.MethodHandler.
func unary[Req, Resp any](fullMethod string, call func(MediaServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MediaServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MediaServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func method(name string, h grpc.MethodHandler) grpc.MethodDesc {
	return grpc.MethodDesc{MethodName: name, Handler: h}
}

// ServiceDesc describes MediaService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MediaServer)(nil),
	Methods: []grpc.MethodDesc{
		method("Ping", unary(MethodPing, MediaServer.Ping)),
		method("ListBuckets", unary(MethodListBuckets, MediaServer.ListBuckets)),
		method("Upload", unary(MethodUpload, MediaServer.Upload)),
		method("Download", unary(MethodDownload, MediaServer.Download)),
		method("Delete", unary(MethodDelete, MediaServer.Delete)),
		method("DeleteMultiple", unary(MethodDeleteMultiple, MediaServer.DeleteMultiple)),
		method("List", unary(MethodList, MediaServer.List)),
		method("GetPublicURL", unary(MethodGetPublicURL, MediaServer.GetPublicURL)),
		method("CreateSignedURL", unary(MethodCreateSignedURL, MediaServer.CreateSignedURL)),
		method("CreateUploadURL", unary(MethodCreateUploadURL, MediaServer.CreateUploadURL)),
		method("ListUploads", unary(MethodListUploads, MediaServer.ListUploads)),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "csomedia/media.json",
}

// RegisterMediaServer registers srv on s.
func RegisterMediaServer(s grpc.ServiceRegistrar, srv MediaServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// MediaClient calls MediaService over cc with the protostruct codec.
type MediaClient struct {
	cc grpc.ClientConnInterface
}

func NewMediaClient(cc grpc.ClientConnInterface) *MediaClient {
	return &MediaClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, fullMethod string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append(CallOptions(), opts...)
	if err := cc.Invoke(ctx, fullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MediaClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingRequest, PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *MediaClient) ListBuckets(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Envelope[ListBucketsResponse], error) {
	return invoke[Empty, Envelope[ListBucketsResponse]](ctx, c.cc, MethodListBuckets, in, opts)
}

func (c *MediaClient) Upload(ctx context.Context, in *UploadRequest, opts ...grpc.CallOption) (*Envelope[UploadResponse], error) {
	return invoke[UploadRequest, Envelope[UploadResponse]](ctx, c.cc, MethodUpload, in, opts)
}

func (c *MediaClient) Download(ctx context.Context, in *ObjectRequest, opts ...grpc.CallOption) (*Envelope[DownloadResponse], error) {
	return invoke[ObjectRequest, Envelope[DownloadResponse]](ctx, c.cc, MethodDownload, in, opts)
}

func (c *MediaClient) Delete(ctx context.Context, in *ObjectRequest, opts ...grpc.CallOption) (*Envelope[Empty], error) {
	return invoke[ObjectRequest, Envelope[Empty]](ctx, c.cc, MethodDelete, in, opts)
}

func (c *MediaClient) DeleteMultiple(ctx context.Context, in *DeleteMultipleRequest, opts ...grpc.CallOption) (*Envelope[Empty], error) {
	return invoke[DeleteMultipleRequest, Envelope[Empty]](ctx, c.cc, MethodDeleteMultiple, in, opts)
}

func (c *MediaClient) List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*Envelope[ListResponse], error) {
	return invoke[ListRequest, Envelope[ListResponse]](ctx, c.cc, MethodList, in, opts)
}

func (c *MediaClient) GetPublicURL(ctx context.Context, in *ObjectRequest, opts ...grpc.CallOption) (*Envelope[URLResponse], error) {
	return invoke[ObjectRequest, Envelope[URLResponse]](ctx, c.cc, MethodGetPublicURL, in, opts)
}

func (c *MediaClient) CreateSignedURL(ctx context.Context, in *SignedURLRequest, opts ...grpc.CallOption) (*Envelope[URLResponse], error) {
	return invoke[SignedURLRequest, Envelope[URLResponse]](ctx, c.cc, MethodCreateSignedURL, in, opts)
}

func (c *MediaClient) CreateUploadURL(ctx context.Context, in *UploadURLRequest, opts ...grpc.CallOption) (*Envelope[UploadURLResponse], error) {
	return invoke[UploadURLRequest, Envelope[UploadURLResponse]](ctx, c.cc, MethodCreateUploadURL, in, opts)
}

func (c *MediaClient) ListUploads(ctx context.Context, in *ListUploadsRequest, opts ...grpc.CallOption) (*Envelope[ListUploadsResponse], error) {
	return invoke[ListUploadsRequest, Envelope[ListUploadsResponse]](ctx, c.cc, MethodListUploads, in, opts)
}
