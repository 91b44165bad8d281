// Package client talks to the csomedia media service over gRPC.
//
// GRPCClient owns the connection, attaches the access token to every call
// through a unary interceptor and turns both transport failures and failed
// response envelopes into errors:
//
//   - failed envelopes become *common.UploadError with the server's code,
//     so errors.Is(err, common.ErrValidation) works across the wire;
//   - Unauthenticated / PermissionDenied map to ErrUnauthorized;
//   - Unavailable maps to ErrUnavailable;
//   - Unimplemented maps to ErrNotSupported;
//   - DeadlineExceeded / Canceled map to the matching context errors.
//
// GRPCClient.Upload satisfies uploader.Uploader, so an upload session can
// drive remote uploads exactly like local ones. Files are validated against
// the bucket before any bytes are sent.
package client
