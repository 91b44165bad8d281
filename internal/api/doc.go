// Package api defines the media service RPC contract shared by the server
// and the CLI: request and response messages, the response envelope, the
// codec they travel in and the gRPC service descriptor.
//
// Messages are plain Go structs. On the wire each one is a protobuf-encoded
// google.protobuf.Value whose fields follow the structs' json tags. The codec
// is registered with gRPC under the "protostruct" content subtype when the
// package is imported; clients select it per call through CallOptions.
//
// Every method answers with an Envelope. Upload pipeline failures
// (validation, capacity, storage) are reported inside the envelope with a
// machine readable code; gRPC status errors are reserved for transport and
// authentication problems.
package api
