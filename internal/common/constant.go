// Package common contains shared constants and error types used across the
// media server, the RPC layer and the upload CLI.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Error codes carried by UploadError and the RPC response envelope.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeMaxFilesExceeded = "MAX_FILES_EXCEEDED"
	CodeUploadError      = "UPLOAD_ERROR"
)
