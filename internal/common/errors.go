package common

import (
	"errors"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	ErrUnknownBucket = errors.New("unknown bucket")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Upload failure categories. Every *UploadError matches exactly one of
	// these through errors.Is.
	ErrValidation = errors.New("validation failed")
	ErrCapacity   = errors.New("capacity exceeded")
	ErrTransport  = errors.New("storage request failed")
)

// ErrorKind classifies an UploadError.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindCapacity
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindCapacity:
		return "capacity"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindCapacity:
		return ErrCapacity
	case KindTransport:
		return ErrTransport
	default:
		return nil
	}
}

// UploadError is the structured failure returned by the upload pipeline.
// Details holds the individual validation messages when Kind is
// KindValidation; Err holds the underlying storage error for KindTransport.
type UploadError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details []string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UploadError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *UploadError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NewValidationError joins the given messages the way they are shown to users.
func NewValidationError(details []string) *UploadError {
	return &UploadError{
		Kind:    KindValidation,
		Code:    CodeValidation,
		Message: strings.Join(details, ", "),
		Details: details,
	}
}

// NewCapacityError reports a rejected batch.
func NewCapacityError(msg string) *UploadError {
	return &UploadError{Kind: KindCapacity, Code: CodeMaxFilesExceeded, Message: msg}
}

// NewTransportError wraps a storage API failure.
func NewTransportError(op string, err error) *UploadError {
	return &UploadError{Kind: KindTransport, Code: CodeUploadError, Message: op, Err: err}
}

// CodeOf returns the error code for err, or CodeUploadError for errors that
// did not originate in the upload pipeline.
func CodeOf(err error) string {
	var ue *UploadError
	if errors.As(err, &ue) && ue.Code != "" {
		return ue.Code
	}
	return CodeUploadError
}

// FromCode rebuilds an UploadError received over the wire.
func FromCode(code, msg string) *UploadError {
	kind := KindTransport
	switch code {
	case CodeValidation:
		kind = KindValidation
	case CodeMaxFilesExceeded:
		kind = KindCapacity
	default:
		code = CodeUploadError
	}
	return &UploadError{Kind: kind, Code: code, Message: msg}
}
