package api

import "github.com/dmitrijs2005/csomedia/internal/common"

// Envelope is the uniform response shape: Data on success, Error and Code
// otherwise.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// OK wraps data in a successful envelope.
func OK[T any](data T) *Envelope[T] {
	return &Envelope[T]{Success: true, Data: &data}
}

// Fail wraps err in a failed envelope.
func Fail[T any](err error) *Envelope[T] {
	return &Envelope[T]{Error: err.Error(), Code: common.CodeOf(err)}
}

// Unwrap returns the payload of a successful envelope or the failure as a
// *common.UploadError.
func (e *Envelope[T]) Unwrap() (*T, error) {
	if e == nil {
		return nil, common.FromCode(common.CodeUploadError, "empty response")
	}
	if !e.Success {
		return nil, common.FromCode(e.Code, e.Error)
	}
	if e.Data == nil {
		var zero T
		return &zero, nil
	}
	return e.Data, nil
}
