package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadError_IsMatchesOnlyItsKind(t *testing.T) {
	tests := []struct {
		name string
		err  *UploadError
		want error
	}{
		{"validation", NewValidationError([]string{"a"}), ErrValidation},
		{"capacity", NewCapacityError("too many"), ErrCapacity},
		{"transport", NewTransportError("put object", errors.New("boom")), ErrTransport},
	}

	all := []error{ErrValidation, ErrCapacity, ErrTransport}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			for _, s := range all {
				assert.Equal(t, s == tt.want, errors.Is(wrapped, s), "sentinel %v", s)
			}
		})
	}
}

func TestUploadError_Messages(t *testing.T) {
	v := NewValidationError([]string{"File is empty", "File type \"x\" is not allowed"})
	assert.Equal(t, "File is empty, File type \"x\" is not allowed", v.Error())
	assert.Equal(t, CodeValidation, v.Code)
	assert.Len(t, v.Details, 2)

	cause := errors.New("connection reset")
	tr := NewTransportError("put object", cause)
	assert.Equal(t, "put object: connection reset", tr.Error())
	assert.ErrorIs(t, tr, cause)

	bare := &UploadError{Kind: KindTransport, Err: cause}
	assert.Equal(t, "connection reset", bare.Error())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeMaxFilesExceeded, CodeOf(NewCapacityError("x")))
	assert.Equal(t, CodeValidation, CodeOf(fmt.Errorf("w: %w", NewValidationError(nil))))
	assert.Equal(t, CodeUploadError, CodeOf(errors.New("plain")))
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "capacity", KindCapacity.String())
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "unknown", ErrorKind(0).String())
}

func TestFromCode(t *testing.T) {
	tests := []struct {
		code     string
		sentinel error
		wantCode string
	}{
		{CodeValidation, ErrValidation, CodeValidation},
		{CodeMaxFilesExceeded, ErrCapacity, CodeMaxFilesExceeded},
		{CodeUploadError, ErrTransport, CodeUploadError},
		{"SOMETHING_ELSE", ErrTransport, CodeUploadError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := FromCode(tt.code, "msg")
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.wantCode, err.Code)
			assert.Equal(t, "msg", err.Error())
		})
	}
}
