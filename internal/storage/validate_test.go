package storage

import (
	"testing"

	"github.com/dmitrijs2005/csomedia/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name     string
		file     File
		bucket   Bucket
		valid    bool
		contains []string
	}{
		{
			name:   "valid png avatar",
			file:   File{Name: "me.png", Size: 1 * mb, ContentType: "image/png"},
			bucket: UserAvatars,
			valid:  true,
		},
		{
			name:   "exactly at ceiling",
			file:   File{Name: "me.png", Size: 2 * mb, ContentType: "image/png"},
			bucket: UserAvatars,
			valid:  true,
		},
		{
			name:     "one byte over ceiling",
			file:     File{Name: "me.png", Size: 2*mb + 1, ContentType: "image/png"},
			bucket:   UserAvatars,
			contains: []string{"File size exceeds maximum of 2MB (2097152 bytes)"},
		},
		{
			name:     "6MB jpeg avatar",
			file:     File{Name: "big.jpg", Size: 6 * mb, ContentType: "image/jpeg"},
			bucket:   UserAvatars,
			contains: []string{"2MB"},
		},
		{
			name:   "disallowed type names allowed types",
			file:   File{Name: "cv.pdf", Size: 100, ContentType: "application/pdf"},
			bucket: UserAvatars,
			contains: []string{
				"File type application/pdf is not allowed",
				"image/jpeg, image/png, image/webp, image/gif",
			},
		},
		{
			name:     "empty file",
			file:     File{Name: "empty.pdf", Size: 0, ContentType: "application/pdf"},
			bucket:   EventAttachments,
			contains: []string{"File is empty"},
		},
		{
			name:     "missing content type",
			file:     File{Name: "x", Size: 10},
			bucket:   BlogImages,
			contains: []string{"File type (unknown) is not allowed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateFile(tt.file, tt.bucket)
			assert.Equal(t, tt.valid, res.IsValid)
			if tt.valid {
				assert.Empty(t, res.Errors)
				assert.NoError(t, res.Err())
				return
			}
			joined := res.Err().Error()
			for _, s := range tt.contains {
				assert.Contains(t, joined, s)
			}
		})
	}
}

func TestValidateFile_ErrorsAccumulate(t *testing.T) {
	res := ValidateFile(File{Name: "x.exe", Size: 0, ContentType: "application/x-msdownload"}, UserAvatars)
	require.False(t, res.IsValid)
	assert.Len(t, res.Errors, 2)

	res = ValidateFile(File{Name: "x.exe", Size: 3 * mb, ContentType: "application/x-msdownload"}, UserAvatars)
	require.False(t, res.IsValid)
	assert.Len(t, res.Errors, 2)
}

func TestValidateFile_ZeroBytesAlwaysInvalid(t *testing.T) {
	for _, b := range Buckets() {
		ct := b.Config().AllowedFileTypes[0]
		res := ValidateFile(File{Name: "f", Size: 0, ContentType: ct}, b)
		assert.False(t, res.IsValid, b)
		assert.Equal(t, []string{"File is empty"}, res.Errors, b)
	}
}

func TestValidationResult_Err(t *testing.T) {
	res := ValidationResult{Errors: []string{"a", "b"}}
	err := res.Err()

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "a, b", err.Error())
	assert.Equal(t, common.CodeValidation, common.CodeOf(err))

	var ue *common.UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, []string{"a", "b"}, ue.Details)
}

func TestFormatMB(t *testing.T) {
	assert.Equal(t, "5MB", formatMB(5*mb))
	assert.Equal(t, "1.5MB", formatMB(mb+mb/2))
}
