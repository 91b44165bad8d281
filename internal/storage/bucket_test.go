package storage

import (
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/csomedia/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuckets_AllDeclaredHaveConfig(t *testing.T) {
	seen := map[string]bool{}
	for _, b := range Buckets() {
		require.True(t, b.Valid(), b)
		cfg := b.Config()
		assert.NotEmpty(t, b.ID())
		assert.NotEmpty(t, cfg.AllowedFileTypes, b)
		assert.Positive(t, cfg.MaxFileSize, b)
		assert.NotEmpty(t, cfg.Description, b)
		assert.False(t, seen[b.ID()], "duplicate id %s", b.ID())
		seen[b.ID()] = true
	}
	assert.Len(t, seen, 7)
}

func TestBucket_Policies(t *testing.T) {
	tests := []struct {
		bucket  Bucket
		public  bool
		maxSize int64
		allows  string
		denies  string
	}{
		{UserAvatars, true, 2 * mb, "image/png", "application/pdf"},
		{OrganisationLogos, true, 5 * mb, "image/svg+xml", "video/mp4"},
		{ProjectMedia, true, 50 * mb, "video/mp4", "application/zip"},
		{EventAttachments, false, 10 * mb, "application/pdf", "image/gif"},
		{BlogImages, true, 5 * mb, "image/webp", "image/svg+xml"},
		{ResourceDocuments, true, 25 * mb, "application/zip", "image/png"},
		{FundingDocuments, false, 10 * mb, "application/msword", "application/zip"},
	}

	for _, tt := range tests {
		t.Run(tt.bucket.String(), func(t *testing.T) {
			cfg := tt.bucket.Config()
			assert.Equal(t, tt.public, cfg.Public)
			assert.Equal(t, tt.public, tt.bucket.IsPublic())
			assert.Equal(t, tt.maxSize, cfg.MaxFileSize)
			assert.True(t, tt.bucket.Allows(tt.allows))
			assert.False(t, tt.bucket.Allows(tt.denies))
		})
	}
}

func TestBucket_ConfigIsACopy(t *testing.T) {
	cfg := UserAvatars.Config()
	cfg.AllowedFileTypes[0] = "text/plain"

	assert.False(t, UserAvatars.Allows("text/plain"))
	assert.Equal(t, "image/jpeg", UserAvatars.Config().AllowedFileTypes[0])
}

func TestParseBucket(t *testing.T) {
	tests := []struct {
		in      string
		want    Bucket
		wantErr bool
	}{
		{"user-avatars", UserAvatars, false},
		{"USER_AVATARS", UserAvatars, false},
		{" event-attachments ", EventAttachments, false},
		{"funding-documents", FundingDocuments, false},
		{"nope", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBucket(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrUnknownBucket)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBucket_StringUnknown(t *testing.T) {
	assert.Equal(t, "Bucket(99)", Bucket(99).String())
	assert.False(t, Bucket(0).Valid())
	assert.Empty(t, Bucket(99).Config().AllowedFileTypes)
}

func TestBucket_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		B Bucket `json:"b"`
	}{ProjectMedia})
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":"project-media"}`, string(b))

	var out struct {
		B Bucket `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"b":"blog-images"}`), &out))
	assert.Equal(t, BlogImages, out.B)

	assert.Error(t, json.Unmarshal([]byte(`{"b":"unknown"}`), &out))

	_, err = json.Marshal(struct{ B Bucket }{Bucket(42)})
	assert.Error(t, err)
}
