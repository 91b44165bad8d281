// Package storage implements the media upload pipeline: the bucket
// registry, file validation, storage path generation and the upload client
// that talks to the object store.
package storage

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/csomedia/internal/common"
)

// Bucket is a logical storage category. The set of buckets is closed; use
// the declared constants or ParseBucket at the transport boundary.
type Bucket uint8

const (
	OrganisationLogos Bucket = iota + 1
	ProjectMedia
	UserAvatars
	EventAttachments
	BlogImages
	ResourceDocuments
	FundingDocuments
)

const mb = 1024 * 1024

// BucketConfig is the static storage policy of a bucket.
type BucketConfig struct {
	Public           bool     `json:"public"`
	AllowedFileTypes []string `json:"allowedFileTypes"`
	MaxFileSize      int64    `json:"maxFileSize"`
	Description      string   `json:"description"`
}

var (
	imageTypes  = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}
	officeTypes = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
	}
)

func types(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

type bucketEntry struct {
	id     string
	config BucketConfig
}

var registry = map[Bucket]bucketEntry{
	OrganisationLogos: {"organisation-logos", BucketConfig{
		Public:           true,
		AllowedFileTypes: types(imageTypes, []string{"image/svg+xml"}),
		MaxFileSize:      5 * mb,
		Description:      "Organisation logos shown on profiles and listings",
	}},
	ProjectMedia: {"project-media", BucketConfig{
		Public:           true,
		AllowedFileTypes: types(imageTypes, []string{"video/mp4", "video/webm", "application/pdf"}),
		MaxFileSize:      50 * mb,
		Description:      "Images, videos and documents attached to projects",
	}},
	UserAvatars: {"user-avatars", BucketConfig{
		Public:           true,
		AllowedFileTypes: imageTypes,
		MaxFileSize:      2 * mb,
		Description:      "User profile pictures",
	}},
	EventAttachments: {"event-attachments", BucketConfig{
		Public:           false,
		AllowedFileTypes: types(officeTypes, []string{"image/jpeg", "image/png"}),
		MaxFileSize:      10 * mb,
		Description:      "Agendas, registration forms and other event documents",
	}},
	BlogImages: {"blog-images", BucketConfig{
		Public:           true,
		AllowedFileTypes: imageTypes,
		MaxFileSize:      5 * mb,
		Description:      "Images embedded in blog posts",
	}},
	ResourceDocuments: {"resource-documents", BucketConfig{
		Public:           true,
		AllowedFileTypes: types(officeTypes, []string{"application/zip"}),
		MaxFileSize:      25 * mb,
		Description:      "Publicly shared toolkits, reports and guides",
	}},
	FundingDocuments: {"funding-documents", BucketConfig{
		Public:           false,
		AllowedFileTypes: []string{officeTypes[0], officeTypes[1], officeTypes[2]},
		MaxFileSize:      10 * mb,
		Description:      "Funding applications and supporting documents",
	}},
}

// Config returns the bucket's policy. An undeclared Bucket value yields a
// zero config that rejects every file.
func (b Bucket) Config() BucketConfig {
	e := registry[b]
	cfg := e.config
	cfg.AllowedFileTypes = append([]string(nil), e.config.AllowedFileTypes...)
	return cfg
}

// ID is the physical bucket name in the object store.
func (b Bucket) ID() string {
	return registry[b].id
}

func (b Bucket) String() string {
	if id := b.ID(); id != "" {
		return id
	}
	return fmt.Sprintf("Bucket(%d)", uint8(b))
}

// Valid reports whether b is one of the declared buckets.
func (b Bucket) Valid() bool {
	_, ok := registry[b]
	return ok
}

// IsPublic reports whether objects in b are served without authentication.
func (b Bucket) IsPublic() bool {
	return registry[b].config.Public
}

// Allows reports whether mimeType is on b's allow-list.
func (b Bucket) Allows(mimeType string) bool {
	for _, t := range registry[b].config.AllowedFileTypes {
		if strings.EqualFold(t, mimeType) {
			return true
		}
	}
	return false
}

// Buckets returns every declared bucket in declaration order.
func Buckets() []Bucket {
	return []Bucket{
		OrganisationLogos, ProjectMedia, UserAvatars, EventAttachments,
		BlogImages, ResourceDocuments, FundingDocuments,
	}
}

// ParseBucket resolves a physical bucket name ("user-avatars"). Constant
// style names ("USER_AVATARS") are accepted too.
func ParseBucket(s string) (Bucket, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	for _, b := range Buckets() {
		if b.ID() == norm {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", common.ErrUnknownBucket, s)
}

func (b Bucket) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: %d", common.ErrUnknownBucket, uint8(b))
	}
	return []byte(b.ID()), nil
}

func (b *Bucket) UnmarshalText(text []byte) error {
	parsed, err := ParseBucket(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
