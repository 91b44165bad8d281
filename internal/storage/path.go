package storage

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SanitizeFileName replaces every character outside [a-zA-Z0-9.-] with '_'.
// Applying it twice yields the same string.
func SanitizeFileName(name string) string {
	return unsafeFileNameChars.ReplaceAllString(name, "_")
}

// pathSegment sanitises an identifier used as a folder name. Dot-only
// results ("." or "..") would be collapsed by path resolution, so every dot
// of such a segment becomes '_'.
func pathSegment(id string) string {
	s := SanitizeFileName(id)
	if s != "" && strings.Trim(s, ".") == "" {
		return strings.Repeat("_", len(s))
	}
	return s
}

// joinSegments joins the non-empty segments with '/'.
func joinSegments(segs ...string) string {
	out := segs[:0]
	for _, s := range segs {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}

// folder returns the directory an object of bucket is stored under. A
// missing identifier drops its segment.
func folder(bucket Bucket, orgID, userID string) string {
	org, user := pathSegment(orgID), pathSegment(userID)
	switch bucket {
	case UserAvatars:
		return user
	case BlogImages:
		return joinSegments("blog", user)
	case ProjectMedia:
		return joinSegments("projects", org)
	case OrganisationLogos:
		return joinSegments("organisations", org)
	case EventAttachments:
		return joinSegments("events", org)
	case ResourceDocuments:
		return joinSegments("resources", org)
	case FundingDocuments:
		return joinSegments("funding", org)
	default:
		return ""
	}
}

// GenerateFilePath builds the storage key {folder}/{unixMillis}-{name} for a
// new object. The result depends only on its arguments; uniqueness relies
// on the millisecond timestamp and is not checked against the store.
func GenerateFilePath(bucket Bucket, fileName, orgID, userID string, at time.Time) string {
	name := strconv.FormatInt(at.UnixMilli(), 10) + "-" + SanitizeFileName(fileName)
	if dir := folder(bucket, orgID, userID); dir != "" {
		return dir + "/" + name
	}
	return name
}
