package storage

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/csomedia/internal/common"
)

// ValidationResult is the outcome of ValidateFile. Errors lists every failed
// check; it is empty when IsValid is true.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors,omitempty"`
}

// Err returns nil for a valid result and a validation *common.UploadError
// carrying the individual messages otherwise.
func (r ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	return common.NewValidationError(r.Errors)
}

// ValidateFile checks file against bucket's policy. All checks run, so a
// file that is both the wrong type and too large reports both problems.
func ValidateFile(file File, bucket Bucket) ValidationResult {
	cfg := registry[bucket].config
	var errs []string

	if !bucket.Allows(file.ContentType) {
		errs = append(errs, fmt.Sprintf("File type %s is not allowed. Allowed types: %s",
			displayType(file.ContentType), strings.Join(cfg.AllowedFileTypes, ", ")))
	}

	if file.Size > cfg.MaxFileSize {
		errs = append(errs, fmt.Sprintf("File size exceeds maximum of %s (%d bytes)",
			formatMB(cfg.MaxFileSize), cfg.MaxFileSize))
	}

	if file.Size <= 0 {
		errs = append(errs, "File is empty")
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func displayType(t string) string {
	if t == "" {
		return "(unknown)"
	}
	return t
}

func formatMB(n int64) string {
	if n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	return fmt.Sprintf("%.1fMB", float64(n)/mb)
}
