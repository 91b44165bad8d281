// Package cryptox computes content digests for uploaded objects.
package cryptox

import (
	"encoding/hex"
	"hash"
	"io"

	"golang.org/x/crypto/blake2b"
)

// DigestSize is the length in bytes of a content digest.
const DigestSize = blake2b.Size256

// NewDigest returns an unkeyed BLAKE2b-256 hash.
func NewDigest() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		// only possible with an oversized key
		panic(err)
	}
	return h
}

// Digest returns the hex encoded BLAKE2b-256 digest of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ReadAllDigest reads r to EOF, returning the content and its digest.
// At most limit bytes are read when limit > 0; callers detect truncation
// by comparing the returned length against limit.
func ReadAllDigest(r io.Reader, limit int64) ([]byte, string, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit)
	}

	h := NewDigest()
	data, err := io.ReadAll(io.TeeReader(r, h))
	if err != nil {
		return nil, "", err
	}

	return data, hex.EncodeToString(h.Sum(nil)), nil
}
