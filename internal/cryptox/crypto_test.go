package cryptox

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest_StableAndHex(t *testing.T) {
	a := Digest([]byte("logo"))
	b := Digest([]byte("logo"))
	c := Digest([]byte("logo2"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, DigestSize*2)
}

func TestReadAllDigest_MatchesDigest(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 4096)

	data, sum, err := ReadAllDigest(bytes.NewReader(payload), 0)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, Digest(payload), sum)
}

func TestReadAllDigest_Limit(t *testing.T) {
	data, _, err := ReadAllDigest(bytes.NewReader([]byte("0123456789")), 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("0123"), data)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestReadAllDigest_ReadError(t *testing.T) {
	_, _, err := ReadAllDigest(failingReader{}, 0)
	require.EqualError(t, err, "disk gone")
}
