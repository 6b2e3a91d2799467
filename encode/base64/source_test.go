package base64

import (
	"bytes"
	"io"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSourcePassThrough(t *testing.T) {
	src := &countingSource{Reader: bytes.NewReader(nil)}
	assert.True(t, NewSource(src) == Source(src))
}

func TestNewSourceSkipDiscards(t *testing.T) {
	src := NewSource(strings.NewReader("abcdef"))
	n, err := src.Skip(2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	n, err = src.Skip(0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	rest, err := ioutil.ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, "cdef", string(rest))
	n, err = src.Skip(1)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, int64(0), n)
	// strings.Reader is no io.Closer
	assert.NoError(t, src.Close())
}

type skipReader struct {
	io.Reader
	skipped int64
}

func (s *skipReader) Skip(n int64) (int64, error) {
	s.skipped += n
	return n, nil
}

func TestNewSourceUsesSkipper(t *testing.T) {
	r := &skipReader{Reader: bytes.NewReader(nil)}
	src := NewSource(r)
	n, err := src.Skip(42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.Equal(t, int64(42), r.skipped)
}

func TestNewSourceCloses(t *testing.T) {
	src := &countingSource{Reader: bytes.NewReader(nil)}
	// hide the Source implementation behind a plain io.ReadCloser
	wrapped := NewSource(struct {
		io.Reader
		io.Closer
	}{src, src})
	require.NoError(t, wrapped.Close())
	assert.Equal(t, 1, src.closes)
}
