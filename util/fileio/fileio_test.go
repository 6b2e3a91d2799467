package fileio

import (
	"bytes"
	stdbase64 "encoding/base64"
	"errors"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var content = []byte("Man is distinguished, not only by his reason, but by this singular passion")

func testDir(t *testing.T) (string, func()) {
	tmpdir, err := ioutil.TempDir("", "fileio_test")
	require.NoError(t, err)
	return tmpdir, func() { os.RemoveAll(tmpdir) }
}

func TestCopy(t *testing.T) {
	tmpdir, cleanup := testDir(t)
	defer cleanup()
	src := filepath.Join(tmpdir, "src")
	dest := filepath.Join(tmpdir, "dest")
	require.NoError(t, ioutil.WriteFile(src, content, 0640))
	require.NoError(t, Copy(src, dest))
	data, err := ioutil.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, data)
	srcInfo, err := os.Stat(src)
	require.NoError(t, err)
	destInfo, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, srcInfo.Mode()&os.ModePerm, destInfo.Mode()&os.ModePerm)
	// destination exists now
	assert.Equal(t, ErrFileExists, Copy(src, dest))
}

func TestCopyMissingSource(t *testing.T) {
	tmpdir, cleanup := testDir(t)
	defer cleanup()
	assert.Error(t, Copy(filepath.Join(tmpdir, "missing"), filepath.Join(tmpdir, "dest")))
}

func TestReadFile(t *testing.T) {
	tmpdir, cleanup := testDir(t)
	defer cleanup()
	filename := filepath.Join(tmpdir, "file")
	require.NoError(t, ioutil.WriteFile(filename, content, 0600))

	data, err := ReadFile(filename, false)
	require.NoError(t, err)
	assert.Equal(t, content, data)

	data, err = ReadFile(filename, true)
	require.NoError(t, err)
	assert.Equal(t, stdbase64.StdEncoding.EncodeToString(content), string(data))

	_, err = ReadFile(filepath.Join(tmpdir, "missing"), true)
	assert.Error(t, err)
}

func TestReadFileEmpty(t *testing.T) {
	tmpdir, cleanup := testDir(t)
	defer cleanup()
	filename := filepath.Join(tmpdir, "empty")
	require.NoError(t, ioutil.WriteFile(filename, nil, 0600))
	data, err := ReadFile(filename, true)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestWriteToFile(t *testing.T) {
	tmpdir, cleanup := testDir(t)
	defer cleanup()
	dest := filepath.Join(tmpdir, "dest")
	require.NoError(t, WriteToFile(bytes.NewReader(content), dest))
	data, err := ioutil.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, ErrFileExists, WriteToFile(bytes.NewReader(content), dest))
}

func TestEncodeFile(t *testing.T) {
	tmpdir, cleanup := testDir(t)
	defer cleanup()
	src := filepath.Join(tmpdir, "src")
	dest := filepath.Join(tmpdir, "src.b64")
	require.NoError(t, ioutil.WriteFile(src, content, 0600))
	n, err := EncodeFile(src, dest)
	require.NoError(t, err)
	expected := stdbase64.StdEncoding.EncodeToString(content)
	assert.Equal(t, int64(len(expected)), n)
	data, err := ioutil.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, expected, string(data))
	_, err = EncodeFile(src, dest)
	assert.Equal(t, ErrFileExists, err)
}

func TestEncodeFileFailureRemovesDest(t *testing.T) {
	tmpdir, cleanup := testDir(t)
	defer cleanup()
	// a directory can be opened but not read
	srcDir := filepath.Join(tmpdir, "dir")
	require.NoError(t, os.Mkdir(srcDir, 0700))
	dest := filepath.Join(tmpdir, "out.b64")
	_, err := EncodeFile(srcDir, dest)
	require.Error(t, err)
	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err), "partial destination left behind")

	// encoding a readable file to the same destination works afterwards
	src := filepath.Join(tmpdir, "src")
	require.NoError(t, ioutil.WriteFile(src, content, 0600))
	_, err = EncodeFile(src, dest)
	require.NoError(t, err)
	data, err := ioutil.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, stdbase64.StdEncoding.EncodeToString(content), string(data))
}

func TestWriteToFileFailureRemovesDest(t *testing.T) {
	tmpdir, cleanup := testDir(t)
	defer cleanup()
	dest := filepath.Join(tmpdir, "dest")
	errRead := errors.New("read failed")
	r := io.MultiReader(bytes.NewReader(content), iotest.ErrReader(errRead))
	err := WriteToFile(r, dest)
	assert.True(t, err == errRead)
	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err), "partial destination left behind")

	require.NoError(t, WriteToFile(bytes.NewReader(content), dest))
	data, err := ioutil.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, data)
}
