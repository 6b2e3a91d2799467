package util

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDirs(t *testing.T) {
	tmpdir, err := ioutil.TempDir("", "util_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpdir)
	a := filepath.Join(tmpdir, "a", "b")
	c := filepath.Join(tmpdir, "c")
	require.NoError(t, CreateDirs(a, "", c))
	for _, dir := range []string{a, c} {
		fi, err := os.Stat(dir)
		if assert.NoError(t, err) {
			assert.True(t, fi.IsDir())
		}
	}
}

func TestIsTerminal(t *testing.T) {
	fp, err := ioutil.TempFile("", "util_test")
	require.NoError(t, err)
	defer os.Remove(fp.Name())
	defer fp.Close()
	assert.False(t, IsTerminal(fp))
}
