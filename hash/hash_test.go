package hash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytes(t *testing.T) {
	digest, err := Bytes(strings.NewReader("hello\n"))
	require.NoError(t, err)
	assert.Equal(t, "b1946ac92492d2347c6235b4d2611184", digest)
}

func TestBytesEmpty(t *testing.T) {
	digest, err := Bytes(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", digest)
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greeting.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o644))

	digest, size, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, "b1946ac92492d2347c6235b4d2611184", digest)
	assert.EqualValues(t, 6, size)
}

func TestFileMissing(t *testing.T) {
	_, _, err := File(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
