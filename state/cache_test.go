package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolagi/dvcdata/objects"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestCacheGetMissingKey(t *testing.T) {
	c := openTestCache(t)
	_, ok, err := c.Get("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheSetThenGet(t *testing.T) {
	c := openTestCache(t)
	v := Value{Checksum: "123", Size: 10, HashInfo: HashInfo{MD5: "deadbeef"}}
	require.NoError(t, c.Set("a/b", v))

	got, ok, err := c.Get("a/b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, v, got)
	assert.Equal(t, objects.FileOID("deadbeef"), got.OID())
}

func TestCacheSetOverwrites(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.Set("k", Value{Checksum: "1", Size: 1, HashInfo: HashInfo{MD5: "a"}}))
	require.NoError(t, c.Set("k", Value{Checksum: "2", Size: 2, HashInfo: HashInfo{MD5: "b"}}))

	got, ok, err := c.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, "2", got.Checksum)
}

func TestCacheIsEmpty(t *testing.T) {
	c := openTestCache(t)
	empty, err := c.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, c.Set("x", Value{HashInfo: HashInfo{MD5: "a"}}))
	empty, err = c.IsEmpty()
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestCacheGetManyAndSetMany(t *testing.T) {
	c := openTestCache(t)
	kv := map[string]Value{
		"one": {HashInfo: HashInfo{MD5: "1"}, Size: 1},
		"two": {HashInfo: HashInfo{MD5: "2"}, Size: 2},
	}
	require.NoError(t, c.SetMany(kv))

	got, err := c.GetMany([]string{"one", "two", "three"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, kv["one"], got["one"])
	assert.Equal(t, kv["two"], got["two"])
}

func TestCacheGetManyEmptyInput(t *testing.T) {
	c := openTestCache(t)
	got, err := c.GetMany(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
