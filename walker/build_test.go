package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolagi/dvcdata/fingerprint"
	"github.com/nicolagi/dvcdata/objects"
	"github.com/nicolagi/dvcdata/state"
)

func TestBuildSingleFileStateless(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greeting.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o644))

	obj, size, err := Build(context.Background(), path, nil, nil, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 6, size)
	f, ok := obj.(objects.HashFile)
	require.True(t, ok)
	assert.Equal(t, objects.FileOID("b1946ac92492d2347c6235b4d2611184"), f.Oid)
}

func TestBuildTreeStateless(t *testing.T) {
	defer leaktest.Check(t)()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bar"), []byte("bar"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "baz"), []byte("baz"), 0o644))

	obj, _, err := Build(context.Background(), dir, nil, nil, 4)
	require.NoError(t, err)
	tree, ok := obj.(objects.Tree)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"bar", "sub/baz"}, tree.Paths())
}

// TestBuildCachedModeMatchesStatelessMode exercises the contract that
// consulting the fingerprint cache must never change the resulting object
// identity, only whether files get re-hashed.
func TestBuildCachedModeMatchesStatelessMode(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bar"), []byte("bar"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "baz"), []byte("baz"), 0o644))

	statelessObj, statelessSize, err := Build(context.Background(), dir, nil, nil, 2)
	require.NoError(t, err)

	st, err := state.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer func() { _ = st.Close() }()

	cachedObj, cachedSize, err := Build(context.Background(), dir, st, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, statelessObj.OID(), cachedObj.OID())
	assert.Equal(t, statelessSize, cachedSize)

	// Second pass should hit the cache entirely and still agree.
	secondPassObj, _, err := Build(context.Background(), dir, st, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, cachedObj.OID(), secondPassObj.OID())
}

// TestBuildTrustsStaleCacheEntryWithoutRehashing pins the cache-soundness
// contract: a cache entry whose fingerprint still matches the file on disk
// is trusted as-is, even if its recorded digest is wrong (e.g. poisoned or
// left over from some other content that happened to share a fingerprint).
// Build must return the cached digest unmodified, never re-hash to correct
// it — that's the point of keying on the fingerprint at all.
func TestBuildTrustsStaleCacheEntryWithoutRehashing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greeting.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o644))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	fp, err := fingerprint.OfFile(fi)
	require.NoError(t, err)

	st, err := state.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer func() { _ = st.Close() }()
	require.NoError(t, st.Set(path, state.Value{
		Checksum: fp,
		Size:     6,
		HashInfo: state.HashInfo{MD5: "deadbeef"},
	}))

	obj, size, err := Build(context.Background(), path, st, nil, 1)
	require.NoError(t, err)
	f, ok := obj.(objects.HashFile)
	require.True(t, ok)
	assert.Equal(t, objects.FileOID("deadbeef"), f.Oid)
	assert.EqualValues(t, 6, size)
}

func TestBuildRejectsIgnoredRoot(t *testing.T) {
	dir := t.TempDir()
	_, _, err := Build(context.Background(), dir, nil, alwaysIgnore{}, 1)
	assert.ErrorIs(t, err, ErrPath)
}

type alwaysIgnore struct{}

func (alwaysIgnore) MatchedPathOrAnyParents(string, bool) bool { return true }
