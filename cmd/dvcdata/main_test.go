package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolagi/dvcdata/config"
	"github.com/nicolagi/dvcdata/objects"
	"github.com/nicolagi/dvcdata/odb"
)

func TestPointerForOmitsNFilesForSingleFile(t *testing.T) {
	obj := objects.NewHashFile("b1946ac92492d2347c6235b4d2611184")
	p := pointerFor(obj.OID(), "greeting.txt", obj, 6)
	assert.Nil(t, p.Out.NFiles)
	require.NotNil(t, p.Out.Size)
	assert.EqualValues(t, 6, *p.Out.Size)
}

func TestPointerForIncludesNFilesForTree(t *testing.T) {
	tree, err := objects.NewTree([]objects.TreeEntry{
		{Relpath: "a", Oid: objects.FileOID("1111111111111111111111111111111d")},
		{Relpath: "b", Oid: objects.FileOID("2222222222222222222222222222222e")},
	})
	require.NoError(t, err)
	p := pointerFor(tree.OID(), "data", tree, 2)
	require.NotNil(t, p.Out.NFiles)
	assert.EqualValues(t, 2, *p.Out.NFiles)
}

func TestSnapshotCheckoutRoundTrip(t *testing.T) {
	repoDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "greeting.txt"), []byte("hello\n"), 0o644))

	cfg := config.Defaults()
	cfg.CacheDir = filepath.Join(t.TempDir(), "cache")
	cfg.SiteCacheDir = filepath.Join(t.TempDir(), "state.db")
	o := odb.New(cfg.CacheDir)

	pointerPath := filepath.Join(repoDir, "greeting.txt.dvc")
	f, err := os.Create(pointerPath)
	require.NoError(t, err)

	origStdout := os.Stdout
	os.Stdout = f
	runSnapshot(o, cfg, []string{filepath.Join(repoDir, "greeting.txt")})
	os.Stdout = origStdout
	require.NoError(t, f.Close())

	require.NoError(t, os.Remove(filepath.Join(repoDir, "greeting.txt")))
	runCheckout(o, []string{pointerPath})

	got, err := os.ReadFile(filepath.Join(repoDir, "greeting.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(got))
}
