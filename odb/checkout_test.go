package odb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolagi/dvcdata/objects"
	"github.com/nicolagi/dvcdata/pointer"
)

func TestCheckoutMaterializesNextToPointerFile(t *testing.T) {
	oDir := filepath.Join(t.TempDir(), "cache")
	o := New(oDir)

	obj := objects.NewHashFile("b1946ac92492d2347c6235b4d2611184")
	objPath := o.Path(obj.Oid)
	require.NoError(t, os.MkdirAll(filepath.Dir(objPath), 0o755))
	require.NoError(t, os.WriteFile(objPath, []byte("hello\n"), 0o444))

	repoDir := t.TempDir()
	pointerPath := filepath.Join(repoDir, "greeting.txt.dvc")
	sz := uint64(6)
	p := pointer.New(obj.Oid, "greeting.txt", &sz, nil)
	f, err := os.Create(pointerPath)
	require.NoError(t, err)
	require.NoError(t, pointer.Write(f, p))
	require.NoError(t, f.Close())

	require.NoError(t, o.Checkout(context.Background(), pointerPath, nil))

	got, err := os.ReadFile(filepath.Join(repoDir, "greeting.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(got))
}
