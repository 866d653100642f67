package odb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nicolagi/dvcdata/pointer"
)

// Checkout parses the pointer file at pointerPath, resolves its root OID
// within this object database, and materializes the working copy next to
// the pointer file (at pointer.Out.Path, relative to the pointer file's
// own directory), using prefs as the ranked link-strategy list.
func (o *ODB) Checkout(ctx context.Context, pointerPath string, prefs []LinkStrategy) error {
	f, err := os.Open(pointerPath)
	if err != nil {
		return fmt.Errorf("odb: open pointer %q: %w", pointerPath, err)
	}
	defer func() { _ = f.Close() }()

	p, err := pointer.Read(f)
	if err != nil {
		return fmt.Errorf("odb: read pointer %q: %w", pointerPath, err)
	}

	workingPath := filepath.Join(filepath.Dir(pointerPath), filepath.FromSlash(p.Out.Path))
	obj, err := o.Load(p.OID())
	if err != nil {
		return fmt.Errorf("odb: load %q: %w", p.OID(), err)
	}
	return o.Materialize(ctx, workingPath, obj, prefs)
}
