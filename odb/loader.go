package odb

import (
	"os"

	"github.com/pkg/errors"

	"github.com/nicolagi/dvcdata/objects"
)

// ErrTree is the sentinel wrapped by errors returned while loading or
// reading a tree object ("tree-error": malformed on-disk tree JSON, or a
// read failure against the object database).
var ErrTree = errors.New("odb: tree error")

// Load resolves oid into the Object it identifies: a Tree if oid carries
// the ".dir" suffix, a HashFile otherwise. For a HashFile this does not
// read the underlying content, since HashFile's identity is the OID
// itself; callers needing the bytes open o.Path(oid) directly.
func (o *ODB) Load(oid objects.OID) (objects.Object, error) {
	if !oid.IsTree() {
		return objects.NewHashFile(oid.Digest()), nil
	}
	f, err := os.Open(o.Path(oid))
	if err != nil {
		return nil, errors.Wrapf(ErrTree, "open %q: %v", oid, err)
	}
	defer func() { _ = f.Close() }()
	t, err := objects.LoadTree(f)
	if err != nil {
		return nil, errors.Wrapf(ErrTree, "parse %q: %v", oid, err)
	}
	return t, nil
}

// LoadOptional resolves oid the same way Load does, but returns
// (nil, nil) for a nil oid, modeling the "root may be absent" case used
// throughout the diff engine.
func (o *ODB) LoadOptional(oid *objects.OID) (objects.Object, error) {
	if oid == nil {
		return nil, nil
	}
	return o.Load(*oid)
}
