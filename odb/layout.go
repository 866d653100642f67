// Package odb implements the on-disk object database: content layout,
// loading objects back into memory, and materializing them into a working
// tree via the cheapest available link strategy.
package odb

import (
	"path/filepath"

	"github.com/nicolagi/dvcdata/objects"
)

// ODB is a handle to the object database rooted at Dir.
type ODB struct {
	Dir string
}

// New returns a handle to the object database rooted at dir. The
// directory is created lazily by the first write.
func New(dir string) *ODB {
	return &ODB{Dir: dir}
}

// PathFor returns the on-disk path for oid: a two-level fan-out by the
// first two hex characters of the digest. Tree and file objects share the
// same namespace; the ".dir" suffix lives inside oid, not in the path
// structure.
func PathFor(root string, oid objects.OID) string {
	s := string(oid)
	if len(s) < 2 {
		return filepath.Join(root, s)
	}
	return filepath.Join(root, s[:2], s[2:])
}

// Path returns the on-disk path for oid within this database.
func (o *ODB) Path(oid objects.OID) string {
	return PathFor(o.Dir, oid)
}
