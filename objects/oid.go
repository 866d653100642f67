// Package objects holds the content-addressed data model: object
// identifiers, single-file objects and directory tree manifests.
package objects

import (
	"fmt"
	"strings"
)

// dirSuffix marks an OID as referring to a Tree rather than a single file.
// It lives inside the OID string, not in the object database path, so that
// the on-disk layout and the wire format stay compatible with the original
// tool this store was modeled on.
const dirSuffix = ".dir"

// OID is a lowercase, 32-hex-character MD5 digest, optionally suffixed with
// ".dir" to mark a Tree object.
type OID string

// IsTree reports whether oid refers to a Tree object.
func (oid OID) IsTree() bool {
	return strings.HasSuffix(string(oid), dirSuffix)
}

// Digest returns the bare 32-hex-character MD5 digest, stripping the
// ".dir" suffix if present.
func (oid OID) Digest() string {
	return strings.TrimSuffix(string(oid), dirSuffix)
}

// String implements fmt.Stringer.
func (oid OID) String() string {
	return string(oid)
}

// TreeOID returns the OID that a digest denotes when tagged as a tree.
func TreeOID(digest string) OID {
	return OID(digest + dirSuffix)
}

// FileOID returns the OID that a digest denotes when tagged as a file.
func FileOID(digest string) OID {
	return OID(digest)
}

// Valid reports whether oid has the expected shape: 32 hex characters,
// optionally followed by ".dir".
func (oid OID) Valid() bool {
	d := oid.Digest()
	if len(d) != 32 {
		return false
	}
	for _, r := range d {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return true
}

// Object is the tagged union at the root of every snapshot: a snapshot
// root is either a single file's content or a directory tree manifest.
// The ".dir" suffix is the on-disk/wire representation of this tag; in
// memory, the tag is the concrete Go type.
type Object interface {
	// OID returns the object's identifier, including the ".dir" suffix
	// for trees.
	OID() OID
	isObject()
}

// HashFile is a value type holding the OID of a verbatim, byte-for-byte
// copy of a single file's contents.
type HashFile struct {
	Oid OID
}

func (h HashFile) OID() OID { return h.Oid }
func (HashFile) isObject()  {}

// NewHashFile wraps a raw digest (without ".dir") as a HashFile object.
func NewHashFile(digest string) HashFile {
	return HashFile{Oid: FileOID(digest)}
}

var _ Object = HashFile{}
var _ Object = Tree{}

// errorf is a small helper kept local to this package so objects does not
// need to depend on the error-kind sentinels declared by its callers; the
// path-error / tree-error taxonomy is attached by the odb and walker
// packages when they wrap errors returned from here.
func errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
