package objects

import (
	"path"
	"sort"
	"strings"
)

// TreeEntry binds a relative, posix-slash path to the object it resolves
// to. Entries are totally ordered by (Relpath, Oid).
type TreeEntry struct {
	Relpath string
	Oid     OID
}

func (e TreeEntry) less(other TreeEntry) bool {
	if e.Relpath != other.Relpath {
		return e.Relpath < other.Relpath
	}
	return e.Oid < other.Oid
}

// Tree is an ordered, immutable manifest of TreeEntry values. Entries are
// strictly sorted, and every Relpath is non-empty, relative, and uses
// forward slashes regardless of host path separator.
type Tree struct {
	Entries []TreeEntry

	oid        OID
	serialized []byte
}

func (t Tree) OID() OID { return t.oid }
func (Tree) isObject()  {}

// Serialized returns the canonical JSON bytes computed by NewTree.
func (t Tree) Serialized() []byte { return t.serialized }

// NewTree sorts entries and validates them: every relpath must be
// non-empty, relative, and free of ".." components.
func NewTree(entries []TreeEntry) (Tree, error) {
	out := make([]TreeEntry, len(entries))
	copy(out, entries)
	for i, e := range out {
		if e.Relpath == "" {
			return Tree{}, errorf("objects: entry %d has empty relpath", i)
		}
		if path.IsAbs(e.Relpath) {
			return Tree{}, errorf("objects: entry %q: relpath must be relative", e.Relpath)
		}
		for _, comp := range strings.Split(e.Relpath, "/") {
			if comp == ".." {
				return Tree{}, errorf("objects: entry %q: relpath must not contain \"..\"", e.Relpath)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	for i := 1; i < len(out); i++ {
		if out[i-1].Relpath == out[i].Relpath {
			return Tree{}, errorf("objects: duplicate relpath %q", out[i].Relpath)
		}
	}
	t := Tree{Entries: out}
	ser, oid := Digest(t)
	t.serialized = ser
	t.oid = oid
	return t, nil
}

// Find returns the entry for relpath, if present.
func (t Tree) Find(relpath string) (TreeEntry, bool) {
	for _, e := range t.Entries {
		if e.Relpath == relpath {
			return e, true
		}
	}
	return TreeEntry{}, false
}

// Paths returns the set of relpaths in t, in sorted order.
func (t Tree) Paths() []string {
	paths := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		paths[i] = e.Relpath
	}
	return paths
}
