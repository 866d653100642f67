// Package diffengine computes structural differences between two object
// roots: added, modified, removed, and unchanged paths, plus a verdict on
// the root object itself.
package diffengine

import (
	"fmt"

	"github.com/nicolagi/dvcdata/objects"
	"github.com/nicolagi/dvcdata/odb"
)

// ChangeKind classifies how an entry differs between the old and new side
// of a diff.
type ChangeKind int

const (
	Unchanged ChangeKind = iota
	Added
	Modified
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	default:
		return "unchanged"
	}
}

// RootChange describes how the root object itself changed.
type RootChange struct {
	Kind ChangeKind
	Old  objects.OID
	New  objects.OID
}

// DiffRootOID classifies the root object identified by old and new. A nil
// pointer means "absent" on that side; (nil, nil) is Unchanged with an
// empty OID, matching a no-op diff against nothing.
func DiffRootOID(old, new *objects.OID) RootChange {
	switch {
	case old == nil && new == nil:
		return RootChange{Kind: Unchanged}
	case old == nil:
		return RootChange{Kind: Added, New: *new}
	case new == nil:
		return RootChange{Kind: Removed, Old: *old}
	case *old == *new:
		return RootChange{Kind: Unchanged, Old: *old, New: *new}
	default:
		return RootChange{Kind: Modified, Old: *old, New: *new}
	}
}

// Entry describes one relpath's classification within a TreeDiff.
type Entry struct {
	Relpath string
	Kind    ChangeKind
	Old     objects.OID
	New     objects.OID
}

// TreeDiff groups every relpath seen on either side of a tree-to-tree
// comparison by how it changed.
type TreeDiff struct {
	Added     []Entry
	Modified  []Entry
	Removed   []Entry
	Unchanged []Entry
}

// DiffOID loads the objects old and new identify (either may be nil, for
// "absent on that side") and produces their structural diff.
func DiffOID(o *odb.ODB, old, new *objects.OID) (TreeDiff, error) {
	oldObj, err := o.LoadOptional(old)
	if err != nil {
		return TreeDiff{}, fmt.Errorf("diffengine: load old: %w", err)
	}
	newObj, err := o.LoadOptional(new)
	if err != nil {
		return TreeDiff{}, fmt.Errorf("diffengine: load new: %w", err)
	}
	return diffObject(oldObj, newObj), nil
}

func asTree(obj objects.Object) (objects.Tree, bool) {
	t, ok := obj.(objects.Tree)
	return t, ok
}

// diffObject implements the classification table from the component
// design: two non-tree sides produce an empty diff (the interesting
// change, if any, is captured at the root level); any side that is a Tree
// forces a full tree-vs-tree (or tree-vs-empty) comparison.
func diffObject(old, new objects.Object) TreeDiff {
	oldTree, oldIsTree := asTree(old)
	newTree, newIsTree := asTree(new)
	if !oldIsTree && !newIsTree {
		return TreeDiff{}
	}
	return diffTree(oldTree, newTree)
}

func diffTree(a, b objects.Tree) TreeDiff {
	var d TreeDiff
	aIndex := make(map[string]objects.OID, len(a.Entries))
	for _, e := range a.Entries {
		aIndex[e.Relpath] = e.Oid
	}
	bIndex := make(map[string]objects.OID, len(b.Entries))
	for _, e := range b.Entries {
		bIndex[e.Relpath] = e.Oid
	}
	for path, aOid := range aIndex {
		bOid, inB := bIndex[path]
		switch {
		case !inB:
			d.Removed = append(d.Removed, Entry{Relpath: path, Kind: Removed, Old: aOid})
		case aOid == bOid:
			d.Unchanged = append(d.Unchanged, Entry{Relpath: path, Kind: Unchanged, Old: aOid, New: bOid})
		default:
			d.Modified = append(d.Modified, Entry{Relpath: path, Kind: Modified, Old: aOid, New: bOid})
		}
	}
	for path, bOid := range bIndex {
		if _, inA := aIndex[path]; !inA {
			d.Added = append(d.Added, Entry{Relpath: path, Kind: Added, New: bOid})
		}
	}
	return d
}
