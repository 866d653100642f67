package diffengine

import (
	"bytes"
	"fmt"
	"os"
	"path"

	"github.com/nicolagi/dvcdata/objects"
	"github.com/nicolagi/dvcdata/odb"
	"github.com/nicolagi/dvcdata/pointer"
	"github.com/nicolagi/dvcdata/scm"
)

// Result is the caller-facing diff: the root-level verdict plus every
// granular entry, with paths rebased under root. A changed tree root gets
// a trailing slash on its own rebased path so that, for instance,
// "added{data/}" (the whole tree appeared) can be told apart from
// "added{data/file}" (one file inside an existing tree appeared).
type Result struct {
	Root    RootChange
	Entries []Entry
}

// Diff composes DiffRootOID and DiffOID, rebasing every granular path
// under root.
func Diff(o *odb.ODB, root string, old, new *objects.OID) (Result, error) {
	rootChange := DiffRootOID(old, new)
	treeDiff, err := DiffOID(o, old, new)
	if err != nil {
		return Result{}, err
	}

	rebase := func(relpath string) string {
		return path.Join(root, relpath)
	}

	var entries []Entry
	for _, e := range treeDiff.Removed {
		e.Relpath = rebase(e.Relpath)
		entries = append(entries, e)
	}
	for _, e := range treeDiff.Modified {
		e.Relpath = rebase(e.Relpath)
		entries = append(entries, e)
	}
	for _, e := range treeDiff.Unchanged {
		e.Relpath = rebase(e.Relpath)
		entries = append(entries, e)
	}
	for _, e := range treeDiff.Added {
		e.Relpath = rebase(e.Relpath)
		entries = append(entries, e)
	}

	if rootChange.Kind != Unchanged && len(entries) == 0 {
		// Single-file roots (or a root appearing/disappearing with no
		// tree structure underneath) have nothing granular to report;
		// the root-level verdict alone carries the change.
		return Result{Root: rootChange}, nil
	}
	if rootChange.Kind != Unchanged {
		// A tree root's own change is additionally surfaced as an entry
		// at root+"/" so callers can distinguish "the whole tree
		// appeared" from "one file inside it appeared".
		entries = append(entries, Entry{Relpath: root + "/", Kind: rootChange.Kind})
	}
	return Result{Root: rootChange, Entries: entries}, nil
}

// DiffWorkingCopy compares the committed pointer file at HEAD against the
// working pointer file at pointerPath, answering "what is uncommitted?"
// for the path that pointer file tracks. A BlobReader that has no history
// for the path (scm.NoHistory, or any implementation returning
// os.ErrNotExist) is treated as "nothing committed yet", i.e. old = nil.
func DiffWorkingCopy(o *odb.ODB, pointerPath string, git scm.BlobReader) (Result, error) {
	workingBytes, err := os.ReadFile(pointerPath)
	if err != nil {
		return Result{}, fmt.Errorf("diffengine: read working pointer %q: %w", pointerPath, err)
	}
	workingPtr, err := pointer.Read(bytes.NewReader(workingBytes))
	if err != nil {
		return Result{}, fmt.Errorf("diffengine: parse working pointer %q: %w", pointerPath, err)
	}
	newOID := workingPtr.OID()

	var oldOIDPtr *objects.OID
	committedBytes, err := git.ReadBlobAtHEAD(pointerPath)
	if err == nil {
		committedPtr, err := pointer.Read(bytes.NewReader(committedBytes))
		if err != nil {
			return Result{}, fmt.Errorf("diffengine: parse committed pointer %q: %w", pointerPath, err)
		}
		oid := committedPtr.OID()
		oldOIDPtr = &oid
	}

	return Diff(o, workingPtr.Out.Path, oldOIDPtr, &newOID)
}
