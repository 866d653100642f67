// Package pointer reads and writes the YAML pointer files that bind a
// working-tree path to a root object identifier.
package pointer

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nicolagi/dvcdata/objects"
)

// ErrCodec is the sentinel wrapped by pointer file parse/serialize
// failures.
var ErrCodec = fmt.Errorf("pointer: codec error")

// Out is the single element of a pointer file's "outs" sequence.
type Out struct {
	MD5    string `yaml:"md5"`
	Hash   string `yaml:"hash"`
	Path   string `yaml:"path"`
	Size   *uint64 `yaml:"size,omitempty"`
	NFiles *uint64 `yaml:"nfiles,omitempty"`
}

// Pointer is the in-memory form of a *.dvc file.
type Pointer struct {
	Out Out
}

// OID returns the pointer's root object identifier.
func (p Pointer) OID() objects.OID {
	return objects.OID(p.Out.MD5)
}

type document struct {
	Outs []Out `yaml:"outs"`
}

// New builds a Pointer for oid at relPath, relative to the pointer file's
// own directory. size is optional; nfiles is only meaningful (and only
// ever set) for tree OIDs.
func New(oid objects.OID, relPath string, size *uint64, nfiles *uint64) Pointer {
	out := Out{
		MD5:  string(oid),
		Hash: "md5",
		Path: filepath.ToSlash(relPath),
		Size: size,
	}
	if oid.IsTree() {
		out.NFiles = nfiles
	}
	return Pointer{Out: out}
}

// Write serializes p as YAML to w, with the leading "---" document marker
// stripped, matching the original tool's pointer file format.
func Write(w io.Writer, p Pointer) error {
	doc := document{Outs: []Out{p.Out}}
	b, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrCodec, err)
	}
	b = bytes.TrimPrefix(b, []byte("---\n"))
	_, err = w.Write(b)
	if err != nil {
		return fmt.Errorf("%w: write: %v", ErrCodec, err)
	}
	return nil
}

// Read parses a pointer file from r.
func Read(r io.Reader) (Pointer, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return Pointer{}, fmt.Errorf("%w: decode: %v", ErrCodec, err)
	}
	if len(doc.Outs) != 1 {
		return Pointer{}, fmt.Errorf("%w: expected exactly one entry in outs, got %d", ErrCodec, len(doc.Outs))
	}
	return Pointer{Out: doc.Outs[0]}, nil
}

// DefaultPath returns the conventional pointer file name for a tracked
// working-tree path: trackedPath with a ".dvc" extension appended,
// whether or not trackedPath already has an extension of its own (so
// "model.pkl" becomes "model.pkl.dvc", not "model.dvc").
func DefaultPath(trackedPath string) string {
	return trackedPath + ".dvc"
}
