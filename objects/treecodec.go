package objects

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
)

// Digest serializes t to its canonical form and returns both the bytes and
// the resulting tree OID. Canonical form is a JSON array of objects, one
// per entry in sorted order, each with keys "md5" then "relpath", using
// ", " and ": " as separators — byte-for-byte what Python's
// json.dumps(..., separators=(", ", ": ")) produces for the equivalent
// list of dicts. Matching this exactly is a compatibility requirement
// with the original tool's on-disk tree objects, not a style choice.
func Digest(t Tree) ([]byte, OID) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range t.Entries {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteByte('{')
		buf.WriteString(`"md5": `)
		writeJSONString(&buf, string(e.Oid))
		buf.WriteString(`, "relpath": `)
		writeJSONString(&buf, e.Relpath)
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	serialized := buf.Bytes()
	sum := md5.Sum(serialized)
	return serialized, TreeOID(hex.EncodeToString(sum[:]))
}

// writeJSONString writes s as a JSON string literal using the stdlib
// encoder for escaping, without the trailing newline encoding/json.Encoder
// would add and without reformatting the surrounding separators.
func writeJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

// rawTreeEntry mirrors the on-disk shape for decoding, accepting either
// key order since encoding/json is order-insensitive on read.
type rawTreeEntry struct {
	MD5     string `json:"md5"`
	Relpath string `json:"relpath"`
}

// LoadTree parses a tree object's canonical JSON and returns the in-memory
// Tree. The parser accepts either field order; only Digest's writer is
// order-sensitive.
func LoadTree(r io.Reader) (Tree, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Tree{}, fmt.Errorf("objects: read tree: %w", err)
	}
	return ParseTree(b)
}

// ParseTree parses tree object bytes already read into memory.
func ParseTree(b []byte) (Tree, error) {
	var raw []rawTreeEntry
	if err := json.Unmarshal(b, &raw); err != nil {
		return Tree{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	entries := make([]TreeEntry, len(raw))
	for i, r := range raw {
		oid := OID(r.MD5)
		if !oid.Valid() {
			return Tree{}, fmt.Errorf("%w: entry %q: invalid digest %q", ErrMalformed, r.Relpath, r.MD5)
		}
		entries[i] = TreeEntry{Relpath: r.Relpath, Oid: oid}
	}
	// The loaded entries are already sorted on disk (canonical form is
	// always written sorted); NewTree re-sorts defensively and re-derives
	// the serialization and digest from the parsed entries. The re-derived
	// OID is not compared against the OID the bytes were stored under.
	return NewTree(entries)
}

// ErrMalformed is returned when on-disk tree JSON cannot be parsed.
var ErrMalformed = fmt.Errorf("objects: malformed tree object")
