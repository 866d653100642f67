// Package state implements the fingerprint cache: a persistent mapping
// from a working-tree path to the fingerprint and content hash last
// observed for it, so the walker can skip re-hashing unchanged files.
package state

import (
	"encoding/json"

	"github.com/nicolagi/dvcdata/fingerprint"
	"github.com/nicolagi/dvcdata/objects"
)

// HashInfo carries the content digest half of a cached Value.
type HashInfo struct {
	MD5 string `json:"md5"`
}

// Value is what the cache stores for a given path: the fingerprint that
// was current when it was hashed, the resulting content OID, and the file
// size. Field names are chosen to match the original tool's JSON value
// column so the cache file format stays interoperable.
type Value struct {
	Checksum fingerprint.Fingerprint `json:"checksum"`
	Size     uint64                  `json:"size"`
	HashInfo HashInfo                `json:"hash_info"`
}

// OID returns the value's content identifier as an objects.OID.
func (v Value) OID() objects.OID {
	return objects.FileOID(v.HashInfo.MD5)
}

func (v Value) marshal() ([]byte, error) {
	return json.Marshal(v)
}

func unmarshalValue(b []byte) (Value, error) {
	var v Value
	err := json.Unmarshal(b, &v)
	return v, err
}
