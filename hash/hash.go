// Package hash computes the MD5 content digests used throughout the
// object database. Hashing is byte-exact: no newline normalization, no
// text/binary detection. An early revision of the tool this is modeled on
// applied DOS-to-Unix newline conversion before hashing text files; that
// behavior is deliberately not reproduced here, since object identifiers
// must be exact digests of file contents.
package hash

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"

	"github.com/pkg/errors"
)

// bufferSize bounds how much of the stream is held in memory at once.
const bufferSize = 32 * 1024

// Bytes returns the lowercase hex MD5 digest of everything read from r.
func Bytes(r io.Reader) (string, error) {
	h := md5.New()
	buf := make([]byte, bufferSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", errors.Wrap(err, "hash: read stream")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// File opens path, streams its contents through MD5, and returns the
// lowercase hex digest along with the byte count read.
func File(path string) (oid string, size int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, errors.Wrapf(err, "hash: open %q", path)
	}
	defer func() {
		_ = f.Close()
	}()
	h := md5.New()
	buf := make([]byte, bufferSize)
	n, err := io.CopyBuffer(h, f, buf)
	if err != nil {
		return "", 0, errors.Wrapf(err, "hash: read %q", path)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
