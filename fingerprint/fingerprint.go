// Package fingerprint composes the stat-derived identity used to elide
// re-hashing of unchanged files. The composition procedure is a
// cross-implementation compatibility contract with the original tool's
// state database: any deviation silently invalidates existing caches, so
// nothing here should be "improved" without also bumping the cache
// format.
package fingerprint

import (
	"crypto/md5"
	"fmt"
	"math/big"
	"os"
	"strconv"
)

// Fingerprint is the decimal-string rendering of a (ino/file-id, mtime,
// size) triple.
type Fingerprint string

// Compute derives the fingerprint for a file whose inode (or platform file
// identifier) is inoOrFileID, whose modification time in seconds since the
// epoch is mtimeSecs, and whose size in bytes is size.
//
// Procedure: format the triple as the literal text "([<ino>, <mtime>,
// <size>],)", MD5 it, reinterpret the 16-byte digest as a big-endian
// 128-bit unsigned integer, and render it as decimal.
func Compute(mtimeSecs float64, inoOrFileID *big.Int, size uint64) Fingerprint {
	mtime := strconv.FormatFloat(mtimeSecs, 'g', -1, 64)
	text := fmt.Sprintf("([%s, %s, %d],)", inoOrFileID.String(), mtime, size)
	sum := md5.Sum([]byte(text))
	n := new(big.Int).SetBytes(sum[:])
	return Fingerprint(n.String())
}

// OfFile extracts (ino, mtime, size) from fi, which must have been
// produced by os.Lstat/os.Stat on a regular file, and composes the
// fingerprint. The inode is taken from the platform-specific stat
// structure; platforms without inodes should instead construct the
// big.Int file identifier themselves and call Compute directly.
func OfFile(fi os.FileInfo) (Fingerprint, error) {
	ino, err := inodeOf(fi)
	if err != nil {
		return "", err
	}
	mtime := float64(fi.ModTime().UnixNano()) / 1e9
	return Compute(mtime, ino, uint64(fi.Size())), nil
}
