// Package walker implements the parallel directory walk and snapshot
// builder: it turns a working-tree path into either a single HashFile or
// a Tree object, consulting the fingerprint cache to skip re-hashing
// files whose (inode, mtime, size) triple hasn't changed.
package walker

import "github.com/nicolagi/dvcdata/fingerprint"

// FileInfo is produced for every regular file the walk yields. It is
// never persisted; it lives only for the duration of a single build.
type FileInfo struct {
	// Path is the absolute filesystem path.
	Path string
	// Relpath is Path relative to the build root, using forward slashes.
	Relpath string
	Fingerprint fingerprint.Fingerprint
	Size        int64
}
