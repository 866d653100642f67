// Package scm declares the seam the diff engine uses to compare a working
// pointer file against the version committed at HEAD. Implementations
// that actually talk to a version control system live outside this
// module.
package scm

import "os"

// BlobReader resolves a repository-relative path to the bytes it held at
// HEAD.
type BlobReader interface {
	ReadBlobAtHEAD(repoRelativePath string) ([]byte, error)
}

// NoHistory is a BlobReader for working trees with no version control
// history to compare against: every lookup reports the path as absent.
type NoHistory struct{}

func (NoHistory) ReadBlobAtHEAD(string) ([]byte, error) {
	return nil, os.ErrNotExist
}
