//go:build !linux

package odb

import "errors"

// reflink has no portable copy-on-write clone primitive outside Linux's
// FICLONE ioctl in this implementation; reflinkOrCopy falls back to a
// byte copy whenever this returns an error.
func reflink(src, dst string) error {
	return errors.New("odb: reflink not supported on this platform")
}
