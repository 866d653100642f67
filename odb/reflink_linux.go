package odb

import (
	"os"

	"golang.org/x/sys/unix"
)

// reflink attempts a copy-on-write clone of src to dst via the FICLONE
// ioctl. It fails (falling through to a byte copy in reflinkOrCopy) on
// filesystems that do not support it, or across devices.
func reflink(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if err := unix.IoctlFileClone(int(out.Fd()), int(in.Fd())); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}
