//go:build unix

package fingerprint

import (
	"fmt"
	"math/big"
	"os"
	"syscall"
)

// inodeOf reads the inode number from the platform stat structure
// underlying fi. Only Linux and the BSDs are exercised in practice.
func inodeOf(fi os.FileInfo) (*big.Int, error) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("fingerprint: unsupported os.FileInfo.Sys() type %T", fi.Sys())
	}
	return new(big.Int).SetUint64(uint64(st.Ino)), nil
}
