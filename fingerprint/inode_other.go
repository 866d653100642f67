//go:build !unix

package fingerprint

import (
	"errors"
	"math/big"
	"os"
)

// inodeOf has no portable file-identifier source on non-unix platforms;
// callers on such platforms must synthesize a file identifier themselves
// and call Compute directly instead of OfFile.
func inodeOf(os.FileInfo) (*big.Int, error) {
	return nil, errUnsupportedPlatform
}

var errUnsupportedPlatform = errors.New("fingerprint: inode extraction is not supported on this platform")
