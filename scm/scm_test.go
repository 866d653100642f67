package scm

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoHistoryReportsAbsent(t *testing.T) {
	var r BlobReader = NoHistory{}
	_, err := r.ReadBlobAtHEAD("any/path")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
