package fingerprint

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeIsDeterministic(t *testing.T) {
	a := Compute(1700000000.123456, big.NewInt(42), 1024)
	b := Compute(1700000000.123456, big.NewInt(42), 1024)
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a)
}

func TestComputeVariesWithEachComponent(t *testing.T) {
	base := Compute(1700000000, big.NewInt(1), 10)
	differentMtime := Compute(1700000001, big.NewInt(1), 10)
	differentIno := Compute(1700000000, big.NewInt(2), 10)
	differentSize := Compute(1700000000, big.NewInt(1), 11)

	assert.NotEqual(t, base, differentMtime)
	assert.NotEqual(t, base, differentIno)
	assert.NotEqual(t, base, differentSize)
}

func TestComputeIsDecimal(t *testing.T) {
	fp := Compute(0, big.NewInt(0), 0)
	for _, r := range string(fp) {
		assert.True(t, r >= '0' && r <= '9', "unexpected rune %q in fingerprint %q", r, fp)
	}
}
