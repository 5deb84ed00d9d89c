package draw

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectDeterministic(t *testing.T) {
	seed := Seed([]byte("block-entropy"), "0x1111111111111111111111111111111111111111", 0)

	a, err := Select(7, seed)
	assert.NoError(t, err)
	b, err := Select(7, seed)
	assert.NoError(t, err)
	assert.Equal(t, a, b, "same seed must select the same index")
}

func TestSelectInRange(t *testing.T) {
	for counter := uint64(0); counter < 200; counter++ {
		seed := Seed([]byte{0xde, 0xad}, "0x2222222222222222222222222222222222222222", counter)
		idx, err := Select(5, seed)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 5)
	}
}

func TestSelectSingleCandidate(t *testing.T) {
	idx, err := Select(1, Seed(nil, "0x3333333333333333333333333333333333333333", 9))
	assert.NoError(t, err)
	assert.Equal(t, 0, idx)
}

func TestSelectEmptySet(t *testing.T) {
	_, err := Select(0, Seed(nil, "0x3333333333333333333333333333333333333333", 0))
	assert.Error(t, err)
}

func TestCounterVariesSeed(t *testing.T) {
	entropy := []byte("fixed")
	caller := "0x4444444444444444444444444444444444444444"

	s0 := Seed(entropy, caller, 0)
	s1 := Seed(entropy, caller, 1)
	assert.NotEqual(t, s0, s1, "per-transaction counter must change the seed")
}

func TestCallerVariesSeed(t *testing.T) {
	entropy := []byte("fixed")

	s0 := Seed(entropy, "0x5555555555555555555555555555555555555555", 0)
	s1 := Seed(entropy, "0x6666666666666666666666666666666666666666", 0)
	assert.NotEqual(t, s0, s1)
}
