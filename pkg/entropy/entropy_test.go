package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoSource(t *testing.T) {
	var src CryptoSource

	a, err := src.Entropy()
	require.NoError(t, err)
	assert.Len(t, a, 32)

	b, err := src.Entropy()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestFixedSource(t *testing.T) {
	src := FixedSource([]byte{1, 2, 3})

	a, err := src.Entropy()
	require.NoError(t, err)
	b, err := src.Entropy()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
