package decor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKernelIdentity(t *testing.T) {
	k, err := BuildKernel(0)
	require.NoError(t, err)
	require.Len(t, k, 1)
	assert.Equal(t, 1.0, k[0])
	assert.Equal(t, 0, k.Radius())
}

func TestBuildKernelNormalized(t *testing.T) {
	for radius := 0; radius <= 25; radius++ {
		k, err := BuildKernel(radius)
		require.NoError(t, err)
		require.Len(t, k, 2*radius+1)

		sum := 0.0
		for _, w := range k {
			assert.GreaterOrEqual(t, w, 0.0, "radius %d: negative weight", radius)
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-6, "radius %d: weights must sum to 1", radius)
	}
}

func TestBuildKernelSymmetricAndPeaked(t *testing.T) {
	k, err := BuildKernel(5)
	require.NoError(t, err)

	r := k.Radius()
	for i := 0; i < r; i++ {
		assert.Equal(t, k[i], k[len(k)-1-i], "kernel must be symmetric")
	}
	for i := 0; i < len(k); i++ {
		assert.LessOrEqual(t, k[i], k[r], "center weight must dominate")
	}
}

func TestBuildKernelDeterministic(t *testing.T) {
	a, err := BuildKernel(7)
	require.NoError(t, err)
	b, err := BuildKernel(7)
	require.NoError(t, err)

	require.Len(t, b, len(a))
	for i := range a {
		assert.True(t, math.Float64bits(a[i]) == math.Float64bits(b[i]),
			"weight %d differs between builds", i)
	}
}

func TestBuildKernelNegativeRadius(t *testing.T) {
	_, err := BuildKernel(-1)
	require.ErrorIs(t, err, ErrInvalidRadius)
}

func TestKernelCache(t *testing.T) {
	cache := NewKernelCache()

	first, err := cache.Get(4)
	require.NoError(t, err)
	second, err := cache.Get(4)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = cache.Get(-3)
	require.ErrorIs(t, err, ErrInvalidRadius)
}
