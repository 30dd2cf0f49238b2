package decor

import (
	"errors"
	"math"
	"sync"
)

// ErrInvalidRadius is returned for a negative blur radius. Styles are
// validated at construction, so hitting this indicates a caller bug rather
// than a recoverable condition.
var ErrInvalidRadius = errors.New("decor: blur radius must be non-negative")

// Kernel is a normalized 1-D Gaussian used for both passes of the separable
// shadow blur. Weights are non-negative and sum to 1.0; the slice has
// 2*radius+1 entries centered on the sample point.
type Kernel []float64

// Radius returns the kernel half-width.
func (k Kernel) Radius() int {
	return (len(k) - 1) / 2
}

// BuildKernel derives a blur kernel from a shadow radius. The Gaussian is
// sampled at integer offsets with sigma = radius/2 and renormalized so the
// weights sum to exactly 1.0. Radius 0 yields the identity kernel. The same
// radius always produces a bit-identical kernel.
func BuildKernel(radius int) (Kernel, error) {
	if radius < 0 {
		return nil, ErrInvalidRadius
	}
	if radius == 0 {
		return Kernel{1.0}, nil
	}

	sigma := float64(radius) / 2
	k := make(Kernel, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		k[i+radius] = w
		sum += w
	}
	for i := range k {
		k[i] /= sum
	}
	return k, nil
}

// KernelCache memoizes kernels per radius. It is an explicitly owned object
// rather than package state so the compositing path stays pure; the lookup is
// safe for concurrent composites sharing one cache.
type KernelCache struct {
	mu      sync.Mutex
	kernels map[int]Kernel
}

// NewKernelCache creates an empty kernel cache.
func NewKernelCache() *KernelCache {
	return &KernelCache{kernels: make(map[int]Kernel)}
}

// Get returns the kernel for radius, building it on first use.
func (c *KernelCache) Get(radius int) (Kernel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if k, ok := c.kernels[radius]; ok {
		return k, nil
	}
	k, err := BuildKernel(radius)
	if err != nil {
		return nil, err
	}
	c.kernels[radius] = k
	return k, nil
}
