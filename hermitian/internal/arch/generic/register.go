// Package generic provides the portable conjugate-symmetry fill kernel.
// It is registered for every CPU level; SIMD variants would register at a
// higher priority in their own arch packages.
package generic

import (
	"github.com/cwbudde/algo-ndfft/hermitian/internal/arch/registry"
	"github.com/cwbudde/algo-ndfft/internal/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "generic",
		SIMDLevel: cpu.SIMDNone,
		Priority:  0,
		Fill64:    fillSlice64,
		Fill32:    fillSlice32,
	})
}

// UnravelIndex decomposes a linear index over the given extents into an
// N-dimensional coordinate, with dimension 0 fastest-varying. coord must
// have len(sizes) elements.
func UnravelIndex(linear int64, sizes []int64, coord []int64) {
	for i := range sizes {
		coord[i] = linear % sizes[i]
		linear /= sizes[i]
	}
}
