package generic

// fillSlice64 fills the linear sub-range [begin, end) of the half index
// space with conjugate-mirrored values. The iteration space is the
// Cartesian product of sizes, flattened with dimension 0 fastest-varying.
//
// For a mirrored dimension, coordinate i reads input at offset i*stride and
// writes output at offset (size-i)*stride, with coordinate 0 writing offset
// 0; the destination therefore walks backward while the source walks
// forward. Positions are tracked as signed offsets from inBase/outBase and
// summed per dimension, never as live pointers, so intermediate values stay
// well-defined even with negative strides.
func fillSlice64(begin, end int64, sizes []int64, mirrored []bool,
	inStrides []int64, in []complex128, inBase int64,
	outStrides []int64, out []complex128, outBase int64) {

	ndim := len(sizes)
	index := make([]int64, ndim)
	inOff := inBase
	outOff := outBase

	// advanceRow steps past the end of one innermost row, propagating the
	// carry through the outer dimensions. Carries out of a mirrored
	// dimension move the destination back toward its coordinate-zero
	// position; entering a mirrored dimension jumps the destination to the
	// mirrored extreme first.
	advanceRow := func() {
		for i := 1; i < ndim; i++ {
			if index[i]+1 < sizes[i] {
				index[i]++
				inOff += inStrides[i]
				if mirrored[i] {
					if index[i] == 1 {
						outOff += (sizes[i] - 1) * outStrides[i]
					} else {
						outOff -= outStrides[i]
					}
				} else {
					outOff += outStrides[i]
				}
				return
			}

			inOff -= inStrides[i] * index[i]
			if mirrored[i] {
				outOff -= outStrides[i]
			} else {
				outOff -= outStrides[i] * index[i]
			}
			index[i] = 0
		}
	}

	// The sub-range may start part-way into a row. Reconstruct the starting
	// coordinate from the linear offset, then accumulate the per-dimension
	// offset contributions, applying the mirrored reflection where needed.
	if begin > 0 {
		UnravelIndex(begin, sizes, index)
		for i := 1; i < ndim; i++ {
			if index[i] == 0 {
				continue
			}
			inOff += inStrides[i] * index[i]
			if mirrored[i] {
				outOff += outStrides[i] * (sizes[i] - index[i])
			} else {
				outOff += outStrides[i] * index[i]
			}
		}
	}

	remaining := end - begin

	if mirrored[0] {
		// Explicit loop over a Hermitian-mirrored innermost dimension.
		if index[0] > 0 {
			rowEnd := min(sizes[0], index[0]+remaining)
			for i := index[0]; i < rowEnd; i++ {
				src := in[inOff+i*inStrides[0]]
				out[outOff+(sizes[0]-i)*outStrides[0]] = complex(real(src), -imag(src))
			}
			remaining -= rowEnd - index[0]
			index[0] = 0
			advanceRow()
		}

		for remaining > 0 {
			rowEnd := min(sizes[0], remaining)
			src := in[inOff]
			out[outOff] = complex(real(src), -imag(src))
			for i := int64(1); i < rowEnd; i++ {
				src = in[inOff+i*inStrides[0]]
				out[outOff+(sizes[0]-i)*outStrides[0]] = complex(real(src), -imag(src))
			}
			remaining -= rowEnd
			advanceRow()
		}
		return
	}

	// Non-mirrored innermost dimension: a plain strided conjugated copy.
	for remaining > 0 {
		rowEnd := min(sizes[0], index[0]+remaining)
		for i := index[0]; i < rowEnd; i++ {
			src := in[inOff+i*inStrides[0]]
			out[outOff+i*outStrides[0]] = complex(real(src), -imag(src))
		}
		remaining -= rowEnd - index[0]
		index[0] = 0
		advanceRow()
	}
}
