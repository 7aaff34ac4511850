package generic

// fillSlice32 is the complex64 counterpart of fillSlice64. The two are kept
// as separate concrete kernels so the inner loops compile without any
// per-element dispatch.
func fillSlice32(begin, end int64, sizes []int64, mirrored []bool,
	inStrides []int64, in []complex64, inBase int64,
	outStrides []int64, out []complex64, outBase int64) {

	ndim := len(sizes)
	index := make([]int64, ndim)
	inOff := inBase
	outOff := outBase

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
