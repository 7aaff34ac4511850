package testutil

import (
	"math"
	"math/cmplx"
)

// NaiveDFT computes the unnormalized forward discrete Fourier transform of
// one line, directly from the definition. Quadratic, reference use only.
func NaiveDFT(in []complex128) []complex128 {
	return naiveDFT(in, -1)
}

// NaiveIDFT computes the unnormalized backward transform (positive
// exponent, no 1/N factor), matching the raw engine convention.
func NaiveIDFT(in []complex128) []complex128 {
	return naiveDFT(in, +1)
}

func naiveDFT(in []complex128, sign float64) []complex128 {
	n := len(in)
	out := make([]complex128, n)
	for k := 0; k < n; k++ {
		var sum complex128
		for j := 0; j < n; j++ {
			angle := sign * 2 * math.Pi * float64(k) * float64(j) / float64(n)
			sum += in[j] * cmplx.Exp(complex(0, angle))
		}
		out[k] = sum
	}
	return out
}

// NaiveDFTND applies the unnormalized forward DFT along every dimension of
// a contiguous row-major array of the given sizes.
func NaiveDFTND(in []complex128, sizes []int64) []complex128 {
	out := append([]complex128(nil), in...)

	// Row-major strides.
	nd := len(sizes)
	strides := make([]int64, nd)
	s := int64(1)
	for d := nd - 1; d >= 0; d-- {
		strides[d] = s
		s *= sizes[d]
	}
	numel := s

	line := make([]complex128, 0)
	for d := 0; d < nd; d++ {
		n := sizes[d]
		if n == 1 {
			continue
		}
		line = line[:0]
		// Visit each line along d once: every linear index whose coordinate
		// in d is zero is a line base.
		for base := int64(0); base < numel; base++ {
			if (base/strides[d])%n != 0 {
				continue
			}
			line = line[:0]
			for i := int64(0); i < n; i++ {
				line = append(line, out[base+i*strides[d]])
			}
			res := NaiveDFT(line)
			for i := int64(0); i < n; i++ {
				out[base+i*strides[d]] = res[i]
			}
		}
	}
	return out
}
