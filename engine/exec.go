package engine

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-ndfft/tensor"
)

// compute validates the buffers against the descriptor, runs the
// per-dimension line passes, and applies the configured scale. The backward
// direction compensates for the backend's normalized inverse so the raw
// engine convention (unnormalized backward) holds before scaling.
func (d *Descriptor) compute(dst, src *tensor.Buffer, inverse bool) error {
	if d.closed {
		return ErrClosed
	}
	if !d.committed {
		return ErrNotCommitted
	}

	wantKind := tensor.Float64
	if d.prec == Single {
		wantKind = tensor.Float32
	}
	if src.Kind() != wantKind || dst.Kind() != wantKind {
		return fmt.Errorf("%w: src %v, dst %v", ErrPrecisionMismatch, src.Kind(), dst.Kind())
	}

	var err error
	switch d.prec {
	case Double:
		err = run[complex128, float64](d, d.plans64, d.r2c64, d.c2r64, dst, src, inverse)
	case Single:
		err = run[complex64, float32](d, d.plans32, d.r2c32, d.c2r32, dst, src, inverse)
	}
	if err != nil {
		return err
	}

	scale := d.fwdScale
	if inverse {
		total := int64(1)
		for _, s := range d.sizes {
			total *= s
		}
		scale = d.bwdScale * float64(total)
	}
	if scale != 1 {
		scaleBuffer(dst, scale)
	}
	return nil
}

// run dispatches one batched transform at a fixed precision. For the real
// domain the complex side is src on backward and dst on forward.
func run[T algofft.Complex, F algofft.Float](d *Descriptor,
	plans map[int64]*algofft.Plan[T],
	r2cFast func([]T, []F), c2rFast func([]F, []T),
	dst, src *tensor.Buffer, inverse bool) error {

	if d.domain == DomainComplex {
		srcC, err := complexView[T](src)
		if err != nil {
			return err
		}
		dstC, err := complexView[T](dst)
		if err != nil {
			return err
		}
		return executeComplex(d, plans, dstC, srcC, inverse)
	}

	if inverse {
		srcC, err := complexView[T](src)
		if err != nil {
			return err
		}
		return executeComplexToReal(d, plans, c2rFast, realView[F](dst), srcC)
	}
	dstC, err := complexView[T](dst)
	if err != nil {
		return err
	}
	return executeRealToComplex(d, plans, r2cFast, dstC, realView[F](src))
}

// eachLine walks every line along dim of the index space given by sizes and
// invokes fn with the line's base offsets under the two stride sets. The
// extent of dim itself is ignored; only the other dimensions iterate.
func eachLine(sizes []int64, dim int, aStrides, bStrides []int64, fn func(aOff, bOff int64) error) error {
	idx := make([]int64, len(sizes))
	for {
		var aOff, bOff int64
		for i := range sizes {
			if i == dim {
				continue
			}
			aOff += idx[i] * aStrides[i]
			bOff += idx[i] * bStrides[i]
		}
		if err := fn(aOff, bOff); err != nil {
			return err
		}

		i := 0
		for ; i < len(sizes); i++ {
			if i == dim {
				continue
			}
			idx[i]++
			if idx[i] < sizes[i] {
				break
			}
			idx[i] = 0
		}
		if i == len(sizes) {
			return nil
		}
	}
}

// transformLine gathers one strided line into contiguous scratch, transforms
// it, and scatters the result. in and out may alias arbitrarily since the
// line is staged through scratch.
func transformLine[T algofft.Complex](plans map[int64]*algofft.Plan[T], n int64,
	in []T, inBase, inStride int64,
	out []T, outBase, outStride int64,
	inverse bool, lineIn, lineOut []T) error {

	if n == 1 {
		out[outBase] = in[inBase]
		return nil
	}
	for i := int64(0); i < n; i++ {
		lineIn[i] = in[inBase+i*inStride]
	}

	plan := plans[n]
	var err error
	if inverse {
		err = plan.Inverse(lineOut[:n], lineIn[:n])
	} else {
		err = plan.Forward(lineOut[:n], lineIn[:n])
	}
	if err != nil {
		return fmt.Errorf("engine: length-%d line transform: %w", n, err)
	}

	for i := int64(0); i < n; i++ {
		out[outBase+i*outStride] = lineOut[i]
	}
	return nil
}

// executeComplex runs a complex-to-complex transform. The last dimension
// reads from src and writes to dst; the remaining passes run in place on
// dst.
func executeComplex[T algofft.Complex](d *Descriptor, plans map[int64]*algofft.Plan[T],
	dst, src []T, inverse bool) error {

	nd := len(d.sizes)
	lineIn, lineOut := lineScratch[T](maxExtent(d.sizes))

	for b := int64(0); b < d.batch; b++ {
		srcBase := b * d.idist
		dstBase := b * d.odist

		for pass := nd - 1; pass >= 0; pass-- {
			n := d.sizes[pass]
			in, inStrides, inBase := dst, d.ostrides, dstBase
			if pass == nd-1 {
				in, inStrides, inBase = src, d.istrides, srcBase
			}
			err := eachLine(d.sizes, pass, inStrides, d.ostrides, func(aOff, bOff int64) error {
				return transformLine(plans, n,
					in, inBase+aOff, inStrides[pass],
					dst, dstBase+bOff, d.ostrides[pass],
					inverse, lineIn, lineOut)
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// executeRealToComplex runs the forward real transform. The last dimension
// produces the onesided n/2+1 bins from the real source; the remaining
// dimensions are complex passes in place on dst over the halved index space.
func executeRealToComplex[T algofft.Complex, F algofft.Float](d *Descriptor,
	plans map[int64]*algofft.Plan[T], r2cFast func([]T, []F),
	dst []T, src []F) error {

	nd := len(d.sizes)
	last := nd - 1
	n := d.sizes[last]
	h := n/2 + 1

	halfSizes := append([]int64(nil), d.sizes...)
	halfSizes[last] = h

	lineIn, lineOut := lineScratch[T](maxExtent(d.sizes))
	realLine := make([]F, n)

	for b := int64(0); b < d.batch; b++ {
		srcBase := b * d.idist
		dstBase := b * d.odist

		err := eachLine(halfSizes, last, d.istrides, d.ostrides, func(aOff, bOff int64) error {
			for i := int64(0); i < n; i++ {
				realLine[i] = src[srcBase+aOff+i*d.istrides[last]]
			}
			half := lineOut[:h]
			switch {
			case n == 1:
				half[0] = complexOf[T](float64(realLine[0]), 0)
			case r2cFast != nil:
				r2cFast(half, realLine)
			default:
				for i := int64(0); i < n; i++ {
					lineIn[i] = complexOf[T](float64(realLine[i]), 0)
				}
				if err := plans[n].Forward(lineOut[:n], lineIn[:n]); err != nil {
					return fmt.Errorf("engine: length-%d real line transform: %w", n, err)
				}
			}
			for i := int64(0); i < h; i++ {
				dst[dstBase+bOff+i*d.ostrides[last]] = half[i]
			}
			return nil
		})
		if err != nil {
			return err
		}

		for pass := last - 1; pass >= 0; pass-- {
			err := eachLine(halfSizes, pass, d.ostrides, d.ostrides, func(aOff, bOff int64) error {
				return transformLine(plans, d.sizes[pass],
					dst, dstBase+aOff, d.ostrides[pass],
					dst, dstBase+bOff, d.ostrides[pass],
					false, lineIn, lineOut)
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// executeComplexToReal runs the backward real transform. The onesided
// spectrum is copied into contiguous scratch, the leading dimensions are
// inverse complex passes there, and the last dimension reconstructs each
// real line. Only the first n/2+1 bins of the source are read, so a full
// conjugate-even spectrum works too.
func executeComplexToReal[T algofft.Complex, F algofft.Float](d *Descriptor,
	plans map[int64]*algofft.Plan[T], c2rFast func([]F, []T),
	dst []F, src []T) error {

	nd := len(d.sizes)
	last := nd - 1
	n := d.sizes[last]
	h := n/2 + 1

	halfSizes := append([]int64(nil), d.sizes...)
	halfSizes[last] = h
	halfStrides := tensor.ContiguousStrides(halfSizes)
	halfNumel := int64(1)
	for _, s := range halfSizes {
		halfNumel *= s
	}

	scratch := make([]T, halfNumel)
	lineIn, lineOut := lineScratch[T](maxExtent(d.sizes))
	realLine := make([]F, n)

	for b := int64(0); b < d.batch; b++ {
		srcBase := b * d.idist
		dstBase := b * d.odist

		err := eachLine(halfSizes, last, d.istrides, halfStrides, func(aOff, bOff int64) error {
			for i := int64(0); i < h; i++ {
				scratch[bOff+i*halfStrides[last]] = src[srcBase+aOff+i*d.istrides[last]]
			}
			return nil
		})
		if err != nil {
			return err
		}

		for pass := 0; pass < last; pass++ {
			err := eachLine(halfSizes, pass, halfStrides, halfStrides, func(aOff, bOff int64) error {
				return transformLine(plans, d.sizes[pass],
					scratch, aOff, halfStrides[pass],
					scratch, bOff, halfStrides[pass],
					true, lineIn, lineOut)
			})
			if err != nil {
				return err
			}
		}

		// halfStrides[last] is 1, so each line is a contiguous scratch run.
		err = eachLine(halfSizes, last, halfStrides, d.ostrides, func(aOff, bOff int64) error {
			half := scratch[aOff : aOff+h]
			switch {
			case n == 1:
				realLine[0] = F(realOf(half[0]))
			case c2rFast != nil:
				c2rFast(realLine, half)
			default:
				copy(lineIn[:h], half)
				for i := h; i < n; i++ {
					lineIn[i] = conjOf(half[n-i])
				}
				if err := plans[n].Inverse(lineOut[:n], lineIn[:n]); err != nil {
					return fmt.Errorf("engine: length-%d real line transform: %w", n, err)
				}
				for i := int64(0); i < n; i++ {
					realLine[i] = F(realOf(lineOut[i]))
				}
			}
			for i := int64(0); i < n; i++ {
				dst[dstBase+bOff+i*d.ostrides[last]] = realLine[i]
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func maxExtent(sizes []int64) int64 {
	m := int64(1)
	for _, s := range sizes {
		if s > m {
			m = s
		}
	}
	return m
}

func lineScratch[T algofft.Complex](n int64) (in, out []T) {
	return make([]T, n), make([]T, n)
}

func complexView[T algofft.Complex](buf *tensor.Buffer) ([]T, error) {
	var zero T
	switch any(zero).(type) {
	case complex128:
		v, err := buf.Complex128View()
		return any(v).([]T), err
	default:
		v, err := buf.Complex64View()
		return any(v).([]T), err
	}
}

func realView[F algofft.Float](buf *tensor.Buffer) []F {
	var zero F
	switch any(zero).(type) {
	case float64:
		return any(buf.Float64s()).([]F)
	default:
		return any(buf.Float32s()).([]F)
	}
}

func complexOf[T algofft.Complex](re, im float64) T {
	var zero T
	switch any(zero).(type) {
	case complex64:
		return T(any(complex(float32(re), float32(im))).(complex64))
	default:
		return T(any(complex(re, im)).(complex128))
	}
}

func realOf[T algofft.Complex](v T) float64 {
	switch c := any(v).(type) {
	case complex64:
		return float64(real(c))
	default:
		return real(any(v).(complex128))
	}
}

func conjOf[T algofft.Complex](v T) T {
	switch c := any(v).(type) {
	case complex64:
		return any(complex(real(c), -imag(c))).(T)
	default:
		c128 := any(v).(complex128)
		return any(complex(real(c128), -imag(c128))).(T)
	}
}

// scaleBuffer multiplies the entire destination storage by s. Scaling the
// whole backing slice is safe: bins the transform did not write are either
// zero or overwritten by the symmetry fill afterwards.
func scaleBuffer(buf *tensor.Buffer, s float64) {
	switch buf.Kind() {
	case tensor.Float64:
		vecmath.ScaleBlockInPlace(buf.Float64s(), s)
	case tensor.Float32:
		data := buf.Float32s()
		f := float32(s)
		for i := range data {
			data[i] *= f
		}
	}
}
