package hermitian

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-ndfft/hermitian/internal/arch/registry"
	"github.com/cwbudde/algo-ndfft/internal/cpu"
	"github.com/cwbudde/algo-ndfft/internal/parallel"
	"github.com/cwbudde/algo-ndfft/tensor"
)

// Errors returned by the fill entry points.
var (
	ErrShapeMismatch  = errors.New("hermitian: sizes and strides length mismatch")
	ErrInvalidSize    = errors.New("hermitian: sizes must be positive")
	ErrInvalidDim     = errors.New("hermitian: dimension index out of range")
	ErrOutOfRange     = errors.New("hermitian: layout reaches outside the buffer")
	ErrNotComplexPair = errors.New("hermitian: buffer is not an interleaved complex-pair tensor")
	ErrUnalignedPair  = errors.New("hermitian: stride does not preserve real/imaginary pair alignment")
	ErrNoKernel       = errors.New("hermitian: no fill kernel registered")
)

// grainSize is the minimum number of half-space elements per parallel
// chunk; smaller workloads run serially.
const grainSize = 32 * 1024

var (
	selectOnce sync.Once
	selected   *registry.OpEntry
)

func kernel() *registry.OpEntry {
	selectOnce.Do(func() {
		selected = registry.Global.Lookup(cpu.DetectFeatures())
	})
	return selected
}

// FillSymmetry writes, for every coordinate of the half index space spanned
// by sizes, the conjugate of in at that coordinate into out at the mirrored
// coordinate. Dimension 0 is the fastest-varying dimension. For each
// dimension listed in mirrorDims, coordinate i is reflected to size-i
// (coordinate 0 stays fixed); all other dimensions copy straight through.
//
// Strides are in complex elements and may be negative for out; inBase and
// outBase locate coordinate zero within the slices. in and out may alias,
// as they do when expanding a half spectrum in place. Size-1 dimensions are
// never mirrored regardless of mirrorDims.
//
// The half index space is split into contiguous linear partitions processed
// concurrently; distinct partitions never write the same destination
// element, so the fill is race-free without locking.
func FillSymmetry[T algofft.Complex](sizes []int64, mirrorDims []int,
	in []T, inBase int64, inStrides []int64,
	out []T, outBase int64, outStrides []int64) error {

	ndim := len(sizes)
	if ndim == 0 || len(inStrides) != ndim || len(outStrides) != ndim {
		return ErrShapeMismatch
	}
	numel := int64(1)
	for _, s := range sizes {
		if s <= 0 {
			return fmt.Errorf("%w: got %v", ErrInvalidSize, sizes)
		}
		numel *= s
	}

	mirrored := make([]bool, ndim)
	for _, d := range mirrorDims {
		if d < 0 || d >= ndim {
			return fmt.Errorf("%w: %d with %d dims", ErrInvalidDim, d, ndim)
		}
		// A size-1 dimension has only the self-mirrored coordinate 0.
		if sizes[d] > 1 {
			mirrored[d] = true
		}
	}

	if err := checkReach(len(in), inBase, sizes, inStrides); err != nil {
		return fmt.Errorf("input %w", err)
	}
	if err := checkReach(len(out), outBase, sizes, outStrides); err != nil {
		return fmt.Errorf("output %w", err)
	}

	ent := kernel()
	if ent == nil {
		return ErrNoKernel
	}

	switch src := any(in).(type) {
	case []complex128:
		dst := any(out).([]complex128)
		parallel.For(0, numel, grainSize, func(begin, end int64) {
			ent.Fill64(begin, end, sizes, mirrored, inStrides, src, inBase, outStrides, dst, outBase)
		})
	case []complex64:
		dst := any(out).([]complex64)
		parallel.For(0, numel, grainSize, func(begin, end int64) {
			ent.Fill32(begin, end, sizes, mirrored, inStrides, src, inBase, outStrides, dst, outBase)
		})
	default:
		return fmt.Errorf("hermitian: unsupported element type %T", in)
	}
	return nil
}

// checkReach verifies that every offset the strided walk can touch stays
// within [0, dataLen). Mirrored and unmirrored dimensions reach the same
// extremes, so one bound covers both.
func checkReach(dataLen int, base int64, sizes, strides []int64) error {
	lo, hi := base, base
	for d := range sizes {
		span := (sizes[d] - 1) * strides[d]
		if span < 0 {
			lo += span
		} else {
			hi += span
		}
	}
	if lo < 0 || hi >= int64(dataLen) {
		return fmt.Errorf("%w: offsets [%d, %d] with length %d", ErrOutOfRange, lo, hi, dataLen)
	}
	return nil
}

// Fill expands the onesided half spectrum held in buf in place across the
// given transformed dimensions (indices into the logical complex shape,
// ascending). buf must be an interleaved complex-pair tensor: scalar
// storage whose innermost dimension has extent 2 and stride 1. On return,
// every bin of the full spectrum along the last transformed dimension is
// populated; the first size/2+1 bins are assumed to already hold the
// engine's onesided output.
func Fill(buf *tensor.Buffer, dims []int) error {
	nd := buf.NumDims() - 1
	if nd < 1 || buf.Size(nd) != 2 || buf.Stride(nd) != 1 {
		return ErrNotComplexPair
	}
	if len(dims) == 0 {
		return fmt.Errorf("%w: no transformed dimensions", ErrInvalidDim)
	}
	for i, d := range dims {
		if d < 0 || d >= nd {
			return fmt.Errorf("%w: %d with %d complex dims", ErrInvalidDim, d, nd)
		}
		if i > 0 && d <= dims[i-1] {
			return fmt.Errorf("%w: dims must be strictly ascending", ErrInvalidDim)
		}
	}

	// Complex-element geometry of the logical shape.
	csizes := make([]int64, nd)
	cstrides := make([]int64, nd)
	for d := 0; d < nd; d++ {
		csizes[d] = buf.Size(d)
		if buf.Stride(d)%2 != 0 {
			return fmt.Errorf("%w: scalar stride %d at dim %d", ErrUnalignedPair, buf.Stride(d), d)
		}
		cstrides[d] = buf.Stride(d) / 2
	}

	lastDim := dims[len(dims)-1]
	n := csizes[lastDim]
	if n <= 2 {
		// Every bin is its own mirror (DC, and Nyquist when n is 2).
		return nil
	}

	// The last transformed dimension is mirrored by walking the destination
	// backward from the final bin while the source walks forward from bin 1:
	// bin n-i receives conj(bin i) for i in [1, (n-1)/2]. The remaining
	// transformed dimensions use the reflected-coordinate carry logic, and
	// untransformed dimensions batch straight through.
	type iterDim struct {
		size     int64
		inStride int64
		outStr   int64
		mirrored bool
	}
	iter := make([]iterDim, 0, nd)
	transformed := make([]bool, nd)
	for _, d := range dims {
		transformed[d] = true
	}
	for d := 0; d < nd; d++ {
		if d == lastDim {
			continue
		}
		iter = append(iter, iterDim{
			size:     csizes[d],
			inStride: cstrides[d],
			outStr:   cstrides[d],
			mirrored: transformed[d] && csizes[d] > 2,
		})
	}
	s := cstrides[lastDim]
	iter = append(iter, iterDim{
		size:     (n - 1) / 2,
		inStride: s,
		outStr:   -s,
	})
	inBase := s
	outBase := s * (n - 1)

	// Order by input stride so the innermost loop walks the densest
	// dimension.
	sort.Slice(iter, func(a, b int) bool { return iter[a].inStride < iter[b].inStride })

	sizes := make([]int64, len(iter))
	inStrides := make([]int64, len(iter))
	outStrides := make([]int64, len(iter))
	var mirrorDims []int
	for i, d := range iter {
		sizes[i] = d.size
		inStrides[i] = d.inStride
		outStrides[i] = d.outStr
		if d.mirrored {
			mirrorDims = append(mirrorDims, i)
		}
	}

	switch buf.Kind() {
	case tensor.Float64:
		data, err := buf.Complex128View()
		if err != nil {
			return err
		}
		return FillSymmetry(sizes, mirrorDims, data, inBase, inStrides, data, outBase, outStrides)
	case tensor.Float32:
		data, err := buf.Complex64View()
		if err != nil {
			return err
		}
		return FillSymmetry(sizes, mirrorDims, data, inBase, inStrides, data, outBase, outStrides)
	default:
		return tensor.ErrKindMismatch
	}
}
