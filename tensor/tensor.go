package tensor

import (
	"errors"
	"fmt"
	"unsafe"
)

// Errors returned by buffer constructors and views.
var (
	ErrInvalidSizes     = errors.New("tensor: sizes must be positive")
	ErrLayoutMismatch   = errors.New("tensor: layout does not fit data length")
	ErrKindMismatch     = errors.New("tensor: wrong element kind for this operation")
	ErrStrideAlignment  = errors.New("tensor: byte stride is not a multiple of the element size")
	ErrOddComplexExtent = errors.New("tensor: scalar length must be even for a complex view")
)

// Kind identifies the scalar element type of a Buffer.
type Kind int

const (
	// Float32 is a 32-bit IEEE float element.
	Float32 Kind = iota

	// Float64 is a 64-bit IEEE float element.
	Float64
)

// Size returns the element size in bytes.
func (k Kind) Size() int {
	if k == Float32 {
		return 4
	}
	return 8
}

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Buffer is a strided view over flat scalar storage.
//
// Sizes and strides are expressed in scalar elements. Strides may describe
// permuted or padded layouts; they are assumed non-overlapping for writes.
type Buffer struct {
	kind    Kind
	f32     []float32
	f64     []float64
	sizes   []int64
	strides []int64
}

// New allocates a zero-filled contiguous (row-major) buffer.
func New(kind Kind, sizes []int64) (*Buffer, error) {
	n, err := checkSizes(sizes)
	if err != nil {
		return nil, err
	}

	b := &Buffer{
		kind:    kind,
		sizes:   append([]int64(nil), sizes...),
		strides: ContiguousStrides(sizes),
	}
	if kind == Float32 {
		b.f32 = make([]float32, n)
	} else {
		b.f64 = make([]float64, n)
	}
	return b, nil
}

// FromFloat64 wraps an existing float64 slice with an explicit layout.
// The data is not copied; mutations are visible both ways.
func FromFloat64(data []float64, sizes, strides []int64) (*Buffer, error) {
	if err := checkLayout(int64(len(data)), sizes, strides); err != nil {
		return nil, err
	}
	return &Buffer{
		kind:    Float64,
		f64:     data,
		sizes:   append([]int64(nil), sizes...),
		strides: append([]int64(nil), strides...),
	}, nil
}

// FromFloat32 wraps an existing float32 slice with an explicit layout.
// The data is not copied; mutations are visible both ways.
func FromFloat32(data []float32, sizes, strides []int64) (*Buffer, error) {
	if err := checkLayout(int64(len(data)), sizes, strides); err != nil {
		return nil, err
	}
	return &Buffer{
		kind:    Float32,
		f32:     data,
		sizes:   append([]int64(nil), sizes...),
		strides: append([]int64(nil), strides...),
	}, nil
}

// Kind returns the scalar element kind.
func (b *Buffer) Kind() Kind { return b.kind }

// NumDims returns the number of dimensions.
func (b *Buffer) NumDims() int { return len(b.sizes) }

// Size returns the extent of dimension d.
func (b *Buffer) Size(d int) int64 { return b.sizes[d] }

// Stride returns the step of dimension d in scalar elements.
func (b *Buffer) Stride(d int) int64 { return b.strides[d] }

// Sizes returns the extents of all dimensions. The slice is shared with the
// buffer and must not be modified.
func (b *Buffer) Sizes() []int64 { return b.sizes }

// Strides returns the per-dimension steps in scalar elements. The slice is
// shared with the buffer and must not be modified.
func (b *Buffer) Strides() []int64 { return b.strides }

// Numel returns the number of logical scalar elements.
func (b *Buffer) Numel() int64 {
	n := int64(1)
	for _, s := range b.sizes {
		n *= s
	}
	return n
}

// Float64s returns the backing slice of a Float64 buffer.
func (b *Buffer) Float64s() []float64 { return b.f64 }

// Float32s returns the backing slice of a Float32 buffer.
func (b *Buffer) Float32s() []float32 { return b.f32 }

// Complex128View reinterprets the backing float64 storage as complex128
// pairs. The scalar length must be even; pairs are interleaved re,im.
func (b *Buffer) Complex128View() ([]complex128, error) {
	if b.kind != Float64 {
		return nil, ErrKindMismatch
	}
	if len(b.f64)%2 != 0 {
		return nil, ErrOddComplexExtent
	}
	if len(b.f64) == 0 {
		return nil, nil
	}
	return unsafe.Slice((*complex128)(unsafe.Pointer(&b.f64[0])), len(b.f64)/2), nil
}

// Complex64View reinterprets the backing float32 storage as complex64 pairs.
func (b *Buffer) Complex64View() ([]complex64, error) {
	if b.kind != Float32 {
		return nil, ErrKindMismatch
	}
	if len(b.f32)%2 != 0 {
		return nil, ErrOddComplexExtent
	}
	if len(b.f32) == 0 {
		return nil, nil
	}
	return unsafe.Slice((*complex64)(unsafe.Pointer(&b.f32[0])), len(b.f32)/2), nil
}

// IsContiguous reports whether the layout is dense row-major.
func (b *Buffer) IsContiguous() bool {
	expect := int64(1)
	for d := len(b.sizes) - 1; d >= 0; d-- {
		if b.sizes[d] == 1 {
			continue
		}
		if b.strides[d] != expect {
			return false
		}
		expect *= b.sizes[d]
	}
	return true
}

// Contiguous returns a dense row-major buffer with the same logical content.
// The receiver is returned unchanged when it is already contiguous.
func (b *Buffer) Contiguous() *Buffer {
	if b.IsContiguous() {
		return b
	}

	out := &Buffer{
		kind:    b.kind,
		sizes:   append([]int64(nil), b.sizes...),
		strides: ContiguousStrides(b.sizes),
	}
	n := b.Numel()
	if b.kind == Float32 {
		out.f32 = make([]float32, n)
	} else {
		out.f64 = make([]float64, n)
	}

	if n == 0 {
		return out
	}

	// Odometer walk over the logical index space.
	idx := make([]int64, len(b.sizes))
	var srcOff int64
	for dst := int64(0); ; dst++ {
		if b.kind == Float32 {
			out.f32[dst] = b.f32[srcOff]
		} else {
			out.f64[dst] = b.f64[srcOff]
		}

		d := len(idx) - 1
		for ; d >= 0; d-- {
			idx[d]++
			srcOff += b.strides[d]
			if idx[d] < b.sizes[d] {
				break
			}
			srcOff -= b.strides[d] * b.sizes[d]
			idx[d] = 0
		}
		if d < 0 {
			return out
		}
	}
}

// Clone returns a deep copy preserving the layout.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		kind:    b.kind,
		sizes:   append([]int64(nil), b.sizes...),
		strides: append([]int64(nil), b.strides...),
	}
	if b.f32 != nil {
		out.f32 = append([]float32(nil), b.f32...)
	}
	if b.f64 != nil {
		out.f64 = append([]float64(nil), b.f64...)
	}
	return out
}

// ContiguousStrides returns dense row-major strides for the given sizes.
func ContiguousStrides(sizes []int64) []int64 {
	strides := make([]int64, len(sizes))
	acc := int64(1)
	for d := len(sizes) - 1; d >= 0; d-- {
		strides[d] = acc
		acc *= sizes[d]
	}
	return strides
}

// StridesFromBytes converts byte strides to element strides for the kind.
// A byte stride that is not a multiple of the element size indicates a
// caller contract violation and yields ErrStrideAlignment.
func StridesFromBytes(kind Kind, byteStrides []int64) ([]int64, error) {
	size := int64(kind.Size())
	out := make([]int64, len(byteStrides))
	for i, s := range byteStrides {
		if s%size != 0 {
			return nil, fmt.Errorf("%w: stride %d at dim %d, element size %d",
				ErrStrideAlignment, s, i, size)
		}
		out[i] = s / size
	}
	return out, nil
}

func checkSizes(sizes []int64) (int64, error) {
	if len(sizes) == 0 {
		return 0, ErrInvalidSizes
	}
	n := int64(1)
	for _, s := range sizes {
		if s <= 0 {
			return 0, fmt.Errorf("%w: got %v", ErrInvalidSizes, sizes)
		}
		n *= s
	}
	return n, nil
}

func checkLayout(dataLen int64, sizes, strides []int64) error {
	if _, err := checkSizes(sizes); err != nil {
		return err
	}
	if len(strides) != len(sizes) {
		return fmt.Errorf("%w: %d strides for %d sizes", ErrLayoutMismatch, len(strides), len(sizes))
	}
	// The largest reachable offset must fit in the data.
	maxOff := int64(0)
	for d := range sizes {
		if strides[d] < 0 {
			return fmt.Errorf("%w: negative stride %d at dim %d", ErrLayoutMismatch, strides[d], d)
		}
		maxOff += (sizes[d] - 1) * strides[d]
	}
	if maxOff >= dataLen {
		return fmt.Errorf("%w: max offset %d, data length %d", ErrLayoutMismatch, maxOff, dataLen)
	}
	return nil
}
