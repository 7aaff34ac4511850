package ndfft

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-ndfft/engine"
	"github.com/cwbudde/algo-ndfft/hermitian"
	"github.com/cwbudde/algo-ndfft/tensor"
)

// Errors returned by Transform before the engine runs.
var (
	ErrUnsupportedKind = errors.New("ndfft: unsupported element kind")
	ErrSizeExceeded    = errors.New("ndfft: signal numel exceeds allowed range")
	ErrInvalidRequest  = errors.New("ndfft: invalid transform request")
)

// Normalization selects the scale factor applied to transform results.
type Normalization int

const (
	// NormNone applies no scaling. The backward transform is then
	// unnormalized: a forward/backward round trip grows by the product of
	// the signal sizes.
	NormNone Normalization = iota

	// NormByN scales by 1/N, N the product of the signal sizes.
	NormByN

	// NormByRootN scales by 1/sqrt(N), making the transform unitary.
	NormByRootN
)

// Options describes one transform request. It is consumed by a single
// Transform call and carries no state across calls.
type Options struct {
	// SignalNDim is the number of transformed dimensions, excluding the
	// batch dimension and any trailing complex pair dimension.
	SignalNDim int

	// ComplexInput and ComplexOutput mark which sides carry interleaved
	// complex pairs. Supported combinations: complex-to-complex in either
	// direction, real-to-complex forward, complex-to-real inverse.
	ComplexInput  bool
	ComplexOutput bool

	// Inverse selects the backward transform.
	Inverse bool

	Normalization Normalization

	// Onesided, for real-to-complex, leaves the output restricted to the
	// n/2+1 non-redundant bins along the last transformed dimension. When
	// false the full conjugate-symmetric spectrum is reconstructed.
	Onesided bool

	// OutputSizes is the full shape of the result, batch dimension first,
	// trailing 2 included when ComplexOutput.
	OutputSizes []int64
}

// Transform runs one batched N-dimensional FFT described by opts over in and
// returns a freshly allocated output buffer. The input is never modified;
// a layout-normalizing copy is taken internally when the input's complex
// pairs are not adjacent or a stride exceeds the engine's length limit but a
// contiguous copy would fit.
func Transform(in *tensor.Buffer, opts Options) (*tensor.Buffer, error) {
	return transform(in, opts, engine.MaxLength)
}

func transform(in *tensor.Buffer, opts Options, maxLength int64) (*tensor.Buffer, error) {
	nd := opts.SignalNDim
	if nd < 1 {
		return nil, fmt.Errorf("%w: signal ndim %d", ErrInvalidRequest, nd)
	}

	wantIn := 1 + nd
	if opts.ComplexInput {
		wantIn++
	}
	if in.NumDims() != wantIn {
		return nil, fmt.Errorf("%w: input has %d dims, want %d", ErrInvalidRequest, in.NumDims(), wantIn)
	}
	if opts.ComplexInput && in.Size(wantIn-1) != 2 {
		return nil, fmt.Errorf("%w: complex input needs a trailing pair dimension of extent 2", ErrInvalidRequest)
	}

	wantOut := 1 + nd
	if opts.ComplexOutput {
		wantOut++
	}
	if len(opts.OutputSizes) != wantOut {
		return nil, fmt.Errorf("%w: %d output sizes, want %d", ErrInvalidRequest, len(opts.OutputSizes), wantOut)
	}
	if opts.ComplexOutput && opts.OutputSizes[wantOut-1] != 2 {
		return nil, fmt.Errorf("%w: complex output needs a trailing pair dimension of extent 2", ErrInvalidRequest)
	}
	if opts.OutputSizes[0] != in.Size(0) {
		return nil, fmt.Errorf("%w: batch %d in, %d out", ErrInvalidRequest, in.Size(0), opts.OutputSizes[0])
	}

	var domain engine.Domain
	switch {
	case opts.ComplexInput && opts.ComplexOutput:
		domain = engine.DomainComplex
	case !opts.ComplexInput && opts.ComplexOutput && !opts.Inverse:
		domain = engine.DomainReal
	case opts.ComplexInput && !opts.ComplexOutput && opts.Inverse:
		domain = engine.DomainReal
	default:
		return nil, fmt.Errorf("%w: complexInput=%v complexOutput=%v inverse=%v",
			ErrInvalidRequest, opts.ComplexInput, opts.ComplexOutput, opts.Inverse)
	}

	// The logical signal sizes come from whichever side holds the full
	// extents: the output for complex-to-real (the input is the halved
	// spectrum), the input otherwise.
	signalSizes := make([]int64, nd)
	for i := 0; i < nd; i++ {
		if domain == engine.DomainReal && opts.Inverse {
			signalSizes[i] = opts.OutputSizes[1+i]
		} else {
			signalSizes[i] = in.Size(1 + i)
		}
		if signalSizes[i] < 1 {
			return nil, fmt.Errorf("%w: signal size %d at dim %d", ErrInvalidRequest, signalSizes[i], 1+i)
		}
	}
	if err := checkShapes(in, signalSizes, domain, opts); err != nil {
		return nil, err
	}

	input := in

	// Complex engines require the real/imaginary pair to stay adjacent.
	if opts.ComplexInput {
		needContiguous := input.Stride(input.NumDims()-1) != 1
		for i := 0; !needContiguous && i <= nd; i++ {
			needContiguous = input.Stride(i)%2 != 0
		}
		if needContiguous {
			input = input.Contiguous()
		}
	}

	// The engine indexes with a narrower length type than the host, so walk
	// the transformed dimensions from last to first checking extents and
	// strides. An input stride over the limit is rescued by a contiguous
	// copy when the accumulated element count stays representable.
	if maxLength < math.MaxInt64 {
		needContiguous := false
		inumel, onumel := int64(1), int64(1)
		for i := nd; i >= 0; i-- {
			isize := input.Size(i)
			osize := opts.OutputSizes[i]
			istride := input.Stride(i)
			if opts.ComplexInput {
				istride >>= 1
			}
			ostride := onumel
			if isize > maxLength || osize > maxLength || ostride > maxLength {
				return nil, fmt.Errorf("%w [1 ~ %d]", ErrSizeExceeded, maxLength)
			}
			if !needContiguous && istride > maxLength {
				needContiguous = true
			}
			if needContiguous && inumel > maxLength {
				return nil, fmt.Errorf("%w [1 ~ %d]", ErrSizeExceeded, maxLength)
			}
			inumel *= isize
			onumel *= osize
		}
		if needContiguous {
			input = input.Contiguous()
		}
	}

	var prec engine.Precision
	switch input.Kind() {
	case tensor.Float32:
		prec = engine.Single
	case tensor.Float64:
		prec = engine.Double
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKind, input.Kind())
	}

	output, err := tensor.New(input.Kind(), opts.OutputSizes)
	if err != nil {
		return nil, err
	}

	desc, err := engine.New(prec, domain, signalSizes)
	if err != nil {
		return nil, err
	}
	defer desc.Close()

	if err := desc.SetBatch(input.Size(0)); err != nil {
		return nil, err
	}

	idist := input.Stride(0)
	if opts.ComplexInput {
		idist >>= 1
	}
	odist := output.Stride(0)
	if opts.ComplexOutput {
		odist >>= 1
	}
	if err := desc.SetInputDistance(idist); err != nil {
		return nil, err
	}
	if err := desc.SetOutputDistance(odist); err != nil {
		return nil, err
	}

	istrides := make([]int64, nd)
	ostrides := make([]int64, nd)
	for i := 0; i < nd; i++ {
		istrides[i] = input.Stride(1 + i)
		if opts.ComplexInput {
			istrides[i] >>= 1
		}
		ostrides[i] = output.Stride(1 + i)
		if opts.ComplexOutput {
			ostrides[i] >>= 1
		}
	}
	if err := desc.SetInputStrides(istrides); err != nil {
		return nil, err
	}
	if err := desc.SetOutputStrides(ostrides); err != nil {
		return nil, err
	}

	if opts.Normalization != NormNone {
		signalNumel := int64(1)
		for _, s := range signalSizes {
			signalNumel *= s
		}
		var scale float64
		if opts.Normalization == NormByRootN {
			scale = 1 / math.Sqrt(float64(signalNumel))
		} else {
			scale = 1 / float64(signalNumel)
		}
		if prec == engine.Single {
			scale = float64(float32(scale))
		}
		if opts.Inverse {
			err = desc.SetBackwardScale(scale)
		} else {
			err = desc.SetForwardScale(scale)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := desc.Commit(); err != nil {
		return nil, err
	}
	if opts.Inverse {
		err = desc.ComputeBackward(output, input)
	} else {
		err = desc.ComputeForward(output, input)
	}
	if err != nil {
		return nil, err
	}

	if !opts.ComplexInput && opts.ComplexOutput && !opts.Onesided {
		dims := make([]int, nd)
		for i := range dims {
			dims[i] = 1 + i
		}
		if err := hermitian.Fill(output, dims); err != nil {
			return nil, err
		}
	}
	return output, nil
}

// checkShapes validates the per-dimension consistency between the input
// shape and the requested output shape.
func checkShapes(in *tensor.Buffer, signalSizes []int64, domain engine.Domain, opts Options) error {
	nd := opts.SignalNDim
	for i := 0; i < nd; i++ {
		n := signalSizes[i]
		insz := in.Size(1 + i)
		outsz := opts.OutputSizes[1+i]
		last := i == nd-1

		switch {
		case domain == engine.DomainComplex:
			if outsz != n {
				return fmt.Errorf("%w: output size %d at dim %d, want %d", ErrInvalidRequest, outsz, 1+i, n)
			}
		case !opts.Inverse: // real-to-complex
			want := n
			if last && opts.Onesided {
				want = n/2 + 1
			}
			if outsz != want {
				return fmt.Errorf("%w: output size %d at dim %d, want %d", ErrInvalidRequest, outsz, 1+i, want)
			}
		default: // complex-to-real
			if last {
				if insz != n/2+1 && insz != n {
					return fmt.Errorf("%w: input size %d at dim %d, want %d or %d", ErrInvalidRequest, insz, 1+i, n/2+1, n)
				}
			} else if insz != n {
				return fmt.Errorf("%w: input size %d at dim %d, want %d", ErrInvalidRequest, insz, 1+i, n)
			}
		}
	}
	return nil
}
