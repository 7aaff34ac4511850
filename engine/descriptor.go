package engine

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-ndfft/tensor"
)

// MaxLength is the largest per-dimension extent or stride the engine
// accepts. The backend's plan model indexes with 32-bit-safe lengths, so
// callers addressing larger tensors must preflight against this limit.
const MaxLength = math.MaxInt32

// Precision selects the floating-point width of a transform.
type Precision int

const (
	// Single is float32/complex64 precision.
	Single Precision = iota

	// Double is float64/complex128 precision.
	Double
)

// Domain selects the forward-domain signal type of a transform.
type Domain int

const (
	// DomainReal configures a real-to-complex forward transform (and
	// complex-to-real backward). The complex side uses the interleaved
	// conjugate-even convention: n/2+1 bins along the last dimension.
	DomainReal Domain = iota

	// DomainComplex configures a complex-to-complex transform.
	DomainComplex
)

// Errors returned by descriptor operations.
var (
	ErrInvalidSizes      = errors.New("engine: signal sizes must be in [1, MaxLength]")
	ErrInvalidConfig     = errors.New("engine: invalid descriptor configuration")
	ErrNotConfigured     = errors.New("engine: strides not configured before commit")
	ErrNotCommitted      = errors.New("engine: descriptor not committed")
	ErrClosed            = errors.New("engine: descriptor is closed")
	ErrPrecisionMismatch = errors.New("engine: buffer kind does not match descriptor precision")
)

// Descriptor holds one transform configuration. Zero values are not usable;
// construct with New. The caller owns the descriptor for exactly one
// transform request and must Close it on every exit path.
type Descriptor struct {
	prec   Precision
	domain Domain
	sizes  []int64

	batch        int64
	idist, odist int64
	istrides     []int64
	ostrides     []int64
	fwdScale     float64
	bwdScale     float64

	committed bool
	closed    bool

	plans64 map[int64]*algofft.Plan[complex128]
	plans32 map[int64]*algofft.Plan[complex64]

	// Fast-path real plans for power-of-two last dimensions. Left nil when
	// the backend has no specialized plan for the size.
	r2c64 func(dst []complex128, src []float64)
	c2r64 func(dst []float64, src []complex128)
	r2c32 func(dst []complex64, src []float32)
	c2r32 func(dst []float32, src []complex64)
}

// New creates a descriptor for a transform over the given signal sizes,
// ordered outermost first. Distances and strides must be configured before
// Commit; batch defaults to 1 and scale factors to identity.
func New(prec Precision, domain Domain, sizes []int64) (*Descriptor, error) {
	if prec != Single && prec != Double {
		return nil, fmt.Errorf("%w: precision %d", ErrInvalidConfig, prec)
	}
	if domain != DomainReal && domain != DomainComplex {
		return nil, fmt.Errorf("%w: domain %d", ErrInvalidConfig, domain)
	}
	if len(sizes) == 0 {
		return nil, ErrInvalidSizes
	}
	for _, s := range sizes {
		if s < 1 || s > MaxLength {
			return nil, fmt.Errorf("%w: got %v", ErrInvalidSizes, sizes)
		}
	}

	return &Descriptor{
		prec:     prec,
		domain:   domain,
		sizes:    append([]int64(nil), sizes...),
		batch:    1,
		fwdScale: 1,
		bwdScale: 1,
	}, nil
}

// NumDims returns the number of transformed dimensions.
func (d *Descriptor) NumDims() int { return len(d.sizes) }

// SetBatch configures the number of batched transforms.
func (d *Descriptor) SetBatch(n int64) error {
	if d.closed {
		return ErrClosed
	}
	if n < 1 {
		return fmt.Errorf("%w: batch %d", ErrInvalidConfig, n)
	}
	d.batch = n
	return nil
}

// SetInputDistance configures the element distance between consecutive
// batch items of the execute-call source, in the source side's element
// units (complex elements for a complex side, scalars for a real side).
func (d *Descriptor) SetInputDistance(dist int64) error {
	if d.closed {
		return ErrClosed
	}
	d.idist = dist
	return nil
}

// SetOutputDistance configures the element distance between consecutive
// batch items of the execute-call destination.
func (d *Descriptor) SetOutputDistance(dist int64) error {
	if d.closed {
		return ErrClosed
	}
	d.odist = dist
	return nil
}

// SetInputStrides configures the per-dimension steps of the execute-call
// source, one per signal dimension, in the source side's element units.
func (d *Descriptor) SetInputStrides(strides []int64) error {
	if d.closed {
		return ErrClosed
	}
	if len(strides) != len(d.sizes) {
		return fmt.Errorf("%w: %d strides for %d dims", ErrInvalidConfig, len(strides), len(d.sizes))
	}
	d.istrides = append([]int64(nil), strides...)
	return nil
}

// SetOutputStrides configures the per-dimension steps of the execute-call
// destination.
func (d *Descriptor) SetOutputStrides(strides []int64) error {
	if d.closed {
		return ErrClosed
	}
	if len(strides) != len(d.sizes) {
		return fmt.Errorf("%w: %d strides for %d dims", ErrInvalidConfig, len(strides), len(d.sizes))
	}
	d.ostrides = append([]int64(nil), strides...)
	return nil
}

// SetForwardScale configures a factor applied to forward results.
func (d *Descriptor) SetForwardScale(s float64) error {
	if d.closed {
		return ErrClosed
	}
	d.fwdScale = s
	return nil
}

// SetBackwardScale configures a factor applied to backward results. The
// backward transform is unnormalized; without a scale a forward/backward
// round trip grows by the signal element count.
func (d *Descriptor) SetBackwardScale(s float64) error {
	if d.closed {
		return ErrClosed
	}
	d.bwdScale = s
	return nil
}

// Commit finalizes the configuration and creates the backend plans. It must
// be called before execution; calling it again after changing settings
// rebuilds the plans.
func (d *Descriptor) Commit() error {
	if d.closed {
		return ErrClosed
	}
	if d.istrides == nil || d.ostrides == nil {
		return ErrNotConfigured
	}

	nd := len(d.sizes)
	d.r2c64, d.c2r64 = nil, nil
	d.r2c32, d.c2r32 = nil, nil

	// Complex line plans: every dimension for the complex domain, all but
	// the last for the real domain. The last dimension of a real transform
	// prefers the backend's specialized real plan and falls back to a
	// complex plan when none is available for the size.
	complexDims := nd
	if d.domain == DomainReal {
		complexDims = nd - 1
	}

	lengths := map[int64]bool{}
	for i := 0; i < complexDims; i++ {
		if d.sizes[i] > 1 {
			lengths[d.sizes[i]] = true
		}
	}
	if d.domain == DomainReal {
		n := d.sizes[nd-1]
		if n > 1 && !d.initRealPlans(n) {
			lengths[n] = true
		}
	}

	switch d.prec {
	case Double:
		d.plans64 = make(map[int64]*algofft.Plan[complex128], len(lengths))
		for n := range lengths {
			plan, err := algofft.NewPlanT[complex128](int(n))
			if err != nil {
				return fmt.Errorf("engine: plan for length %d: %w", n, err)
			}
			d.plans64[n] = plan
		}
	case Single:
		d.plans32 = make(map[int64]*algofft.Plan[complex64], len(lengths))
		for n := range lengths {
			plan, err := algofft.NewPlanT[complex64](int(n))
			if err != nil {
				return fmt.Errorf("engine: plan for length %d: %w", n, err)
			}
			d.plans32[n] = plan
		}
	}

	d.committed = true
	return nil
}

// initRealPlans tries to bind the backend's specialized real plans for the
// last-dimension length n. Reports whether the fast path is available.
func (d *Descriptor) initRealPlans(n int64) bool {
	if n < 2 || n&(n-1) != 0 {
		return false
	}

	switch d.prec {
	case Double:
		rp, err := algofft.NewFastPlanReal64(int(n))
		if err != nil {
			return false
		}
		d.r2c64 = rp.Forward
		d.c2r64 = rp.Inverse
	case Single:
		rp, err := algofft.NewFastPlanReal32(int(n))
		if err != nil {
			return false
		}
		d.r2c32 = rp.Forward
		d.c2r32 = rp.Inverse
	}
	return true
}

// ComputeForward runs the forward transform from src into dst.
func (d *Descriptor) ComputeForward(dst, src *tensor.Buffer) error {
	return d.compute(dst, src, false)
}

// ComputeBackward runs the backward (inverse) transform from src into dst.
// The result is unnormalized unless a backward scale was configured.
func (d *Descriptor) ComputeBackward(dst, src *tensor.Buffer) error {
	return d.compute(dst, src, true)
}

// Close releases the descriptor's plans. It is idempotent; any use after
// Close fails with ErrClosed.
func (d *Descriptor) Close() error {
	d.closed = true
	d.committed = false
	d.plans64 = nil
	d.plans32 = nil
	d.r2c64, d.c2r64 = nil, nil
	d.r2c32, d.c2r32 = nil, nil
	return nil
}
