package engine

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-ndfft/internal/testutil"
	"github.com/cwbudde/algo-ndfft/tensor"
)

func complexBuffer(t *testing.T, sizes []int64, data []complex128) *tensor.Buffer {
	t.Helper()
	shape := append(append([]int64(nil), sizes...), 2)
	buf, err := tensor.New(tensor.Float64, shape)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	view, err := buf.Complex128View()
	if err != nil {
		t.Fatalf("Complex128View: %v", err)
	}
	copy(view, data)
	return buf
}

func complexData(t *testing.T, buf *tensor.Buffer) []complex128 {
	t.Helper()
	view, err := buf.Complex128View()
	if err != nil {
		t.Fatalf("Complex128View: %v", err)
	}
	return view
}

func newCommitted(t *testing.T, prec Precision, domain Domain, sizes []int64,
	batch, idist, odist int64, istrides, ostrides []int64) *Descriptor {
	t.Helper()
	desc, err := New(prec, domain, sizes)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := desc.SetBatch(batch); err != nil {
		t.Fatalf("SetBatch: %v", err)
	}
	if err := desc.SetInputDistance(idist); err != nil {
		t.Fatalf("SetInputDistance: %v", err)
	}
	if err := desc.SetOutputDistance(odist); err != nil {
		t.Fatalf("SetOutputDistance: %v", err)
	}
	if err := desc.SetInputStrides(istrides); err != nil {
		t.Fatalf("SetInputStrides: %v", err)
	}
	if err := desc.SetOutputStrides(ostrides); err != nil {
		t.Fatalf("SetOutputStrides: %v", err)
	}
	if err := desc.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return desc
}

func TestForward1DMatchesNaiveDFT(t *testing.T) {
	in := testutil.DeterministicComplexNoise(1, 1, 5)
	src := complexBuffer(t, []int64{5}, in)
	dst := complexBuffer(t, []int64{5}, nil)

	desc := newCommitted(t, Double, DomainComplex, []int64{5}, 1, 5, 5, []int64{1}, []int64{1})
	defer desc.Close()

	if err := desc.ComputeForward(dst, src); err != nil {
		t.Fatalf("ComputeForward: %v", err)
	}
	testutil.RequireComplexNearlyEqual(t, complexData(t, dst), testutil.NaiveDFT(in), 1e-10)
}

func TestBackwardIsUnnormalized(t *testing.T) {
	in := testutil.DeterministicComplexNoise(2, 1, 8)
	src := complexBuffer(t, []int64{8}, in)
	mid := complexBuffer(t, []int64{8}, nil)
	out := complexBuffer(t, []int64{8}, nil)

	desc := newCommitted(t, Double, DomainComplex, []int64{8}, 1, 8, 8, []int64{1}, []int64{1})
	defer desc.Close()

	if err := desc.ComputeForward(mid, src); err != nil {
		t.Fatalf("ComputeForward: %v", err)
	}
	if err := desc.ComputeBackward(out, mid); err != nil {
		t.Fatalf("ComputeBackward: %v", err)
	}

	// Raw round trip grows by N.
	want := make([]complex128, len(in))
	for i, v := range in {
		want[i] = v * 8
	}
	testutil.RequireComplexNearlyEqual(t, complexData(t, out), want, 1e-9)
}

func TestBackwardScaleNormalizes(t *testing.T) {
	in := testutil.DeterministicComplexNoise(3, 1, 6)
	src := complexBuffer(t, []int64{6}, in)
	mid := complexBuffer(t, []int64{6}, nil)
	out := complexBuffer(t, []int64{6}, nil)

	fwd := newCommitted(t, Double, DomainComplex, []int64{6}, 1, 6, 6, []int64{1}, []int64{1})
	defer fwd.Close()
	if err := fwd.ComputeForward(mid, src); err != nil {
		t.Fatalf("ComputeForward: %v", err)
	}

	bwd := newCommitted(t, Double, DomainComplex, []int64{6}, 1, 6, 6, []int64{1}, []int64{1})
	defer bwd.Close()
	if err := bwd.SetBackwardScale(1.0 / 6); err != nil {
		t.Fatalf("SetBackwardScale: %v", err)
	}
	if err := bwd.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := bwd.ComputeBackward(out, mid); err != nil {
		t.Fatalf("ComputeBackward: %v", err)
	}
	testutil.RequireComplexNearlyEqual(t, complexData(t, out), in, 1e-10)
}

func TestForward2DBatched(t *testing.T) {
	sizes := []int64{3, 4}
	a := testutil.DeterministicComplexNoise(4, 1, 12)
	b := testutil.DeterministicComplexNoise(5, 1, 12)

	src := complexBuffer(t, []int64{2, 3, 4}, append(append([]complex128(nil), a...), b...))
	dst := complexBuffer(t, []int64{2, 3, 4}, nil)

	desc := newCommitted(t, Double, DomainComplex, sizes, 2, 12, 12, []int64{4, 1}, []int64{4, 1})
	defer desc.Close()
	if err := desc.ComputeForward(dst, src); err != nil {
		t.Fatalf("ComputeForward: %v", err)
	}

	got := complexData(t, dst)
	testutil.RequireComplexNearlyEqual(t, got[:12], testutil.NaiveDFTND(a, sizes), 1e-10)
	testutil.RequireComplexNearlyEqual(t, got[12:], testutil.NaiveDFTND(b, sizes), 1e-10)
}

func TestRealForwardOnesidedPow2(t *testing.T) {
	signal := testutil.DeterministicNoise(6, 1, 8)
	src, err := tensor.FromFloat64(signal, []int64{8}, []int64{1})
	if err != nil {
		t.Fatalf("FromFloat64: %v", err)
	}
	dst := complexBuffer(t, []int64{5}, nil)

	desc := newCommitted(t, Double, DomainReal, []int64{8}, 1, 8, 5, []int64{1}, []int64{1})
	defer desc.Close()
	if err := desc.ComputeForward(dst, src); err != nil {
		t.Fatalf("ComputeForward: %v", err)
	}

	line := make([]complex128, 8)
	for i, v := range signal {
		line[i] = complex(v, 0)
	}
	want := testutil.NaiveDFT(line)[:5]
	testutil.RequireComplexNearlyEqual(t, complexData(t, dst), want, 1e-10)
}

func TestRealForwardOnesidedNonPow2(t *testing.T) {
	signal := testutil.DeterministicNoise(7, 1, 6)
	src, err := tensor.FromFloat64(signal, []int64{6}, []int64{1})
	if err != nil {
		t.Fatalf("FromFloat64: %v", err)
	}
	dst := complexBuffer(t, []int64{4}, nil)

	desc := newCommitted(t, Double, DomainReal, []int64{6}, 1, 6, 4, []int64{1}, []int64{1})
	defer desc.Close()
	if err := desc.ComputeForward(dst, src); err != nil {
		t.Fatalf("ComputeForward: %v", err)
	}

	line := make([]complex128, 6)
	for i, v := range signal {
		line[i] = complex(v, 0)
	}
	want := testutil.NaiveDFT(line)[:4]
	testutil.RequireComplexNearlyEqual(t, complexData(t, dst), want, 1e-10)
}

func TestRealForward2D(t *testing.T) {
	sizes := []int64{3, 4}
	signal := testutil.DeterministicNoise(8, 1, 12)
	src, err := tensor.FromFloat64(signal, sizes, []int64{4, 1})
	if err != nil {
		t.Fatalf("FromFloat64: %v", err)
	}
	dst := complexBuffer(t, []int64{3, 3}, nil)

	desc := newCommitted(t, Double, DomainReal, sizes, 1, 12, 9, []int64{4, 1}, []int64{3, 1})
	defer desc.Close()
	if err := desc.ComputeForward(dst, src); err != nil {
		t.Fatalf("ComputeForward: %v", err)
	}

	line := make([]complex128, 12)
	for i, v := range signal {
		line[i] = complex(v, 0)
	}
	full := testutil.NaiveDFTND(line, sizes)
	got := complexData(t, dst)
	for r := 0; r < 3; r++ {
		for k := 0; k < 3; k++ {
			d := got[r*3+k] - full[r*4+k]
			if real(d)*real(d)+imag(d)*imag(d) > 1e-20 {
				t.Fatalf("bin (%d,%d): got %v, want %v", r, k, got[r*3+k], full[r*4+k])
			}
		}
	}
}

func TestRealRoundTrip(t *testing.T) {
	for _, n := range []int64{6, 8} {
		signal := testutil.DeterministicNoise(n, 1, int(n))
		src, err := tensor.FromFloat64(signal, []int64{n}, []int64{1})
		if err != nil {
			t.Fatalf("FromFloat64: %v", err)
		}
		h := n/2 + 1
		spec := complexBuffer(t, []int64{h}, nil)

		fwd := newCommitted(t, Double, DomainReal, []int64{n}, 1, n, h, []int64{1}, []int64{1})
		if err := fwd.ComputeForward(spec, src); err != nil {
			t.Fatalf("n=%d ComputeForward: %v", n, err)
		}
		fwd.Close()

		back, err := tensor.New(tensor.Float64, []int64{n})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		bwd, err := New(Double, DomainReal, []int64{n})
		if err != nil {
			t.Fatalf("New descriptor: %v", err)
		}
		if err := bwd.SetInputStrides([]int64{1}); err != nil {
			t.Fatalf("SetInputStrides: %v", err)
		}
		if err := bwd.SetOutputStrides([]int64{1}); err != nil {
			t.Fatalf("SetOutputStrides: %v", err)
		}
		if err := bwd.SetBackwardScale(1 / float64(n)); err != nil {
			t.Fatalf("SetBackwardScale: %v", err)
		}
		if err := bwd.Commit(); err != nil {
			t.Fatalf("Commit: %v", err)
		}
		err = bwd.ComputeBackward(back, spec)
		bwd.Close()
		if err != nil {
			t.Fatalf("n=%d ComputeBackward: %v", n, err)
		}

		testutil.RequireSliceNearlyEqual(t, back.Float64s(), signal, 1e-10)
	}
}

func TestSinglePrecisionForward(t *testing.T) {
	in := testutil.DeterministicComplexNoise(9, 1, 4)
	shape := []int64{4, 2}
	src, err := tensor.New(tensor.Float32, shape)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	srcView, err := src.Complex64View()
	if err != nil {
		t.Fatalf("Complex64View: %v", err)
	}
	for i, v := range in {
		srcView[i] = complex64(v)
	}
	dst, err := tensor.New(tensor.Float32, shape)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	desc := newCommitted(t, Single, DomainComplex, []int64{4}, 1, 4, 4, []int64{1}, []int64{1})
	defer desc.Close()
	if err := desc.ComputeForward(dst, src); err != nil {
		t.Fatalf("ComputeForward: %v", err)
	}

	want := testutil.NaiveDFT(in)
	dstView, err := dst.Complex64View()
	if err != nil {
		t.Fatalf("Complex64View: %v", err)
	}
	got := make([]complex128, len(dstView))
	for i, v := range dstView {
		got[i] = complex128(v)
	}
	testutil.RequireComplexNearlyEqual(t, got, want, 1e-4)
}

func TestDescriptorLifecycle(t *testing.T) {
	if _, err := New(Double, DomainComplex, nil); !errors.Is(err, ErrInvalidSizes) {
		t.Fatalf("err = %v, want ErrInvalidSizes", err)
	}
	if _, err := New(Double, DomainComplex, []int64{0}); !errors.Is(err, ErrInvalidSizes) {
		t.Fatalf("err = %v, want ErrInvalidSizes", err)
	}

	desc, err := New(Double, DomainComplex, []int64{4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := desc.SetBatch(0); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("SetBatch(0): err = %v, want ErrInvalidConfig", err)
	}
	if err := desc.SetInputStrides([]int64{1, 1}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("stride count: err = %v, want ErrInvalidConfig", err)
	}
	if err := desc.Commit(); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("Commit: err = %v, want ErrNotConfigured", err)
	}

	buf := complexBuffer(t, []int64{4}, nil)
	if err := desc.ComputeForward(buf, buf); !errors.Is(err, ErrNotCommitted) {
		t.Fatalf("uncommitted: err = %v, want ErrNotCommitted", err)
	}

	if err := desc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := desc.SetBatch(2); !errors.Is(err, ErrClosed) {
		t.Fatalf("after close: err = %v, want ErrClosed", err)
	}
	if err := desc.Commit(); !errors.Is(err, ErrClosed) {
		t.Fatalf("after close: err = %v, want ErrClosed", err)
	}
}

func TestPrecisionMismatch(t *testing.T) {
	desc := newCommitted(t, Double, DomainComplex, []int64{4}, 1, 4, 4, []int64{1}, []int64{1})
	defer desc.Close()

	f32, err := tensor.New(tensor.Float32, []int64{4, 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := desc.ComputeForward(f32, f32); !errors.Is(err, ErrPrecisionMismatch) {
		t.Fatalf("err = %v, want ErrPrecisionMismatch", err)
	}
}
