package testutil

import (
	"math/cmplx"
	"testing"
)

func TestNaiveDFTImpulse(t *testing.T) {
	// An impulse at position 0 transforms to an all-ones spectrum.
	in := []complex128{1, 0, 0, 0}
	out := NaiveDFT(in)
	for k, v := range out {
		if cmplx.Abs(v-1) > 1e-12 {
			t.Fatalf("bin %d: got %v, want 1", k, v)
		}
	}
}

func TestNaiveDFTRoundTrip(t *testing.T) {
	in := DeterministicComplexNoise(7, 1, 9)
	spec := NaiveDFT(in)
	back := NaiveIDFT(spec)
	n := float64(len(in))
	for i := range back {
		if cmplx.Abs(back[i]/complex(n, 0)-in[i]) > 1e-10 {
			t.Fatalf("index %d: got %v, want %v", i, back[i]/complex(n, 0), in[i])
		}
	}
}

func TestNaiveDFTNDMatchesSeparable1D(t *testing.T) {
	// A 2-D transform equals transforming rows then columns.
	sizes := []int64{3, 4}
	in := DeterministicComplexNoise(11, 1, 12)

	got := NaiveDFTND(in, sizes)

	want := append([]complex128(nil), in...)
	for r := 0; r < 3; r++ {
		copy(want[r*4:(r+1)*4], NaiveDFT(want[r*4:(r+1)*4]))
	}
	for c := 0; c < 4; c++ {
		col := []complex128{want[c], want[4+c], want[8+c]}
		res := NaiveDFT(col)
		want[c], want[4+c], want[8+c] = res[0], res[1], res[2]
	}

	RequireComplexNearlyEqual(t, got, want, 1e-10)
}

func TestDeterministicNoiseReproducible(t *testing.T) {
	a := DeterministicNoise(42, 1, 64)
	b := DeterministicNoise(42, 1, 64)
	RequireFinite(t, a)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
	}
}
