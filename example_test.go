package ndfft_test

import (
	"fmt"

	ndfft "github.com/cwbudde/algo-ndfft"
	"github.com/cwbudde/algo-ndfft/tensor"
)

// ExampleRFFT computes the onesided spectrum of a unit impulse, which is
// flat across all bins.
func ExampleRFFT() {
	signal := []float64{1, 0, 0, 0}
	in, err := tensor.FromFloat64(signal, []int64{1, 4}, []int64{4, 1})
	if err != nil {
		panic(err)
	}

	out, err := ndfft.RFFT(in, 1, ndfft.NormNone, true)
	if err != nil {
		panic(err)
	}

	spectrum, err := out.Complex128View()
	if err != nil {
		panic(err)
	}
	for _, bin := range spectrum {
		fmt.Printf("%.0f%+.0fi\n", real(bin), imag(bin))
	}
	// Output:
	// 1+0i
	// 1+0i
	// 1+0i
}

// ExampleIRFFT reconstructs a real signal from its onesided spectrum.
func ExampleIRFFT() {
	signal := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	in, err := tensor.FromFloat64(signal, []int64{1, 8}, []int64{8, 1})
	if err != nil {
		panic(err)
	}

	spectrum, err := ndfft.RFFT(in, 1, ndfft.NormNone, true)
	if err != nil {
		panic(err)
	}
	back, err := ndfft.IRFFT(spectrum, 1, ndfft.NormByN, []int64{8})
	if err != nil {
		panic(err)
	}

	for _, v := range back.Float64s() {
		fmt.Printf("%.0f ", v)
	}
	fmt.Println()
	// Output:
	// 1 2 3 4 5 6 7 8
}
