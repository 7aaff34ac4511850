package ndfft

import (
	"github.com/cwbudde/algo-ndfft/tensor"
)

// FFT computes the forward complex transform over the trailing signalNDim
// signal dimensions of in. The input shape is [batch, signal sizes..., 2].
func FFT(in *tensor.Buffer, signalNDim int, norm Normalization) (*tensor.Buffer, error) {
	return Transform(in, Options{
		SignalNDim:    signalNDim,
		ComplexInput:  true,
		ComplexOutput: true,
		Normalization: norm,
		OutputSizes:   append([]int64(nil), in.Sizes()...),
	})
}

// IFFT computes the backward complex transform. With NormNone the result is
// unnormalized; NormByN recovers the conventional inverse.
func IFFT(in *tensor.Buffer, signalNDim int, norm Normalization) (*tensor.Buffer, error) {
	return Transform(in, Options{
		SignalNDim:    signalNDim,
		ComplexInput:  true,
		ComplexOutput: true,
		Inverse:       true,
		Normalization: norm,
		OutputSizes:   append([]int64(nil), in.Sizes()...),
	})
}

// RFFT computes the forward transform of a real input of shape
// [batch, signal sizes...]. With onesided true the last signal dimension of
// the complex result holds only the n/2+1 non-redundant bins; otherwise the
// full conjugate-symmetric spectrum is reconstructed.
func RFFT(in *tensor.Buffer, signalNDim int, norm Normalization, onesided bool) (*tensor.Buffer, error) {
	outSizes := append([]int64(nil), in.Sizes()...)
	if onesided {
		outSizes[len(outSizes)-1] = outSizes[len(outSizes)-1]/2 + 1
	}
	outSizes = append(outSizes, 2)
	return Transform(in, Options{
		SignalNDim:    signalNDim,
		ComplexOutput: true,
		Normalization: norm,
		Onesided:      onesided,
		OutputSizes:   outSizes,
	})
}

// IRFFT computes the backward transform of a complex spectrum to a real
// signal with the given full signal sizes, one per transformed dimension.
// The input may be onesided (n/2+1 bins in the last signal dimension) or
// the full spectrum; only the non-redundant bins are read.
func IRFFT(in *tensor.Buffer, signalNDim int, norm Normalization, signalSizes []int64) (*tensor.Buffer, error) {
	outSizes := make([]int64, 1+signalNDim)
	outSizes[0] = in.Size(0)
	copy(outSizes[1:], signalSizes)
	return Transform(in, Options{
		SignalNDim:    signalNDim,
		ComplexInput:  true,
		Inverse:       true,
		Normalization: norm,
		OutputSizes:   outSizes,
	})
}
