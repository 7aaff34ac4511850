// Package hermitian reconstructs the full complex spectrum of a real-input
// FFT from its onesided half.
//
// A real-to-complex transform only produces the non-redundant frequency
// bins: for a signal of length n, bins k and n-k are complex conjugates, so
// engines emit just the first n/2+1 bins along the last transformed
// dimension. Fill writes the remaining bins in place by mirroring and
// conjugating across every transformed dimension, for arbitrary strided
// layouts, without materializing intermediate buffers.
//
// FillSymmetry is the lower-level strided kernel entry; it operates on raw
// complex slices with caller-supplied sizes, strides, and base offsets, and
// parallelizes over the half index space.
package hermitian
