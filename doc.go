// Package ndfft computes batched, strided, multi-dimensional fast Fourier
// transforms over dense float32/float64 tensors.
//
// A transform request names the number of transformed dimensions, the
// direction, whether each side is complex, a normalization mode, and the
// output shape. Dimension 0 of every buffer is the batch dimension and is
// never transformed; complex tensors carry a trailing dimension of extent 2
// holding interleaved real/imaginary pairs. Transform maps the request onto
// a flat engine descriptor (precision, domain, distances, per-dimension
// strides, scale), preflights the engine's 32-bit length limit, runs the
// transform, and expands onesided real-to-complex output to the full
// conjugate-symmetric spectrum when requested.
//
// The FFT, IFFT, RFFT, and IRFFT helpers cover the common shapes of the
// general Transform call.
package ndfft
