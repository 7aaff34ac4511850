// Package tensor provides a minimal strided N-dimensional buffer used by the
// FFT layer. A Buffer pairs flat scalar storage (float32 or float64) with
// per-dimension sizes and strides, so the same data can be described under
// different memory layouts without copying.
//
// Complex data is stored interleaved: a complex tensor of logical shape S is
// represented as a scalar buffer of shape S x 2, with the real/imaginary pair
// occupying the innermost dimension. Complex128View and Complex64View
// reinterpret such a buffer as a complex slice.
package tensor
