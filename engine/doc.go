// Package engine exposes a descriptor-style interface to the native FFT
// backend. A Descriptor is configured with precision, domain, signal sizes,
// batch count, distances, per-dimension strides, and optional scale factors,
// then committed and executed in either direction. The transform arithmetic
// itself is performed by algo-fft plans; this package only maps the flat
// descriptor model onto per-dimension batched line transforms.
//
// A Descriptor is a per-call resource: create, configure, Commit, execute,
// Close. It is not safe for concurrent use and must not be shared.
package engine
