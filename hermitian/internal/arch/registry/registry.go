// Package registry stores the available conjugate-symmetry fill kernels and
// selects the best one for the host CPU. Implementations register themselves
// from init functions in the arch packages; selection happens once at first
// use.
package registry

import (
	"sync"

	"github.com/cwbudde/algo-ndfft/internal/cpu"
)

// FillSliceFn64 processes one contiguous linear sub-range [begin, end) of
// the half index space for complex128 data. Dimension 0 is the
// fastest-varying dimension. Offsets are in complex elements; inBase and
// outBase locate coordinate zero, and strides may be negative.
type FillSliceFn64 func(begin, end int64, sizes []int64, mirrored []bool,
	inStrides []int64, in []complex128, inBase int64,
	outStrides []int64, out []complex128, outBase int64)

// FillSliceFn32 is the complex64 counterpart of FillSliceFn64.
type FillSliceFn32 func(begin, end int64, sizes []int64, mirrored []bool,
	inStrides []int64, in []complex64, inBase int64,
	outStrides []int64, out []complex64, outBase int64)

// OpEntry is one registered fill kernel implementation.
type OpEntry struct {
	Name      string
	SIMDLevel cpu.SIMDLevel
	Priority  int
	Fill64    FillSliceFn64
	Fill32    FillSliceFn32
}

// OpRegistry stores available implementations.
type OpRegistry struct {
	mu      sync.RWMutex
	entries []OpEntry
	sorted  bool
}

// Global is the default fill kernel registry.
var Global = &OpRegistry{}

// Register adds an implementation entry.
func (r *OpRegistry) Register(entry OpEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	r.sorted = false
}

// Lookup returns the highest-priority implementation supported by features.
func (r *OpRegistry) Lookup(features cpu.Features) *OpEntry {
	r.mu.Lock()
	if !r.sorted {
		r.sortByPriority()
		r.sorted = true
	}
	r.mu.Unlock()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		entry := &r.entries[i]
		if cpu.Supports(features, entry.SIMDLevel) {
			return entry
		}
	}

	return nil
}

func (r *OpRegistry) sortByPriority() {
	for i := 1; i < len(r.entries); i++ {
		key := r.entries[i]
		j := i - 1
		for j >= 0 && r.entries[j].Priority < key.Priority {
			r.entries[j+1] = r.entries[j]
			j--
		}
		r.entries[j+1] = key
	}
}

// ListEntries returns a copy of entries for tests/debugging.
func (r *OpRegistry) ListEntries() []OpEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]OpEntry, len(r.entries))
	copy(entries, r.entries)
	return entries
}
