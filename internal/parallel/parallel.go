// Package parallel partitions an index range into contiguous chunks executed
// concurrently. It is the shared-memory parallel-for used by the conjugate
// symmetry fill; callers guarantee that disjoint sub-ranges never write the
// same destination element, so no synchronization beyond the final join is
// needed.
package parallel

import (
	"runtime"
	"sync"
)

// For invokes fn over disjoint sub-ranges that exactly partition
// [begin, end). Each sub-range is invoked exactly once; there is no
// ordering guarantee between sub-ranges.
//
// grain is the minimum chunk size: ranges of at most grain elements run
// serially on the calling goroutine, and no chunk smaller than grain is
// spawned. fn must not panic across goroutine boundaries.
func For(begin, end, grain int64, fn func(begin, end int64)) {
	n := end - begin
	if n <= 0 {
		return
	}
	if grain < 1 {
		grain = 1
	}
	if n <= grain {
		fn(begin, end)
		return
	}

	maxWorkers := int64(runtime.GOMAXPROCS(0))
	chunks := (n + grain - 1) / grain
	if chunks > maxWorkers {
		chunks = maxWorkers
	}
	if chunks <= 1 {
		fn(begin, end)
		return
	}

	chunkSize := (n + chunks - 1) / chunks

	var wg sync.WaitGroup
	for c := int64(0); c < chunks; c++ {
		lo := begin + c*chunkSize
		hi := lo + chunkSize
		if hi > end {
			hi = end
		}
		if lo >= hi {
			break
		}

		wg.Add(1)
		go func(lo, hi int64) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
