package nmf

import (
	"runtime"
	"sync/atomic"
)

// numThreads is the process-wide worker count: 0 means "use the backend
// default" (runtime.GOMAXPROCS(0), i.e. all cores), n > 0 pins the
// projection engine and loss evaluator to exactly n workers. It is safe to
// change between calls to the public API; changing it concurrently with an
// in-flight call is undefined, per the concurrency model.
var numThreads atomic.Int64

// SetThreads sets the number of worker goroutines used by the projection
// engine and loss evaluator. n <= 0 resets to the backend default.
func SetThreads(n int) {
	if n < 0 {
		n = 0
	}
	numThreads.Store(int64(n))
}

// GetThreads returns the currently configured worker count: 0 if the
// backend default is in effect, or the explicit count passed to the last
// call to SetThreads.
func GetThreads() int {
	return int(numThreads.Load())
}

// resolveThreads turns the configured thread count into a concrete worker
// count for dispatch, resolving 0 to the runtime's GOMAXPROCS.
func resolveThreads() int {
	n := GetThreads()
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}
