package nmf

import "sync"

// workspace holds the thread-local scratch buffers a single NNLS column
// solve needs: the right-hand side / solution vector x, the residual
// buffer used by coordinate descent, and the feasible-set index list used
// by the FAST phase. Keeping these per-goroutine (rather than shared) is
// what lets the projection engine's column loop run lock-free, per the
// false-sharing note in the concurrency model.
type workspace struct {
	x        []float64
	b        []float64
	colBuf   []float64 // scratch for reading a column of a out of a *mat.SymDense
	feasible []int     // scratch for the FAST phase's feasible-set index list
}

var workspacePool = sync.Pool{
	New: func() interface{} { return &workspace{} },
}

// getWorkspace returns a workspace whose buffers are at least size n,
// resized (not necessarily zeroed) to exactly n.
func getWorkspace(n int) *workspace {
	w := workspacePool.Get().(*workspace)
	w.x = useFloats(w.x, n)
	w.b = useFloats(w.b, n)
	w.colBuf = useFloats(w.colBuf, n)
	w.feasible = useInts(w.feasible, 0)
	return w
}

// putWorkspace returns w to the pool for reuse by another column.
func putWorkspace(w *workspace) {
	workspacePool.Put(w)
}

// useFloats returns s resized to length n, reusing the existing backing
// array when it has enough capacity.
func useFloats(s []float64, n int) []float64 {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]float64, n)
}

// useInts returns s resized to length n, reusing the existing backing
// array when it has enough capacity.
func useInts(s []int, n int) []int {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]int, n)
}
