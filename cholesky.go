package nmf

import "gonum.org/v1/gonum/mat"

// denseCholesky is the dense-linear-algebra adapter's LLT primitive: a thin
// wrapper over gonum's mat.Cholesky used by the FAST phase of the NNLS
// solver (§4.1) to factorize the symmetric Gram system a once per column
// batch and reuse the factor across right-hand sides.
type denseCholesky struct {
	chol mat.Cholesky
	ok   bool
	n    int
}

// factorize computes the Cholesky factorization of the symmetric a (n by n,
// upper triangle read). ok reports whether a was positive definite; per the
// NNLS contract, a is not independently verified to be SPD and a failed
// factorization here is the caller's responsibility (see NNLS's fast_nnls
// flag).
func (c *denseCholesky) factorize(a *mat.SymDense) bool {
	c.n = a.Symmetric()
	c.ok = c.chol.Factorize(a)
	return c.ok
}

// solveVec solves a*x = b for x, overwriting x. Both must have length n.
func (c *denseCholesky) solveVec(x *mat.VecDense, b *mat.VecDense) error {
	return c.chol.SolveVecTo(x, b)
}

// symFromDense builds a *mat.SymDense view of the upper triangle of a,
// which must already be n by n and symmetric. Used to hand a freshly
// assembled Gram matrix (or a principal sub-matrix of one) to the Cholesky
// adapter without an extra copy when a is already laid out densely.
func symFromDense(n int, data []float64) *mat.SymDense {
	return mat.NewSymDense(n, data)
}

// gemv computes dst = a*x, the dense GEMV primitive used throughout the
// projection engine to form w*A[:,j]-style products against already
// materialized dense operands.
func gemv(dst *mat.VecDense, a mat.Matrix, x *mat.VecDense) {
	dst.MulVec(a, x)
}

// axpy computes y += alpha*x in place over raw float64 slices, the dense
// BLAS-1 primitive used by the coordinate-descent refinement phase of NNLS
// when updating the residual right-hand side column.
func axpy(alpha float64, x, y []float64) {
	for i, v := range x {
		y[i] += alpha * v
	}
}
