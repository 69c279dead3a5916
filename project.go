package nmf

import (
	"fmt"
	"math"
	"sync"

	"github.com/james-bowman/nmf/blas"
	"gonum.org/v1/gonum/mat"
)

// ProjectConfig holds the parameters of a single Project call (spec §4.2,
// §6).
type ProjectConfig struct {
	// Nonneg constrains the solved factor to non-negative entries.
	Nonneg bool
	// L1 is subtracted from every right-hand-side entry before solving.
	L1 float64
	// MaskZeros restricts each column's Gram system to the support of A's
	// column, rather than the full Gram matrix. Only meaningful when
	// updating h from w against a sparse A.
	MaskZeros bool
	// InPlace selects the in-place w-update strategy, which never
	// materializes the transpose of a sparse A, at the cost of a serial
	// accumulation pass. Ignored when updating h from w, or when A is
	// dense (dense transposition is already cheap).
	InPlace bool
	// Symmetric declares that A equals its own transpose, letting the
	// w-update skip transposition entirely (it reduces to the h-update
	// kernel run directly against A). Ignored when updating h from w.
	Symmetric bool
	// CDMaxIt and CDTol bound the coordinate-descent refinement phase of
	// the underlying NNLS solves (rank 3 and above, or any rank on the
	// zero-masked path).
	CDMaxIt int
	CDTol   float64
	// FastNNLS enables the FAST active-set warm start ahead of coordinate
	// descent (rank 3 and above, or any rank on the zero-masked path).
	FastNNLS bool
}

// DefaultProjectConfig returns the external-interface defaults from spec §6.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{Nonneg: true, CDMaxIt: 100, CDTol: 1e-8}
}

// Project solves for the factor not supplied, holding the other fixed:
// given w it returns h, given h it returns w. Exactly one of w, h must be
// non-nil. A may be sparse (*CSC) or any dense mat.Matrix. Columns of the
// result are independent: the right-hand-side construction and the
// zero-masked path are dispatched across GetThreads (or resolveThreads's
// GOMAXPROCS default) goroutines at every rank, and the unmasked solve is
// dispatched the same way for rank 3 and above; ranks 1 and 2 run their
// direct substitutions serially, since the per-column work is too small to
// amortize dispatch (spec §4.2, §5).
func Project(A mat.Matrix, w, h *mat.Dense, cfg ProjectConfig) (*mat.Dense, error) {
	if w != nil && h != nil {
		return nil, ErrBothFactors
	}
	if w == nil && h == nil {
		return nil, ErrNoFactors
	}
	if cfg.L1 < 0 || cfg.L1 >= 1 {
		return nil, ErrInvalidL1
	}

	if w != nil {
		return updateHFromW(A, w, cfg)
	}
	return updateWFromH(A, h, cfg)
}

// updateHFromW solves for h (k by n) given w (m by k) fixed, against A (m by
// n).
func updateHFromW(A mat.Matrix, w *mat.Dense, cfg ProjectConfig) (*mat.Dense, error) {
	m, k := w.Dims()
	ar, n := A.Dims()
	if ar != m {
		return nil, fmt.Errorf("%w: w has %d rows, A has %d", ErrDimMismatch, m, ar)
	}

	if cfg.MaskZeros {
		csc, ok := A.(*CSC)
		if !ok {
			return nil, ErrMaskZerosDense
		}
		return updateHFromWMasked(csc, w, k, n, cfg)
	}

	f := transposeDense(w) // k by m
	return genericUpdate(f, A, cfg)
}

// updateWFromH solves for w (m by k) given h (k by n) fixed, against A (m by
// n), by either the transposed path (precompute Aᵀ, reuse the h-update
// kernel) or the in-place path (never materialize Aᵀ, accumulate per-feature
// right-hand sides in a single serial pass over A's columns).
func updateWFromH(A mat.Matrix, h *mat.Dense, cfg ProjectConfig) (*mat.Dense, error) {
	k, n := h.Dims()
	m, ac := A.Dims()
	if ac != n {
		return nil, fmt.Errorf("%w: h has %d columns, A has %d", ErrDimMismatch, n, ac)
	}
	if cfg.MaskZeros {
		return nil, ErrMaskZerosInPlace
	}

	csc, isSparse := A.(*CSC)
	if isSparse && cfg.InPlace {
		return updateWFromHInPlace(csc, h, m, k, n, cfg)
	}

	var mOp mat.Matrix
	switch {
	case cfg.Symmetric:
		// A == Aᵀ: the transposed path's operand is A itself.
		mOp = A
	case isSparse:
		mOp = csc.Transpose() // n by m
	default:
		dense := mat.NewDense(n, m, nil)
		dense.Copy(A.T())
		mOp = dense
	}

	wt, err := genericUpdate(h, mOp, cfg) // k by m
	if err != nil {
		return nil, err
	}
	return transposeDense(wt), nil
}

// updateWFromHInPlace implements the in-place w-update strategy: it
// accumulates, in a single serial pass over A's columns (samples), a row per
// feature of the right-hand side h*A[i,:]ᵀ, then solves the shared Gram
// system h*hᵀ once per feature row. The accumulation is serial because
// distinct samples can scatter into the same feature row; the per-row solve
// that follows is column-parallel like every other general-rank path.
//
// Each factor row kk of the right-hand side is a dense scatter-accumulate of
// a sparse column scaled by h[kk,j] - exactly the shape of the package's own
// Dusaxpy kernel (y <- alpha*x + y, x sparse, y dense), so the inner loop is
// k calls to it per column rather than a hand-rolled scatter.
func updateWFromHInPlace(A *CSC, h *mat.Dense, m, k, n int, cfg ProjectConfig) (*mat.Dense, error) {
	bufRows := make([][]float64, k)
	for kk := range bufRows {
		bufRows[kk] = make([]float64, m)
	}

	for j := 0; j < n; j++ {
		sv := A.ColView(j)
		rows, vals := sv.RawIndices()
		if len(rows) == 0 {
			continue
		}
		hcol := mat.Col(nil, j, h)
		for kk := 0; kk < k; kk++ {
			blas.Dusaxpy(hcol[kk], vals, rows, bufRows[kk], 1)
		}
	}

	gram := buildGramCols(h)
	bt := mat.NewDense(k, m, nil)
	for kk := 0; kk < k; kk++ {
		bt.SetRow(kk, bufRows[kk])
	}

	result, err := solveProjected(gram, bt, k, cfg)
	if err != nil {
		return nil, err
	}
	return transposeDense(result), nil
}

// genericUpdate solves for G (k by q) given the fixed factor f (k by p) and
// operand m (p by q), by forming the Gram system f*fᵀ and the right-hand
// side f*m[:,j] per column j. The same shape solves both directions: h-from-w
// calls it with f = wᵀ, m = A; w-from-h's transposed path calls it with
// f = h, m = Aᵀ.
func genericUpdate(f *mat.Dense, m mat.Matrix, cfg ProjectConfig) (*mat.Dense, error) {
	k, p := f.Dims()
	mr, q := m.Dims()
	if mr != p {
		return nil, fmt.Errorf("%w: fixed factor has %d columns, operand has %d rows", ErrDimMismatch, p, mr)
	}

	gram := buildGramCols(f)
	b := buildRHS(f, m, k, q)
	return solveProjected(gram, b, k, cfg)
}

// solveProjected dispatches a k by q Gram system and right-hand side to the
// rank-1/rank-2 direct substitutions or, for rank 3 and up, the
// column-parallel NNLS solve.
func solveProjected(gram *mat.SymDense, b *mat.Dense, k int, cfg ProjectConfig) (*mat.Dense, error) {
	switch k {
	case 1:
		return rank1Solve(gram, b, cfg), nil
	case 2:
		return rank2Solve(gram, b, cfg), nil
	default:
		nnlsCfg := NNLSConfig{CDMaxIt: cfg.CDMaxIt, CDTol: cfg.CDTol, FastNNLS: cfg.FastNNLS, Nonneg: cfg.Nonneg, L1: cfg.L1}
		return nnlsColumns(gram, b, nnlsCfg, resolveThreads())
	}
}

// updateHFromWMasked implements mask_zeros: for each column j, the Gram
// matrix and right-hand side are built from only the rows where A[:,j] is
// stored (spec §4.2), rather than the shared, globally-computed w*wᵀ. This
// is fundamentally slower than the unmasked path, since nothing can be
// precomputed once for every column.
//
// The right-hand side (w columns gathered at the support, dotted against
// A's stored values) and the Gram matrix (w columns gathered at the
// support, dotted against each other - unweighted by A's values, per spec
// §4.2) are both sparse-dense dot products against the column's support,
// so both route through the package's own Dusdot kernel rather than a
// hand-rolled gather loop.
func updateHFromWMasked(A *CSC, w *mat.Dense, k, n int, cfg ProjectConfig) (*mat.Dense, error) {
	h := mat.NewDense(k, n, nil)
	nnlsCfg := NNLSConfig{CDMaxIt: cfg.CDMaxIt, CDTol: cfg.CDTol, FastNNLS: cfg.FastNNLS, Nonneg: cfg.Nonneg, L1: cfg.L1}

	wCols := make([][]float64, k)
	for a := 0; a < k; a++ {
		wCols[a] = mat.Col(nil, a, w)
	}

	var mu sync.Mutex
	var firstErr error

	parallelFor(n, resolveThreads(), func(j int) {
		sv := A.ColView(j)
		rows, vals := sv.RawIndices()
		if len(rows) == 0 {
			return
		}

		// atSupport[c][idx] = w[rows[idx], c], so that
		// Dusdot(atSupport[c], rows, wCols[a], 1) sums w[rows[idx],c]*w[rows[idx],a]
		// over the column's support - the restricted Gram entry (a, c).
		atSupport := make([][]float64, k)
		for c := 0; c < k; c++ {
			wc := make([]float64, len(rows))
			for idx, i := range rows {
				wc[idx] = wCols[c][i]
			}
			atSupport[c] = wc
		}

		rhs := make([]float64, k)
		gramData := make([]float64, k*k)
		for a := 0; a < k; a++ {
			rhs[a] = blas.Dusdot(vals, rows, wCols[a], 1)
			for c := a; c < k; c++ {
				gramData[a*k+c] = blas.Dusdot(atSupport[c], rows, wCols[a], 1)
			}
		}

		gram := symFromDense(k, gramData)
		col, err := NNLS(gram, mat.NewDense(k, 1, rhs), nnlsCfg)
		if err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			return
		}
		h.SetCol(j, mat.Col(nil, 0, col))
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return h, nil
}

// buildGramCols returns f*fᵀ (k by k) for a k by p matrix f, contracting
// over its columns.
func buildGramCols(f *mat.Dense) *mat.SymDense {
	k, p := f.Dims()
	data := make([]float64, k*k)
	for a := 0; a < k; a++ {
		for c := a; c < k; c++ {
			var sum float64
			for j := 0; j < p; j++ {
				sum += f.At(a, j) * f.At(c, j)
			}
			data[a*k+c] = sum
		}
	}
	return symFromDense(k, data)
}

// buildRHS returns f*m (k by q), dispatching the column loop across
// resolveThreads goroutines and specializing the sparse case to walk only
// m's stored entries.
func buildRHS(f *mat.Dense, m mat.Matrix, k, q int) *mat.Dense {
	b := mat.NewDense(k, q, nil)
	workers := resolveThreads()

	if csc, ok := m.(*CSC); ok {
		parallelFor(q, workers, func(j int) {
			// f*m[:,j] is a dense-row-by-sparse-column product: row kk of
			// the result is the sparse column's dot product against row
			// kk of f, which is exactly Vector.dotDense's Dusdot kernel.
			sv := csc.ColView(j)
			col := make([]float64, k)
			for kk := 0; kk < k; kk++ {
				col[kk] = sv.dotDense(f.RawRowView(kk), 1)
			}
			b.SetCol(j, col)
		})
		return b
	}

	parallelFor(q, workers, func(j int) {
		mcol := mat.Col(nil, j, m)
		var bcol mat.VecDense
		gemv(&bcol, f, mat.NewVecDense(len(mcol), mcol))
		b.SetCol(j, bcol.RawVector().Data)
	})
	return b
}

// transposeDense returns an independently stored copy of w's transpose.
func transposeDense(w *mat.Dense) *mat.Dense {
	r, c := w.Dims()
	t := mat.NewDense(c, r, nil)
	t.Copy(w.T())
	return t
}

// rank1Solve handles k == 1 by direct substitution: x = b/g, clamped to zero
// when Nonneg is set and g is non-zero.
func rank1Solve(gram *mat.SymDense, b *mat.Dense, cfg ProjectConfig) *mat.Dense {
	g := gram.At(0, 0)
	_, n := b.Dims()
	x := mat.NewDense(1, n, nil)
	for j := 0; j < n; j++ {
		v := b.At(0, j)
		if cfg.L1 > 0 {
			v -= cfg.L1
		}
		if g != 0 {
			v /= g
		} else {
			v = 0
		}
		if cfg.Nonneg && v < 0 {
			v = 0
		}
		x.Set(0, j, v)
	}
	return x
}

// rank2Solve handles k == 2 by Cramer's rule, falling back to the three
// feasible boundary candidates (both zero, or one variable pinned to zero)
// when the unconstrained solution violates non-negativity.
func rank2Solve(gram *mat.SymDense, b *mat.Dense, cfg ProjectConfig) *mat.Dense {
	g00, g01, g11 := gram.At(0, 0), gram.At(0, 1), gram.At(1, 1)
	det := g00*g11 - g01*g01
	_, n := b.Dims()
	x := mat.NewDense(2, n, nil)

	for j := 0; j < n; j++ {
		b0, b1 := b.At(0, j), b.At(1, j)
		if cfg.L1 > 0 {
			b0 -= cfg.L1
			b1 -= cfg.L1
		}

		var x0, x1 float64
		feasible := false
		if det != 0 {
			x0 = (b0*g11 - b1*g01) / det
			x1 = (b1*g00 - b0*g01) / det
			feasible = !cfg.Nonneg || (x0 >= 0 && x1 >= 0)
		}
		if !feasible && cfg.Nonneg {
			x0, x1 = rank2Boundary(g00, g01, g11, b0, b1)
		}
		x.Set(0, j, x0)
		x.Set(1, j, x1)
	}
	return x
}

// rank2Boundary enumerates the feasible boundary candidates of the 2 by 2
// non-negative least squares problem (both variables zero, or each pinned
// to zero in turn) and returns the one with the lowest residual.
func rank2Boundary(g00, g01, g11, b0, b1 float64) (float64, float64) {
	best0, best1 := 0.0, 0.0
	bestRes := math.Inf(1)

	consider := func(x0, x1 float64) {
		if x0 < 0 || x1 < 0 {
			return
		}
		r0 := g00*x0 + g01*x1 - b0
		r1 := g01*x0 + g11*x1 - b1
		res := r0*r0 + r1*r1
		if res < bestRes {
			bestRes, best0, best1 = res, x0, x1
		}
	}

	consider(0, 0)
	if g00 != 0 {
		consider(b0/g00, 0)
	}
	if g11 != 0 {
		consider(0, b1/g11)
	}
	return best0, best1
}
