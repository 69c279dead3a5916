package nmf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// NNLSConfig holds the parameters of a single nnls call (spec §4.1, §6).
type NNLSConfig struct {
	// CDMaxIt bounds the number of coordinate-descent sweeps per column.
	CDMaxIt int
	// CDTol is the per-row-averaged change below which a column's
	// coordinate-descent phase is considered converged.
	CDTol float64
	// FastNNLS enables the FAST active-set warm start ahead of coordinate
	// descent. The caller is responsible for a being SPD when this is set;
	// NNLS does not verify it.
	FastNNLS bool
	// Nonneg constrains the solution to x >= 0. When false, NNLS reduces to
	// a single Cholesky solve of the unconstrained system.
	Nonneg bool
	// L1 is subtracted from every entry of b before solving. The caller is
	// expected to have pre-scaled L1 against normalized factor rows.
	L1 float64
}

// DefaultNNLSConfig returns the external-interface defaults from spec §6.
func DefaultNNLSConfig() NNLSConfig {
	return NNLSConfig{CDMaxIt: 100, CDTol: 1e-8, FastNNLS: false, Nonneg: true}
}

// NNLS solves a*x = b for x, column by column, optionally constrained to
// x >= 0. a must be square and symmetric positive semi-definite when
// FastNNLS is set (unverified); b must have the same number of rows as a.
// Columns of b are solved independently. NNLS itself runs sequentially;
// Project is the caller that fans the same per-column solve out across
// goroutines (spec §5).
func NNLS(a *mat.SymDense, b mat.Matrix, cfg NNLSConfig) (*mat.Dense, error) {
	return nnlsColumns(a, b, cfg, 1)
}

// nnlsColumns is the shared implementation behind NNLS and the projection
// engine's general-rank path: it solves a*x = b independently per column of
// b, dispatching across workers goroutines (workers <= 1 runs sequentially).
func nnlsColumns(a *mat.SymDense, b mat.Matrix, cfg NNLSConfig, workers int) (*mat.Dense, error) {
	m := a.Symmetric()
	br, bc := b.Dims()
	if br != m {
		return nil, fmt.Errorf("%w: a is %d x %d, b has %d rows", ErrDimMismatch, m, m, br)
	}

	bw := mat.NewDense(m, bc, nil)
	bw.Copy(b)
	if cfg.L1 > 0 {
		bw.Apply(func(_, _ int, v float64) float64 { return v - cfg.L1 }, bw)
	}

	x := mat.NewDense(m, bc, nil)

	if !cfg.Nonneg {
		var chol denseCholesky
		if !chol.factorize(a) {
			return nil, fmt.Errorf("nmf: a is not positive definite")
		}
		parallelFor(bc, workers, func(j int) {
			col := mat.NewVecDense(m, mat.Col(nil, j, bw))
			sol := mat.NewVecDense(m, nil)
			_ = chol.solveVec(sol, col)
			x.SetCol(j, sol.RawVector().Data)
		})
		return x, nil
	}

	var chol denseCholesky
	haveChol := false
	if cfg.FastNNLS {
		haveChol = chol.factorize(a)
	}

	parallelFor(bc, workers, func(j int) {
		ws := getWorkspace(m)
		mat.Col(ws.b, j, bw)
		solveNNLSColumn(a, &chol, cfg.FastNNLS && haveChol, ws, cfg)
		x.SetCol(j, ws.x)
		putWorkspace(ws)
	})
	return x, nil
}

// solveNNLSColumn solves a*x = ws.b for a single non-negative column in
// place, leaving the result in ws.x. chol must already be factorized when
// useFast is true. nnlsColumns populates ws.b before calling this, so the
// same per-column solve backs sequential NNLS calls and the projection
// engine's parallel column fan-out.
func solveNNLSColumn(a *mat.SymDense, chol *denseCholesky, useFast bool, ws *workspace, cfg NNLSConfig) {
	for i := range ws.x {
		ws.x[i] = 0
	}
	if useFast {
		fastPhase(a, chol, ws)
	}
	cdPhase(a, ws, cfg)
}

// fastPhase runs the FAST active-set warm start (spec §4.1): it solves the
// unconstrained system, then repeatedly restricts to the feasible set
// F = {i : x_i > 0} and re-solves the principal sub-system until the
// solution at F is strictly positive or F is empty. ws.x is left holding
// the warm-start solution and ws.b is left holding the residual
// b - a*x that seeds coordinate descent.
func fastPhase(a *mat.SymDense, chol *denseCholesky, ws *workspace) {
	m := a.Symmetric()

	full := mat.NewVecDense(m, append([]float64(nil), ws.b...))
	x := mat.NewVecDense(m, nil)
	if err := chol.solveVec(x, full); err != nil {
		// a failed to factorize along the way; undefined per caller
		// contract when fast_nnls is selected against a non-SPD a.
		copy(ws.x, x.RawVector().Data)
		residual(a, ws)
		return
	}

	feasible := ws.feasible[:0]
	for {
		feasible = feasible[:0]
		anyNeg := false
		for i := 0; i < m; i++ {
			v := x.AtVec(i)
			if v < 0 {
				anyNeg = true
			}
			if v > 0 {
				feasible = append(feasible, i)
			}
		}
		if !anyNeg {
			break
		}
		if len(feasible) == 0 {
			x = mat.NewVecDense(m, nil)
			break
		}

		subA := principalSubmatrix(a, feasible)
		subB := mat.NewVecDense(len(feasible), nil)
		for k, i := range feasible {
			subB.SetVec(k, ws.b[i])
		}

		var subChol denseCholesky
		subX := mat.NewVecDense(len(feasible), nil)
		if !subChol.factorize(subA) {
			break
		}
		if err := subChol.solveVec(subX, subB); err != nil {
			break
		}

		x = mat.NewVecDense(m, nil)
		for k, i := range feasible {
			x.SetVec(i, subX.AtVec(k))
		}
	}

	ws.feasible = feasible
	copy(ws.x, x.RawVector().Data)
	residual(a, ws)
}

// residual sets ws.b to ws.b - a*ws.x, preparing the right-hand side that
// coordinate descent refines from after the FAST warm start.
func residual(a *mat.SymDense, ws *workspace) {
	m := a.Symmetric()
	x := mat.NewVecDense(m, append([]float64(nil), ws.x...))
	var ax mat.VecDense
	ax.MulVec(a, x)
	for i := 0; i < m; i++ {
		ws.b[i] -= ax.AtVec(i)
	}
}

// principalSubmatrix extracts the symmetric principal sub-matrix of a at
// row/column indices idx.
func principalSubmatrix(a *mat.SymDense, idx []int) *mat.SymDense {
	n := len(idx)
	data := make([]float64, n*n)
	for r, i := range idx {
		for c, j := range idx {
			if c >= r {
				data[r*n+c] = a.At(i, j)
			}
		}
	}
	return mat.NewSymDense(n, data)
}

// cdTau guards the tolerance accumulator's division against degenerate
// (near-zero) coordinates.
const cdTau = 1e-15

// cdPhase runs sequential coordinate descent to refine ws.x against the
// residual right-hand side ws.b, in place, for up to cfg.CDMaxIt sweeps or
// until the per-row-averaged tolerance drops below cfg.CDTol (spec §4.1).
func cdPhase(a *mat.SymDense, ws *workspace, cfg NNLSConfig) {
	m := a.Symmetric()
	x, b := ws.x, ws.b

	maxit := cfg.CDMaxIt
	if maxit <= 0 {
		maxit = 100
	}
	cdTol := cfg.CDTol
	if cdTol <= 0 {
		cdTol = 1e-8
	}

	for iter := 0; iter < maxit; iter++ {
		var tol float64
		for i := 0; i < m; i++ {
			aii := a.At(i, i)
			if aii == 0 {
				continue
			}
			delta := b[i] / aii

			if x[i]+delta < 0 {
				if x[i] != 0 {
					axpyCol(a, i, x[i], b, ws.colBuf)
					x[i] = 0
					tol = 1
				}
				continue
			}
			if delta != 0 {
				x[i] += delta
				axpyCol(a, i, -delta, b, ws.colBuf)
				tol += math.Abs(delta / (x[i] + cdTau))
			}
		}
		if tol/float64(m) < cdTol {
			break
		}
	}
}

// axpyCol adds alpha*a[:,col] to b, reading the column into buf first so
// the actual accumulation goes through the shared dense axpy primitive.
func axpyCol(a *mat.SymDense, col int, alpha float64, b, buf []float64) {
	if alpha == 0 {
		return
	}
	m := a.Symmetric()
	for i := 0; i < m; i++ {
		buf[i] = a.At(i, col)
	}
	axpy(alpha, buf[:m], b)
}

