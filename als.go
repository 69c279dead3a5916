package nmf

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Config holds the parameters of a single NMF call (spec §4.3, §6).
type Config struct {
	// Tol is the stopping tolerance: iteration halts once
	// 1 - mean_correlation(w_current, w_previous) drops below it.
	Tol float64
	// MaxIt bounds the number of ALS iterations.
	MaxIt int
	// Verbose prints one line per iteration (index and tolerance) to
	// standard error.
	Verbose bool
	// Nonneg constrains w and h to non-negative entries.
	Nonneg bool
	// L1W and L1H are the L1 penalties applied to the w- and h-update
	// right-hand sides respectively.
	L1W, L1H float64
	// Seed seeds the deterministic pseudo-random initialization of w.
	Seed int64
	// Diag enables diagonal scaling: row-normalizing h and
	// column-normalizing w each iteration, absorbing the sums into d.
	Diag bool
	// MaskZeros enables zero-masking on the h-update (sparse A only).
	MaskZeros bool
	// InPlace selects the in-place w-update strategy over the transposed
	// path (sparse A only).
	InPlace bool
	// Symmetric declares A symmetric explicitly, skipping the cheap
	// first-column probe (spec §9).
	Symmetric bool
}

// DefaultConfig returns the external-interface defaults from spec §6.
func DefaultConfig() Config {
	return Config{Tol: 1e-4, MaxIt: 100, Verbose: true, Nonneg: true, Diag: true}
}

// NMF fits A ~= w * diag(d) * h by alternating least squares, returning the
// fitted Model. A may be sparse (*CSC) or dense.
func NMF(A mat.Matrix, k int, cfg Config) (*Model, error) {
	if err := validateALS(A, k, cfg); err != nil {
		return nil, err
	}

	m, _ := A.Dims()
	w := randomDense(m, k, cfg.Seed)
	d := make([]float64, k)
	for i := range d {
		d[i] = 1
	}

	symmetric := cfg.Symmetric
	if !symmetric {
		if csc, ok := A.(*CSC); ok {
			symmetric = csc.IsSquareSymmetric()
		}
	}

	var h *mat.Dense
	prevW := w
	tolHistory := make([]float64, 0, cfg.MaxIt)
	iter := 0

	for ; iter < cfg.MaxIt; iter++ {
		var err error
		h, err = Project(A, w, nil, ProjectConfig{
			Nonneg:    cfg.Nonneg,
			L1:        cfg.L1H,
			MaskZeros: cfg.MaskZeros,
		})
		if err != nil {
			return nil, err
		}
		if cfg.Diag {
			rowSums := normalizeRowsToSum1(h)
			scaleDiag(d, rowSums)
		}

		wNew, err := Project(A, nil, h, ProjectConfig{
			Nonneg:    cfg.Nonneg,
			L1:        cfg.L1W,
			InPlace:   cfg.InPlace,
			Symmetric: symmetric,
		})
		if err != nil {
			return nil, err
		}
		if cfg.Diag {
			colSums := normalizeColsToSum1(wNew)
			scaleDiag(d, colSums)
		}

		tol := 1 - meanFactorCorrelation(wNew, prevW)
		tolHistory = append(tolHistory, tol)
		if cfg.Verbose {
			fmt.Fprintf(os.Stderr, "iter %d tol %g\n", iter+1, tol)
		}

		prevW, w = wNew, wNew
		if tol < cfg.Tol {
			iter++
			break
		}
	}

	return &Model{W: w, D: d, H: h, TolHistory: tolHistory, Iter: iter}, nil
}

// validateALS checks the input validation rules of spec §4.3, §7.
func validateALS(A mat.Matrix, k int, cfg Config) error {
	if k <= 0 {
		return ErrInvalidRank
	}
	if cfg.L1W < 0 || cfg.L1W >= 1 || cfg.L1H < 0 || cfg.L1H >= 1 {
		return ErrInvalidL1
	}
	if cfg.MaskZeros {
		if _, ok := A.(*CSC); !ok {
			return ErrMaskZerosDense
		}
	}
	return nil
}

// normalizeRowsToSum1 divides each row of h by its sum (rows that sum to
// zero are left unchanged) and returns the pre-normalization sums.
func normalizeRowsToSum1(h *mat.Dense) []float64 {
	k, n := h.Dims()
	sums := make([]float64, k)
	for i := 0; i < k; i++ {
		row := h.RawRowView(i)
		var s float64
		for _, v := range row {
			s += v
		}
		sums[i] = s
		if s == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			row[j] /= s
		}
	}
	return sums
}

// normalizeColsToSum1 divides each column of w by its sum (columns that sum
// to zero are left unchanged) and returns the pre-normalization sums.
func normalizeColsToSum1(w *mat.Dense) []float64 {
	m, k := w.Dims()
	sums := make([]float64, k)
	for j := 0; j < k; j++ {
		var s float64
		for i := 0; i < m; i++ {
			s += w.At(i, j)
		}
		sums[j] = s
	}
	for j := 0; j < k; j++ {
		if sums[j] == 0 {
			continue
		}
		for i := 0; i < m; i++ {
			w.Set(i, j, w.At(i, j)/sums[j])
		}
	}
	return sums
}

// scaleDiag multiplies d element-wise by factors, absorbing a half-update's
// normalization sums into the shared diagonal scale.
func scaleDiag(d, factors []float64) {
	for i := range d {
		d[i] *= factors[i]
	}
}

// meanFactorCorrelation returns the mean Pearson correlation, across the k
// factors, between corresponding columns of w and prev. A stable factor
// assignment across iterations is assumed; factors are compared by position,
// not re-matched (spec §4.3, §9).
func meanFactorCorrelation(w, prev *mat.Dense) float64 {
	_, k := w.Dims()
	var sum float64
	for j := 0; j < k; j++ {
		cur := mat.Col(nil, j, w)
		old := mat.Col(nil, j, prev)
		sum += stat.Correlation(cur, old, nil)
	}
	return sum / float64(k)
}
