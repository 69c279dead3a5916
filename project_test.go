package nmf

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func approxEqualDense(t *testing.T, name string, want, got *mat.Dense, tol float64) {
	t.Helper()
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	if wr != gr || wc != gc {
		t.Fatalf("%s: dims mismatch: wanted (%d,%d) but received (%d,%d)", name, wr, wc, gr, gc)
	}
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			if math.Abs(want.At(i, j)-got.At(i, j)) > tol {
				t.Errorf("%s (%d,%d): wanted %f but received %f", name, i, j, want.At(i, j), got.At(i, j))
			}
		}
	}
}

func TestProjectRank1RoundTrip(t *testing.T) {
	w := mat.NewDense(3, 1, []float64{1, 2, 3})
	hTrue := mat.NewDense(1, 2, []float64{2, 5})
	a := mat.NewDense(3, 2, nil)
	a.Mul(w, hTrue)

	h, err := Project(a, w, nil, DefaultProjectConfig())
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	approxEqualDense(t, "rank-1 h", hTrue, h, 1e-8)
}

func TestProjectRank2RoundTrip(t *testing.T) {
	w := mat.NewDense(3, 2, []float64{1, 0, 0, 1, 1, 1})
	hTrue := mat.NewDense(2, 2, []float64{2, 1, 1, 3})
	a := mat.NewDense(3, 2, nil)
	a.Mul(w, hTrue)

	h, err := Project(a, w, nil, DefaultProjectConfig())
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	approxEqualDense(t, "rank-2 h", hTrue, h, 1e-8)
}

func TestProjectRank3RoundTrip(t *testing.T) {
	w := mat.NewDense(4, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
		1, 1, 1,
	})
	hTrue := mat.NewDense(3, 2, []float64{3, 1, 2, 4, 1, 2})
	a := mat.NewDense(4, 2, nil)
	a.Mul(w, hTrue)

	cfg := ProjectConfig{Nonneg: true, CDMaxIt: 100, CDTol: 1e-12, FastNNLS: true}
	h, err := Project(a, w, nil, cfg)
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}
	approxEqualDense(t, "rank-3 h", hTrue, h, 1e-6)
}

func TestProjectTransposedAndInPlaceAgree(t *testing.T) {
	w := mat.NewDense(4, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
		1, 1, 1,
	})
	hTrue := mat.NewDense(3, 2, []float64{3, 1, 2, 4, 1, 2})
	dense := mat.NewDense(4, 2, nil)
	dense.Mul(w, hTrue)

	coo := NewCOO(4, 2, nil, nil, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 2; j++ {
			if v := dense.At(i, j); v != 0 {
				coo.Add(i, j, v)
			}
		}
	}
	csc := coo.ToCSC()

	cfg := ProjectConfig{Nonneg: true, CDMaxIt: 100, CDTol: 1e-12, FastNNLS: true}
	transposed, err := Project(csc, nil, hTrue, cfg)
	if err != nil {
		t.Fatalf("transposed-path Project returned error: %v", err)
	}

	cfg.InPlace = true
	inPlace, err := Project(csc, nil, hTrue, cfg)
	if err != nil {
		t.Fatalf("in-place Project returned error: %v", err)
	}

	approxEqualDense(t, "w (in-place vs transposed)", transposed, inPlace, 1e-6)
}

func TestProjectBothFactorsError(t *testing.T) {
	w := mat.NewDense(2, 1, []float64{1, 2})
	h := mat.NewDense(1, 2, []float64{1, 2})
	a := mat.NewDense(2, 2, nil)

	_, err := Project(a, w, h, DefaultProjectConfig())
	if !errors.Is(err, ErrBothFactors) {
		t.Errorf("expected ErrBothFactors, got %v", err)
	}
}

func TestProjectNoFactorsError(t *testing.T) {
	a := mat.NewDense(2, 2, nil)
	_, err := Project(a, nil, nil, DefaultProjectConfig())
	if !errors.Is(err, ErrNoFactors) {
		t.Errorf("expected ErrNoFactors, got %v", err)
	}
}

func TestProjectInvalidL1Error(t *testing.T) {
	w := mat.NewDense(2, 1, []float64{1, 2})
	a := mat.NewDense(2, 2, nil)

	_, err := Project(a, w, nil, ProjectConfig{L1: 1})
	if !errors.Is(err, ErrInvalidL1) {
		t.Errorf("expected ErrInvalidL1, got %v", err)
	}
}

func TestProjectMaskZerosMatchesUnmaskedOnFullySupportedColumns(t *testing.T) {
	w := mat.NewDense(3, 3, []float64{
		1, 0, 2,
		0, 1, 1,
		2, 1, 0,
	})
	dense := mat.NewDense(3, 2, []float64{
		2, 1,
		3, 2,
		1, 4,
	})

	cfg := ProjectConfig{Nonneg: false}
	wantH, err := Project(dense, w, nil, cfg)
	if err != nil {
		t.Fatalf("dense Project returned error: %v", err)
	}

	coo := NewCOO(3, 2, nil, nil, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			coo.Add(i, j, dense.At(i, j))
		}
	}
	csc := coo.ToCSC()

	cfg.MaskZeros = true
	gotH, err := Project(csc, w, nil, cfg)
	if err != nil {
		t.Fatalf("masked Project returned error: %v", err)
	}

	approxEqualDense(t, "masked h (no stored zeros)", wantH, gotH, 1e-8)
}

func TestProjectMaskZerosRequiresSparse(t *testing.T) {
	w := mat.NewDense(2, 1, []float64{1, 2})
	a := mat.NewDense(2, 2, nil)

	_, err := Project(a, w, nil, ProjectConfig{Nonneg: true, MaskZeros: true})
	if !errors.Is(err, ErrMaskZerosDense) {
		t.Errorf("expected ErrMaskZerosDense, got %v", err)
	}
}

func TestProjectMaskZerosRejectsWUpdate(t *testing.T) {
	h := mat.NewDense(1, 2, []float64{1, 2})
	csc := NewCSC(2, 2, []int{0, 1, 2}, []int{0, 1}, []float64{1, 1})

	_, err := Project(csc, nil, h, ProjectConfig{Nonneg: true, MaskZeros: true})
	if !errors.Is(err, ErrMaskZerosInPlace) {
		t.Errorf("expected ErrMaskZerosInPlace, got %v", err)
	}
}
