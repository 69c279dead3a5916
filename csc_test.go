package nmf

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestCSCAt(t *testing.T) {
	// [1 0 2]
	// [0 3 0]
	c := NewCSC(2, 3, []int{0, 1, 2, 3}, []int{0, 1, 0}, []float64{1, 3, 2})

	tests := []struct {
		i, j     int
		expected float64
	}{
		{0, 0, 1},
		{1, 0, 0},
		{1, 1, 3},
		{0, 2, 2},
		{1, 2, 0},
	}

	for ti, test := range tests {
		if got := c.At(test.i, test.j); got != test.expected {
			t.Errorf("Test %d: At(%d,%d): wanted %f but received %f", ti+1, test.i, test.j, test.expected, got)
		}
	}
}

func TestCSCToDense(t *testing.T) {
	c := NewCSC(2, 3, []int{0, 1, 2, 3}, []int{0, 1, 0}, []float64{1, 3, 2})
	want := mat.NewDense(2, 3, []float64{1, 0, 2, 0, 3, 0})

	if !mat.Equal(want, c.ToDense()) {
		t.Errorf("ToDense mismatch: wanted\n%v\nbut received\n%v", mat.Formatted(want), mat.Formatted(c.ToDense()))
	}
}

func TestCSCTranspose(t *testing.T) {
	c := NewCSC(2, 3, []int{0, 1, 2, 3}, []int{0, 1, 0}, []float64{1, 3, 2})
	ct := c.Transpose()

	r, n := ct.Dims()
	if r != 3 || n != 2 {
		t.Fatalf("Transpose dims: wanted (3,2) but received (%d,%d)", r, n)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			if got, want := ct.At(j, i), c.At(i, j); got != want {
				t.Errorf("Transpose(%d,%d): wanted %f but received %f", j, i, want, got)
			}
		}
	}
}

func TestCSCColNNZ(t *testing.T) {
	c := NewCSC(2, 3, []int{0, 1, 2, 3}, []int{0, 1, 0}, []float64{1, 3, 2})

	for j, want := range []int{1, 1, 1} {
		if got := c.ColNNZ(j); got != want {
			t.Errorf("ColNNZ(%d): wanted %d but received %d", j, want, got)
		}
	}
}

func TestCSCIsSquareSymmetric(t *testing.T) {
	sym := NewCSC(2, 2, []int{0, 2, 4}, []int{0, 1, 0, 1}, []float64{1, 2, 2, 3})
	if !sym.IsSquareSymmetric() {
		t.Error("expected symmetric matrix to be detected as symmetric")
	}

	// [[0 0] [5 0]]: column 0 has an off-diagonal entry with no mirror.
	asym := NewCSC(2, 2, []int{0, 1, 1}, []int{1}, []float64{5})
	if asym.IsSquareSymmetric() {
		t.Error("expected asymmetric matrix to be detected as not symmetric")
	}

	rect := NewCSC(2, 3, []int{0, 1, 2, 3}, []int{0, 1, 0}, []float64{1, 3, 2})
	if rect.IsSquareSymmetric() {
		t.Error("expected non-square matrix to be detected as not symmetric")
	}
}
