package nmf

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestCOOToCSC(t *testing.T) {
	co := NewCOO(2, 3, nil, nil, nil)
	co.Add(0, 0, 1)
	co.Add(1, 1, 3)
	co.Add(0, 2, 2)
	co.Add(0, 0, 4) // duplicate, should sum with the first

	csc := co.ToCSC()
	want := mat.NewDense(2, 3, []float64{5, 0, 2, 0, 3, 0})
	if !mat.Equal(want, csc.ToDense()) {
		t.Errorf("ToCSC mismatch: wanted\n%v\nbut received\n%v", mat.Formatted(want), mat.Formatted(csc.ToDense()))
	}
}

func TestCOOToDense(t *testing.T) {
	co := NewCOO(2, 2, []int{0, 1}, []int{0, 1}, []float64{2, 3})
	want := mat.NewDense(2, 2, []float64{2, 0, 0, 3})
	if !mat.Equal(want, co.ToDense()) {
		t.Errorf("ToDense mismatch: wanted\n%v\nbut received\n%v", mat.Formatted(want), mat.Formatted(co.ToDense()))
	}
}

func TestCOOAt(t *testing.T) {
	co := NewCOO(2, 2, nil, nil, nil)
	co.Add(0, 1, 1)
	co.Add(0, 1, 2)

	if got, want := co.At(0, 1), 3.0; got != want {
		t.Errorf("At with duplicate triplets: wanted %f but received %f", want, got)
	}
	if got, want := co.At(1, 0), 0.0; got != want {
		t.Errorf("At for unstored coordinate: wanted %f but received %f", want, got)
	}
}

func TestCOOToCSCDropsExplicitZeros(t *testing.T) {
	co := NewCOO(2, 2, nil, nil, nil)
	co.Add(0, 0, 3)
	co.Add(0, 0, -3) // cancels to an explicit zero, must not be stored
	co.Add(1, 1, 5)

	csc := co.ToCSC()
	if got, want := csc.ColNNZ(0), 0; got != want {
		t.Errorf("ColNNZ(0): wanted %d but received %d", want, got)
	}
	if got, want := csc.NNZ(), 1; got != want {
		t.Errorf("NNZ: wanted %d but received %d", want, got)
	}
	want := mat.NewDense(2, 2, []float64{0, 0, 0, 5})
	if !mat.Equal(want, csc.ToDense()) {
		t.Errorf("ToDense mismatch: wanted\n%v\nbut received\n%v", mat.Formatted(want), mat.Formatted(csc.ToDense()))
	}
}

func TestCOOEmptyColumns(t *testing.T) {
	co := NewCOO(2, 3, nil, nil, nil)
	co.Add(1, 2, 7)
	csc := co.ToCSC()

	if got, want := csc.ColNNZ(0), 0; got != want {
		t.Errorf("ColNNZ(0): wanted %d but received %d", want, got)
	}
	if got, want := csc.ColNNZ(1), 0; got != want {
		t.Errorf("ColNNZ(1): wanted %d but received %d", want, got)
	}
	if got, want := csc.At(1, 2), 7.0; got != want {
		t.Errorf("At(1,2): wanted %f but received %f", want, got)
	}
}
