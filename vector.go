package nmf

import (
	"sort"

	"github.com/james-bowman/nmf/blas"
	"gonum.org/v1/gonum/mat"
)

var (
	_ mat.Matrix = (*Vector)(nil)
	_ mat.Vector = (*Vector)(nil)
)

// Vector is a read-only sparse vector, the column-view returned by CSC.ColView.
// It stores only non-zero entries, indexed by ind[i] into a backing length of
// len, and implements mat.Vector so it can be used anywhere a gonum vector is
// expected (e.g. as the right-hand side of a dense dot product).
type Vector struct {
	len  int
	ind  []int
	data []float64
}

// NewVector returns a new sparse vector of length len with non-zero values
// data located at indices ind. ind must be strictly increasing. The slices
// are used as the backing storage for the vector without copying.
func NewVector(len int, ind []int, data []float64) *Vector {
	return &Vector{len: len, ind: ind, data: data}
}

// Dims returns the dimensions of the vector, equivalent to (Len(), 1).
func (v *Vector) Dims() (r, c int) {
	return v.len, 1
}

// At returns the element at (r, c). At panics if c != 0.
func (v *Vector) At(r, c int) float64 {
	if c != 0 {
		panic(mat.ErrColAccess)
	}
	return v.AtVec(r)
}

// T returns the transpose of the receiver.
func (v *Vector) T() mat.Matrix {
	return mat.TransposeVec{Vector: v}
}

// NNZ returns the number of stored non-zero elements in the vector.
func (v *Vector) NNZ() int {
	return len(v.data)
}

// AtVec returns the i'th element of the vector.
func (v *Vector) AtVec(i int) float64 {
	if i < 0 || i >= v.len {
		panic(mat.ErrRowAccess)
	}

	idx := sort.SearchInts(v.ind, i)
	if idx < len(v.ind) && v.ind[idx] == i {
		return v.data[idx]
	}
	return 0
}

// Len returns the length of the vector.
func (v *Vector) Len() int {
	return v.len
}

// RawIndices returns the raw index and value slices backing the non-zero
// entries of the vector, for use by kernels that need direct access (the
// projection engine's Gram-matrix and right-hand-side construction).
func (v *Vector) RawIndices() (ind []int, data []float64) {
	return v.ind, v.data
}

// DoNonZero calls fn for every stored non-zero element of the vector, in
// increasing index order.
func (v *Vector) DoNonZero(fn func(i int, val float64)) {
	for i, ind := range v.ind {
		fn(ind, v.data[i])
	}
}

// dotDense returns the dot product of the receiver with a dense vector raw,
// strided by inc, using the sparse BLAS-1 gather-dot kernel.
func (v *Vector) dotDense(raw []float64, inc int) float64 {
	return blas.Dusdot(v.data, v.ind, raw, inc)
}
