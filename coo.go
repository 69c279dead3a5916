package nmf

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

var _ mat.Matrix = (*COO)(nil)

// COO is a COOrdinate (triplet) format sparse matrix, good for incremental
// construction but not for the column-wise access the rest of this package
// needs. Build a matrix with COO, then call ToCSC to get the form every
// other component consumes.
type COO struct {
	r, c int
	rows []int
	cols []int
	data []float64
}

// NewCOO creates a new r by c COOrdinate matrix. If rows, cols and data are
// non-nil they are used directly as backing storage and must have equal
// length; passing all three as nil creates an empty matrix ready for
// incremental construction via Add.
func NewCOO(r, c int, rows, cols []int, data []float64) *COO {
	if r < 0 || c < 0 {
		panic(mat.ErrRowAccess)
	}
	if rows != nil || cols != nil || data != nil {
		if rows == nil || cols == nil || data == nil || len(rows) != len(cols) || len(rows) != len(data) {
			panic(ErrDimMismatch)
		}
	}
	return &COO{r: r, c: c, rows: rows, cols: cols, data: data}
}

// Dims returns the number of rows and columns of the matrix.
func (co *COO) Dims() (r, c int) {
	return co.r, co.c
}

// NNZ returns the number of stored triplets. Duplicate coordinates are
// counted separately and summed on read/conversion.
func (co *COO) NNZ() int {
	return len(co.data)
}

// At returns the element at row i, column j, summing any duplicate
// triplets stored at that coordinate.
func (co *COO) At(i, j int) float64 {
	if uint(i) >= uint(co.r) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) >= uint(co.c) {
		panic(mat.ErrColAccess)
	}
	var sum float64
	for k, ri := range co.rows {
		if ri == i && co.cols[k] == j {
			sum += co.data[k]
		}
	}
	return sum
}

// T returns the transpose of the receiver as a view.
func (co *COO) T() mat.Matrix {
	return mat.Transpose{Matrix: co}
}

// Add appends a new (possibly duplicate) non-zero triplet to the matrix.
func (co *COO) Add(i, j int, v float64) {
	if uint(i) >= uint(co.r) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) >= uint(co.c) {
		panic(mat.ErrColAccess)
	}
	co.rows = append(co.rows, i)
	co.cols = append(co.cols, j)
	co.data = append(co.data, v)
}

// DoNonZero calls fn for every stored triplet in the receiver, in storage
// order (which may include duplicate coordinates).
func (co *COO) DoNonZero(fn func(i, j int, v float64)) {
	for k, v := range co.data {
		fn(co.rows[k], co.cols[k], v)
	}
}

// ToCSC converts the receiver to Compressed Sparse Column format, summing
// any duplicate coordinates and dropping entries whose summed value is
// exactly zero.
func (co *COO) ToCSC() *CSC {
	order := make([]int, len(co.data))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if co.cols[ia] != co.cols[ib] {
			return co.cols[ia] < co.cols[ib]
		}
		return co.rows[ia] < co.rows[ib]
	})

	indptr := make([]int, co.c+1)
	ind := make([]int, 0, len(order))
	data := make([]float64, 0, len(order))

	pos := 0
	for col := 0; col < co.c; col++ {
		indptr[col] = len(ind)
		for pos < len(order) && co.cols[order[pos]] == col {
			row := co.rows[order[pos]]
			sum := co.data[order[pos]]
			pos++
			for pos < len(order) && co.cols[order[pos]] == col && co.rows[order[pos]] == row {
				sum += co.data[order[pos]]
				pos++
			}
			if sum != 0 {
				ind = append(ind, row)
				data = append(data, sum)
			}
		}
	}
	indptr[co.c] = len(ind)

	return NewCSC(co.r, co.c, indptr, ind, data)
}

// ToDense returns a dense copy of the matrix, summing any duplicate
// triplets stored at the same coordinate.
func (co *COO) ToDense() *mat.Dense {
	d := mat.NewDense(co.r, co.c, nil)
	for k, v := range co.data {
		i, j := co.rows[k], co.cols[k]
		d.Set(i, j, d.At(i, j)+v)
	}
	return d
}
