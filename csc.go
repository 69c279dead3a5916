package nmf

import (
	"gonum.org/v1/gonum/mat"
)

var _ mat.Matrix = (*CSC)(nil)

// CSC is a read-only Compressed Sparse Column format matrix, the standard
// storage layout for the input matrix A throughout this package. Within each
// column, row indices are held in strictly increasing order, which lets the
// projection engine and loss evaluator walk a column's non-zero entries in a
// single forward pass.
//
// A CSC value is never mutated once built: factorization never writes to A.
type CSC struct {
	r, c   int
	indptr []int
	ind    []int
	data   []float64
}

// NewCSC creates a new CSC matrix of r rows by c columns. indptr must have
// length c+1 and be monotonically non-decreasing; ind and data must have
// equal length and, within each column's span of indptr, ind must be
// strictly increasing. The slices are used directly as backing storage
// without copying.
func NewCSC(r, c int, indptr, ind []int, data []float64) *CSC {
	if r < 0 || c < 0 {
		panic(mat.ErrRowAccess)
	}
	if len(indptr) != c+1 {
		panic(ErrDimMismatch)
	}
	if len(ind) != len(data) {
		panic(ErrDimMismatch)
	}
	return &CSC{r: r, c: c, indptr: indptr, ind: ind, data: data}
}

// Dims returns the number of rows and columns of the matrix.
func (c *CSC) Dims() (r, n int) {
	return c.r, c.c
}

// NNZ returns the number of stored non-zero elements in the matrix.
func (c *CSC) NNZ() int {
	return len(c.data)
}

// At returns the element at row i, column j. At performs a linear scan of
// the column and is intended for diagnostics and tests, not the hot path.
func (c *CSC) At(i, j int) float64 {
	if uint(i) >= uint(c.r) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) >= uint(c.c) {
		panic(mat.ErrColAccess)
	}
	for k := c.indptr[j]; k < c.indptr[j+1]; k++ {
		if c.ind[k] == i {
			return c.data[k]
		}
	}
	return 0
}

// T returns the transpose of the receiver. Because CSC only supports
// column access, the transpose is exposed as a view that dispatches At
// through swapped coordinates; it is not a distinct storage format.
func (c *CSC) T() mat.Matrix {
	return mat.Transpose{Matrix: c}
}

// ColNNZ returns the number of stored non-zero elements in column j.
func (c *CSC) ColNNZ(j int) int {
	return c.indptr[j+1] - c.indptr[j]
}

// Col returns the raw row-index and value slices for column j's non-zero
// entries. The returned slices alias the receiver's storage and must not be
// retained past the lifetime of the matrix or mutated.
func (c *CSC) Col(j int) (rows []int, vals []float64) {
	begin, end := c.indptr[j], c.indptr[j+1]
	return c.ind[begin:end], c.data[begin:end]
}

// ColView returns column j as a read-only sparse Vector, suitable for use
// as a mat.Vector (e.g. in dot products against a dense factor row).
func (c *CSC) ColView(j int) *Vector {
	rows, vals := c.Col(j)
	return NewVector(c.r, rows, vals)
}

// DoColNonZero calls fn for every stored non-zero element of column j, in
// increasing row order.
func (c *CSC) DoColNonZero(j int, fn func(i int, v float64)) {
	begin, end := c.indptr[j], c.indptr[j+1]
	for k := begin; k < end; k++ {
		fn(c.ind[k], c.data[k])
	}
}

// ToDense returns a dense copy of the matrix.
func (c *CSC) ToDense() *mat.Dense {
	d := mat.NewDense(c.r, c.c, nil)
	for j := 0; j < c.c; j++ {
		c.DoColNonZero(j, func(i int, v float64) {
			d.Set(i, j, v)
		})
	}
	return d
}

// Transpose returns a new, independently stored CSC matrix representing the
// transpose of the receiver. Unlike T, which returns a zero-cost view, this
// rebuilds the compressed storage with rows and columns swapped - the form
// the projection engine's transposed w-update path needs for column access
// into what were originally the receiver's rows.
func (c *CSC) Transpose() *CSC {
	coo := NewCOO(c.c, c.r, nil, nil, nil)
	for j := 0; j < c.c; j++ {
		c.DoColNonZero(j, func(i int, v float64) {
			coo.Add(j, i, v)
		})
	}
	return coo.ToCSC()
}

// IsSquareSymmetric performs the cheap symmetry probe used by the ALS
// driver: equal dimensions plus agreement of the matrix with its transpose
// on the first non-empty column. It is a heuristic, not a proof - callers
// that know their matrix is symmetric should prefer an explicit flag (see
// Config.Symmetric).
func (c *CSC) IsSquareSymmetric() bool {
	if c.r != c.c {
		return false
	}
	for j := 0; j < c.c; j++ {
		rows, vals := c.Col(j)
		if len(rows) == 0 {
			continue
		}
		for k, i := range rows {
			if c.At(j, i) != vals[k] {
				return false
			}
		}
		return true
	}
	return true
}
