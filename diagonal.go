package nmf

import "gonum.org/v1/gonum/mat"

var _ mat.Matrix = (*DIA)(nil)

// DIA is a specialised diagonal matrix, used to hold the per-factor scale d
// that the ALS driver absorbs out of w and h when diagonal scaling is
// enabled (see Config.Diag). A DIA is always square.
type DIA struct {
	m    int
	data []float64
}

// NewDIA creates a new m by m diagonal matrix backed directly by diagonal
// (no copy); changes to diagonal are reflected in the matrix and vice versa.
func NewDIA(m int, diagonal []float64) *DIA {
	if m != len(diagonal) {
		panic(mat.ErrRowAccess)
	}
	return &DIA{m: m, data: diagonal}
}

// Dims returns the size of the matrix.
func (d *DIA) Dims() (int, int) {
	return d.m, d.m
}

// At returns the element at row i, column j.
func (d *DIA) At(i, j int) float64 {
	if uint(i) >= uint(d.m) {
		panic(mat.ErrRowAccess)
	}
	if uint(j) >= uint(d.m) {
		panic(mat.ErrColAccess)
	}
	if i == j {
		return d.data[i]
	}
	return 0
}

// T returns the receiver; a diagonal matrix is its own transpose.
func (d *DIA) T() mat.Matrix {
	return d
}

// Diagonal returns the diagonal values of the matrix, top-left to
// bottom-right, backed by the same storage as the receiver.
func (d *DIA) Diagonal() []float64 {
	return d.data
}

// ScaleRows multiplies each row i of dst by d[i] in place. dst must have m
// rows.
func (d *DIA) ScaleRows(dst *mat.Dense) {
	r, c := dst.Dims()
	if r != d.m {
		panic(mat.ErrShape)
	}
	for i := 0; i < r; i++ {
		s := d.data[i]
		if s == 1 {
			continue
		}
		row := dst.RawRowView(i)
		for j := 0; j < c; j++ {
			row[j] *= s
		}
	}
}
