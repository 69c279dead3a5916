package blas

// Dusdot (sparse dot product, r <- x^T*y) calculates the dot product of the
// sparse vector x and the dense vector y. indx holds the gather indices
// into y; incy is y's stride. The projection engine calls this to dot a
// sparse sample/feature column against a dense factor row, both when
// building the Gram/right-hand-side system from an unmasked sparse A and,
// restricted to a column's support, from a zero-masked one.
func Dusdot(x []float64, indx []int, y []float64, incy int) (dot float64) {
	for i, index := range indx {
		dot += x[i] * y[index*incy]
	}
	return
}
