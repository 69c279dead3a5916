package blas

// Dusaxpy (sparse update, y <- alpha*x + y) scales the sparse vector x by
// alpha and scatters the result into the dense vector y. indx holds the
// gather/scatter indices into y; incy is y's stride. The projection
// engine's in-place w-update calls this once per factor row to accumulate
// a sparse sample column, scaled by that sample's entry in h, into the
// feature-row right-hand side it is building up.
func Dusaxpy(alpha float64, x []float64, indx []int, y []float64, incy int) {
	for i, index := range indx {
		y[index*incy] += alpha * x[i]
	}
}
