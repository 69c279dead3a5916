package nmf

import "gonum.org/v1/gonum/mat"

// MSE computes the mean squared reconstruction error of W * diag(D) * H
// against A, column-wise and parallelized across columns (spec §4.4). When
// maskZeros is set, A must be sparse and zero entries are excluded from
// both the sum and the divisor.
func MSE(A mat.Matrix, w *mat.Dense, d []float64, h *mat.Dense, maskZeros bool) (float64, error) {
	m, k := w.Dims()
	_, n := h.Dims()

	csc, isSparse := A.(*CSC)
	if maskZeros && !isSparse {
		return 0, ErrMaskZerosDense
	}

	// w * diag(d) * h[:,j] == w * (diag(d) * h)[:,j]: scale h's k rows by d
	// once via the specialised ScaleRows primitive, rather than building
	// and multiplying through a full k by k diagonal operand per call.
	dh := mat.NewDense(k, n, nil)
	dh.Copy(h)
	NewDIA(len(d), d).ScaleRows(dh)

	colErr := make([]float64, n)
	colCount := make([]float64, n)

	parallelFor(n, resolveThreads(), func(j int) {
		dhcol := mat.Col(nil, j, dh)
		var recon mat.VecDense
		gemv(&recon, w, mat.NewVecDense(k, dhcol))

		switch {
		case isSparse && maskZeros:
			sv := csc.ColView(j)
			var sum float64
			sv.DoNonZero(func(i int, v float64) {
				diff := v - recon.AtVec(i)
				sum += diff * diff
			})
			colErr[j] = sum
			colCount[j] = float64(sv.NNZ())
		case isSparse:
			sv := csc.ColView(j)
			var sum float64
			for i := 0; i < m; i++ {
				r := recon.AtVec(i)
				sum += r * r
			}
			sv.DoNonZero(func(i int, v float64) {
				r := recon.AtVec(i)
				sum += (v-r)*(v-r) - r*r
			})
			colErr[j] = sum
			colCount[j] = float64(m)
		default:
			var sum float64
			for i := 0; i < m; i++ {
				diff := A.At(i, j) - recon.AtVec(i)
				sum += diff * diff
			}
			colErr[j] = sum
			colCount[j] = float64(m)
		}
	})

	var totalErr, totalCount float64
	for j := range colErr {
		totalErr += colErr[j]
		totalCount += colCount[j]
	}
	if totalCount == 0 {
		return 0, nil
	}
	return totalErr / totalCount, nil
}
