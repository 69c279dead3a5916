package nmf

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// randomDense fills an r by c dense matrix with uniform(0, 1) values drawn
// from a generator seeded deterministically with seed, so that two calls
// with the same seed, r and c produce bit-identical matrices. This is the
// sole initialization strategy for w at ALS entry (see spec §4.3 and
// Non-goals: no alternative init strategies).
func randomDense(r, c int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rng.Float64()
	}
	return mat.NewDense(r, c, data)
}

// RandomCOO constructs a new r by c COOrdinate matrix with non-zero values
// uniformly distributed at random positions, at approximately the
// requested density (0 <= density <= 1). It is exported for building
// synthetic sparse fixtures, matching the role the teacher library's own
// package-level Random helper plays for its example and benchmark suites.
func RandomCOO(r, c int, density float64, seed int64) *COO {
	rng := rand.New(rand.NewSource(seed))
	n := int(density * float64(r) * float64(c))

	rows := make([]int, n)
	cols := make([]int, n)
	data := make([]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = rng.Intn(r)
		cols[i] = rng.Intn(c)
		data[i] = rng.Float64()
	}
	return NewCOO(r, c, rows, cols, data)
}
