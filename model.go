package nmf

import "gonum.org/v1/gonum/mat"

// Model is the result of an alternating-least-squares factorization:
// A ~= W * diag(D) * H, plus the convergence trail the driver produced it
// with.
type Model struct {
	// W is the features by k factor matrix.
	W *mat.Dense
	// D is the length-k per-factor scale absorbed out of W and H by
	// diagonal scaling (all ones when diagonal scaling was disabled).
	D []float64
	// H is the k by samples factor matrix.
	H *mat.Dense
	// TolHistory holds one tolerance value per completed iteration.
	TolHistory []float64
	// Iter is the number of completed iterations.
	Iter int
}

// Reconstruct returns W * diag(D) * H, the model's dense approximation of A.
func (m *Model) Reconstruct() *mat.Dense {
	diag := NewDIA(len(m.D), m.D)
	var wd mat.Dense
	wd.Mul(m.W, diag)
	var out mat.Dense
	out.Mul(&wd, m.H)
	return &out
}

// K returns the factorization rank.
func (m *Model) K() int {
	return len(m.D)
}
