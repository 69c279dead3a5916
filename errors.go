package nmf

import "errors"

// Validation errors returned by the public API. Low-level programmer errors
// (as opposed to a caller-supplied parameter choice) are raised as panics
// instead: out-of-range element access panics with gonum's
// mat.ErrRowAccess/mat.ErrColAccess sentinels, matching the convention the
// rest of the gonum/mat ecosystem uses, and the NewCSC/NewCOO constructors
// panic with ErrDimMismatch when given inconsistent storage slices.
var (
	// ErrDimMismatch is raised when two operands of an operation have
	// incompatible shapes, e.g. a is not square, or rows(a) != rows(b).
	ErrDimMismatch = errors.New("nmf: dimension mismatch")

	// ErrBothFactors is raised by Project when both w and h are supplied;
	// exactly one must be given so the direction can be inferred.
	ErrBothFactors = errors.New("nmf: exactly one of w or h must be supplied")

	// ErrNoFactors is raised by Project when neither w nor h is supplied.
	ErrNoFactors = errors.New("nmf: one of w or h must be supplied")

	// ErrInvalidL1 is raised when an L1 penalty falls outside [0, 1).
	ErrInvalidL1 = errors.New("nmf: L1 must satisfy 0 <= L1 < 1")

	// ErrMaskZerosDense is raised when mask_zeros is requested against a
	// dense A; zero-masking is only meaningful against a sparse matrix
	// where zero means "unobserved" rather than "not yet computed".
	ErrMaskZerosDense = errors.New("nmf: mask_zeros requires a sparse A")

	// ErrMaskZerosInPlace is raised by Project when mask_zeros is requested
	// for a w-update (in-place or transposed path alike); neither w-update
	// path restricts its Gram system to a column's support.
	ErrMaskZerosInPlace = errors.New("nmf: mask_zeros is only supported when updating h from w")

	// ErrInvalidRank is raised when k <= 0.
	ErrInvalidRank = errors.New("nmf: k must be a positive integer")
)
