/*
Package nmf fits non-negative matrix factorizations of the form

	A ~= w * diag(d) * h

where A is an m by n matrix (sparse or dense), w is m by k, h is k by n, and
d is a length-k vector of per-factor scale absorbed out of w and h so that
both stay on a comparable scale across alternating least squares updates.

The package is organized around three layers. A sparse compressed-column
matrix type (CSC), built incrementally via the COOrdinate triplet format
(COO), is the usual way to hand a large, mostly-zero A to the solver. A
dense-linear-algebra adapter wraps gonum's Cholesky factorization for the
normal-equation solves the rest of the package needs. On top of those, NNLS
solves a single non-negative least squares system, Project solves for one
factor holding the other fixed (its column loop runs in parallel, as does
MSE's), and NMF drives the full alternating least squares loop to fit w, d
and h to A.
*/
package nmf
