/*
Package blas provides the sparse BLAS-1 kernels (Dusdot, Dusaxpy) the nmf
package's projection engine builds its sparse-dense Gram and right-hand-side
accumulation on: gathering a dense vector at a sparse vector's stored
indices for a dot product, and scattering a scaled sparse vector into a
dense one.

See http://www.netlib.org/blas/blast-forum/chapter3.pdf for further
background on the sparse BLAS routines this package's naming follows. Unlike
the teacher library this package is adapted from, there is no assembly-
accelerated variant here: this portable Go implementation is unconditional,
not gated behind a build tag, since no competing architecture-specific
kernel exists in this repository to select between.
*/
package blas
