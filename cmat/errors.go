package cmat

import "errors"

var ErrDimension = errors.New("cmat: dimension mismatch")
var ErrSingular = errors.New("cmat: matrix is numerically singular")
var ErrNoConvergence = errors.New("cmat: schur iteration did not converge")
