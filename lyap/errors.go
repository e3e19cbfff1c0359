package lyap

import "errors"

var ErrNonStationary = errors.New("lyap: process is not covariance stationary")
var ErrTransformSingular = errors.New("lyap: bilinear transform is singular")
var ErrNonHermitian = errors.New("lyap: noise covariance is not hermitian")
var ErrNotPositiveSemiDefinite = errors.New("lyap: noise covariance is not positive semi-definite")
var ErrInconsistent = errors.New("lyap: methods disagree beyond tolerance")
