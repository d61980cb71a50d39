package linearmodel

import (
	"errors"
)

var (
	ErrNoOptions          = errors.New("no initialized model options")
	ErrTargetLenMismatch  = errors.New("target length does not match target rows")
	ErrNoTrainingMatrix   = errors.New("no training matrix")
	ErrNoTargetMatrix     = errors.New("no target matrix")
	ErrNoDesignMatrix     = errors.New("no design matrix for inference")
	ErrFeatureLenMismatch = errors.New("number of features does not match number of model coefficients")
	ErrPenaltyLenMismatch = errors.New("number of penalties does not match number of features")
	ErrNegativePenalty    = errors.New("negative penalty")
	ErrSingularSystem     = errors.New("least squares system is singular")
	ErrNotConverged       = errors.New("iteration budget exhausted before convergence")
	ErrNegativeIterations = errors.New("negative iterations")
	ErrNegativeTolerance  = errors.New("negative tolerance")
	ErrNonPositiveDelta   = errors.New("non-positive huber threshold")
)
