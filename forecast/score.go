package forecast

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var ErrResLenMismatch = errors.New("predicted and actual have different lengths")

// Scores tracks the in-sample fit scores. These describe how well the model explains its own
// training data and say nothing about out of sample accuracy.
type Scores struct {
	MSE  float64 `json:"mean_squared_error"`
	MAPE float64 `json:"mean_absolute_percent_error"`
	R2   float64 `json:"r_squared"`
}

// NewScores calculates the fit scores given the predicted and actual input slice values
func NewScores(predicted, actual []float64) (*Scores, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean squared error, %w", err)
	}
	mape, err := MAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute percent error, %w", err)
	}
	rs, err := RSquared(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute r-squared, %w", err)
	}

	return &Scores{
		MSE:  mse,
		MAPE: mape,
		R2:   rs,
	}, nil
}

// pairs returns the index of every position where both values are usable
func pairs(predicted, actual []float64) ([]int, error) {
	if len(predicted) != len(actual) {
		return nil, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	idx := make([]int, 0, len(actual))
	for i := range actual {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		idx = append(idx, i)
	}
	return idx, nil
}

// MSE computes the mean squared error. A score of 0 means a perfect match with no errors.
func MSE(predicted, actual []float64) (float64, error) {
	idx, err := pairs(predicted, actual)
	if err != nil || len(idx) == 0 {
		return 0, err
	}

	mse := 0.0
	for _, i := range idx {
		mse += math.Pow(actual[i]-predicted[i], 2.0)
	}
	return mse / float64(len(idx)), nil
}

// MAPE calculates the mean absolute percent error skipping zero actual values. A score of 0
// means a perfect match with no errors.
func MAPE(predicted, actual []float64) (float64, error) {
	idx, err := pairs(predicted, actual)
	if err != nil {
		return 0, err
	}

	var mape float64
	var n int
	for _, i := range idx {
		if actual[i] == 0 {
			continue
		}
		mape += math.Abs((actual[i] - predicted[i]) / actual[i])
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return mape / float64(n), nil
}

// RSquared computes the r squared value between the predicted and actual where 1.0 means perfect
// fit and 0 represents no relationship. A constant actual series that is matched exactly scores 1.
func RSquared(predicted, actual []float64) (float64, error) {
	idx, err := pairs(predicted, actual)
	if err != nil {
		return 0, err
	}

	predictCopy := make([]float64, 0, len(idx))
	actualCopy := make([]float64, 0, len(idx))
	for _, i := range idx {
		predictCopy = append(predictCopy, predicted[i])
		actualCopy = append(actualCopy, actual[i])
	}
	r2 := stat.RSquaredFrom(predictCopy, actualCopy, nil)
	if math.IsNaN(r2) {
		return 1.0, nil
	}
	return r2, nil
}
