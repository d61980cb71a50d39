// Package stats holds the summary statistics used when fitting and bounding forecasts
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// MADNormalConsistency converts a median absolute deviation into a standard deviation
	// estimate for normally distributed data
	MADNormalConsistency = 0.6744897501960817

	// Epsilon is the relative size below which a scale is considered zero
	Epsilon = 1e-12
)

var ErrInvalidConfidence = errors.New("confidence must be in the open interval (0, 1)")

// Median returns the median of x without modifying it. Returns NaN for an empty slice.
func Median(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2.0
}

// MAD returns the median absolute deviation from the median
func MAD(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	med := Median(x)
	dev := make([]float64, len(x))
	for i, v := range x {
		dev[i] = math.Abs(v - med)
	}
	return Median(dev)
}

// SampleStd returns the unbiased standard deviation of x. A single value has no spread and
// returns 0.
func SampleStd(x []float64) float64 {
	if len(x) < 2 {
		return 0.0
	}
	return stat.StdDev(x, nil)
}

// NormalQuantile returns the z score of a two sided interval covering the confidence level
// of a standard normal distribution
func NormalQuantile(confidence float64) (float64, error) {
	if !(confidence > 0 && confidence < 1) {
		return 0.0, fmt.Errorf("got %.3g, %w", confidence, ErrInvalidConfidence)
	}
	return distuv.UnitNormal.Quantile((1.0 + confidence) / 2.0), nil
}
