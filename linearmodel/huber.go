package linearmodel

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/Ujjwal-270/Stock-Prediction/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultHuberDelta      = 1.345
	DefaultHuberIterations = 100
	DefaultHuberTolerance  = 1e-6

	// residual scales this small relative to the target are treated as an exact fit
	zeroScale = 1e-7
)

// HuberOptions represents input options to run the Huber Regression
type HuberOptions struct {
	// Ridge configures the penalized solve performed on every iteration
	Ridge *RidgeOptions

	// Delta is the residual threshold in units of the robust residual scale past which
	// observations are down weighted.
	Delta float64

	// Iterations is the maximum number of reweighting passes. Exhausting it is an error.
	Iterations int

	// Tolerance is the largest relative coefficient change at which iterations stop
	Tolerance float64
}

// Validate runs basic validation on Huber options
func (h *HuberOptions) Validate() (*HuberOptions, error) {
	if h == nil {
		h = NewDefaultHuberOptions()
	}
	if h.Delta <= 0 {
		return nil, ErrNonPositiveDelta
	}
	if h.Iterations < 0 {
		return nil, ErrNegativeIterations
	}
	if h.Tolerance < 0 {
		return nil, ErrNegativeTolerance
	}
	ridge, err := h.Ridge.Validate()
	if err != nil {
		return nil, err
	}

	res := *h
	res.Ridge = ridge
	return &res, nil
}

// NewDefaultHuberOptions returns a default set of Huber Regression options
func NewDefaultHuberOptions() *HuberOptions {
	return &HuberOptions{
		Ridge:      NewDefaultRidgeOptions(),
		Delta:      DefaultHuberDelta,
		Iterations: DefaultHuberIterations,
		Tolerance:  DefaultHuberTolerance,
	}
}

// HuberRegression computes a robust penalized fit using iteratively reweighted least squares.
// The residual scale is estimated once from the initial unweighted fit using the median absolute
// deviation and held fixed so that the objective is convex.
type HuberRegression struct {
	opt        *HuberOptions
	ridge      *RidgeRegression
	weights    []float64
	iterations int
}

// NewHuberRegression initializes a huber model ready for fitting
func NewHuberRegression(opt *HuberOptions) (*HuberRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	ridge, err := NewRidgeRegression(opt.Ridge)
	if err != nil {
		return nil, err
	}
	return &HuberRegression{
		opt:   opt,
		ridge: ridge,
	}, nil
}

// Fit the model according to the given training data. Returns ErrNotConverged if the
// coefficients are still moving once the iteration budget is spent.
func (h *HuberRegression) Fit(x, y mat.Matrix) error {
	if h.opt == nil {
		return ErrNoOptions
	}
	m, _, err := validateInputs(x, y)
	if err != nil {
		return err
	}

	if err := h.ridge.Fit(x, y); err != nil {
		return err
	}
	h.iterations = 0
	h.weights = make([]float64, m)
	floats.AddConst(1.0, h.weights)

	yVals := mat.Col(nil, 0, y)
	residuals, err := h.residuals(x, yVals)
	if err != nil {
		return err
	}
	scale := stats.MAD(residuals) / stats.MADNormalConsistency
	if scale <= zeroScale*(1+floats.Norm(yVals, math.Inf(1))) {
		slog.Debug("residual scale is zero, skipping reweighting")
		return nil
	}
	threshold := h.opt.Delta * scale

	prev := h.ridge.Coef()
	for h.iterations < h.opt.Iterations {
		h.iterations++
		for i, r := range residuals {
			h.weights[i] = huberWeight(r, threshold)
		}
		if err := h.ridge.FitWeighted(x, y, h.weights); err != nil {
			return err
		}

		coef := h.ridge.Coef()
		if converged(prev, coef, h.opt.Tolerance) {
			slog.Debug("huber regression converged", "iterations", h.iterations)
			return nil
		}
		prev = coef

		residuals, err = h.residuals(x, yVals)
		if err != nil {
			return err
		}
	}
	return fmt.Errorf("huber regression after %d iterations, %w", h.iterations, ErrNotConverged)
}

func (h *HuberRegression) residuals(x mat.Matrix, y []float64) ([]float64, error) {
	pred, err := h.ridge.Predict(x)
	if err != nil {
		return nil, err
	}
	floats.SubTo(pred, y, pred)
	return pred, nil
}

func huberWeight(residual, threshold float64) float64 {
	abs := math.Abs(residual)
	if abs <= threshold {
		return 1.0
	}
	return threshold / abs
}

func converged(prev, curr []float64, tol float64) bool {
	maxDelta := 0.0
	maxCoef := 0.0
	for i := range curr {
		maxDelta = math.Max(maxDelta, math.Abs(curr[i]-prev[i]))
		maxCoef = math.Max(maxCoef, math.Abs(curr[i]))
	}
	return maxDelta <= tol*(1+maxCoef)
}

// Predict using the huber model
func (h *HuberRegression) Predict(x mat.Matrix) ([]float64, error) {
	if h.opt == nil {
		return nil, ErrNoOptions
	}
	return h.ridge.Predict(x)
}

// Score computes the coefficient of determination of the prediction
func (h *HuberRegression) Score(x, y mat.Matrix) (float64, error) {
	if h.opt == nil {
		return 0.0, ErrNoOptions
	}
	return score(h, x, y)
}

// Coef returns a slice of the trained coefficients in the same order of the training feature Matrix by column.
func (h *HuberRegression) Coef() []float64 {
	return h.ridge.Coef()
}

// Weights returns the final observation weights. Outliers have weights below 1.
func (h *HuberRegression) Weights() []float64 {
	w := make([]float64, len(h.weights))
	copy(w, h.weights)
	return w
}

// Iterations returns the number of reweighting passes of the last fit
func (h *HuberRegression) Iterations() int {
	return h.iterations
}
