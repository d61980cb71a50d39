package linearmodel

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultMinPenalty is the smallest penalty applied to every column. It keeps the augmented
// system full rank when there are fewer observations than features, pulling otherwise
// undetermined coefficients toward zero without visibly biasing determined ones.
const DefaultMinPenalty = 1e-8

// RidgeOptions represents input options to run the Ridge Regression
type RidgeOptions struct {
	// Penalties is the L2 multiplier for each column of the design matrix. A nil slice
	// applies no penalty which reduces the fit to ordinary least squares.
	Penalties []float64

	// MinPenalty is added to every penalty
	MinPenalty float64
}

// Validate runs basic validation on Ridge options
func (r *RidgeOptions) Validate() (*RidgeOptions, error) {
	if r == nil {
		r = NewDefaultRidgeOptions()
	}
	if r.MinPenalty < 0 {
		return nil, fmt.Errorf("min penalty of %.3g, %w", r.MinPenalty, ErrNegativePenalty)
	}
	for i, p := range r.Penalties {
		if p < 0 || math.IsNaN(p) {
			return nil, fmt.Errorf("penalty of %.3g at column %d, %w", p, i, ErrNegativePenalty)
		}
	}
	return r, nil
}

// NewDefaultRidgeOptions returns a default set of Ridge Regression options
func NewDefaultRidgeOptions() *RidgeOptions {
	return &RidgeOptions{
		MinPenalty: DefaultMinPenalty,
	}
}

// RidgeRegression computes an L2 penalized least squares fit with a separate penalty per feature.
// The penalties are folded into the system as extra rows and solved with QR factorization.
type RidgeRegression struct {
	opt  *RidgeOptions
	coef []float64
}

// NewRidgeRegression initializes a ridge model ready for fitting
func NewRidgeRegression(opt *RidgeOptions) (*RidgeRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &RidgeRegression{
		opt: opt,
	}, nil
}

// Fit the model according to the given training data
func (r *RidgeRegression) Fit(x, y mat.Matrix) error {
	return r.FitWeighted(x, y, nil)
}

// FitWeighted fits the model where each observation's squared residual is scaled by its weight.
// A nil weight slice weighs all observations equally.
func (r *RidgeRegression) FitWeighted(x, y mat.Matrix, weights []float64) error {
	if r.opt == nil {
		return ErrNoOptions
	}
	m, n, err := validateInputs(x, y)
	if err != nil {
		return err
	}
	if weights != nil && len(weights) != m {
		return fmt.Errorf("got %d weights for %d observations, %w", len(weights), m, ErrTargetLenMismatch)
	}
	if r.opt.Penalties != nil && len(r.opt.Penalties) != n {
		return fmt.Errorf("got %d penalties for %d features, %w", len(r.opt.Penalties), n, ErrPenaltyLenMismatch)
	}

	// stack the weighted observations on top of sqrt(penalty) * identity
	var penalized []int
	for j := 0; j < n; j++ {
		if r.penalty(j) > 0 {
			penalized = append(penalized, j)
		}
	}
	rows := m + len(penalized)

	a := mat.NewDense(rows, n, nil)
	b := mat.NewVecDense(rows, nil)
	for i := 0; i < m; i++ {
		w := 1.0
		if weights != nil {
			w = math.Sqrt(weights[i])
		}
		for j := 0; j < n; j++ {
			a.Set(i, j, w*x.At(i, j))
		}
		b.SetVec(i, w*y.At(i, 0))
	}
	for k, j := range penalized {
		a.Set(m+k, j, math.Sqrt(r.penalty(j)))
	}

	if rows < n {
		return fmt.Errorf("%d rows for %d features, %w", rows, n, ErrSingularSystem)
	}

	qr := new(mat.QR)
	qr.Factorize(a)

	c := mat.NewVecDense(n, nil)
	if err := qr.SolveVecTo(c, false, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return fmt.Errorf("%w, %w", ErrSingularSystem, err)
		}
		// ill-conditioned solves still produce a usable solution unless it blew up
		slog.Debug("ill-conditioned ridge solve", "condition", float64(cond))
	}
	coef := c.RawVector().Data
	for _, v := range coef {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrSingularSystem
		}
	}
	r.coef = coef
	return nil
}

func (r *RidgeRegression) penalty(j int) float64 {
	p := r.opt.MinPenalty
	if r.opt.Penalties != nil {
		p += r.opt.Penalties[j]
	}
	return p
}

// Predict using the ridge model
func (r *RidgeRegression) Predict(x mat.Matrix) ([]float64, error) {
	if r.opt == nil {
		return nil, ErrNoOptions
	}
	return predict(r.coef, x)
}

// Score computes the coefficient of determination of the prediction
func (r *RidgeRegression) Score(x, y mat.Matrix) (float64, error) {
	if r.opt == nil {
		return 0.0, ErrNoOptions
	}
	return score(r, x, y)
}

// Coef returns a slice of the trained coefficients in the same order of the training feature Matrix by column.
func (r *RidgeRegression) Coef() []float64 {
	c := make([]float64, len(r.coef))
	copy(c, r.coef)
	return c
}
