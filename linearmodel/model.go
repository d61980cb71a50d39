// Package linearmodel is a collection of least squares fitting implementations used by the
// forecast model
package linearmodel

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Model is a linear model over the columns of a design matrix. Any intercept is expected to
// be a column of the design matrix.
type Model interface {
	Fit(x, y mat.Matrix) error
	Predict(x mat.Matrix) ([]float64, error)
	Score(x, y mat.Matrix) (float64, error)
	Coef() []float64
}

func predict(coef []float64, x mat.Matrix) ([]float64, error) {
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	m, n := x.Dims()
	if n != len(coef) {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", n, len(coef), ErrFeatureLenMismatch)
	}

	res := mat.NewVecDense(m, nil)
	res.MulVec(x, mat.NewVecDense(n, coef))
	return res.RawVector().Data, nil
}

func score(model Model, x, y mat.Matrix) (float64, error) {
	if x == nil {
		return 0.0, ErrNoDesignMatrix
	}
	if y == nil {
		return 0.0, ErrNoTargetMatrix
	}

	m, _ := x.Dims()
	ym, _ := y.Dims()
	if m != ym {
		return 0.0, fmt.Errorf("design matrix has %d rows and target has %d rows, %w", m, ym, ErrTargetLenMismatch)
	}

	res, err := model.Predict(x)
	if err != nil {
		return 0.0, err
	}

	ySlice := mat.Col(nil, 0, y)
	return stat.RSquaredFrom(res, ySlice, nil), nil
}

func validateInputs(x, y mat.Matrix) (int, int, error) {
	if x == nil {
		return 0, 0, ErrNoTrainingMatrix
	}
	if y == nil {
		return 0, 0, ErrNoTargetMatrix
	}
	m, n := x.Dims()

	ym, _ := y.Dims()
	if ym != m {
		return 0, 0, fmt.Errorf("training data has %d rows and target has %d row, %w", m, ym, ErrTargetLenMismatch)
	}
	return m, n, nil
}
