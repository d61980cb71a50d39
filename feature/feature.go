// Package feature describes the labeled regressors of the additive model. Each feature knows
// how to render itself as a string label, decode into a flat set of key/values for
// serialization and generate its column of the design matrix.
package feature

import (
	"errors"
)

var ErrUnknownFeatureType = errors.New("unknown feature type")

// FeatureType groups features by the model component they contribute to
type FeatureType string

const (
	FeatureTypeTime        FeatureType = "time"
	FeatureTypeGrowth      FeatureType = "growth"
	FeatureTypeChangepoint FeatureType = "changepoint"
	FeatureTypeSeasonality FeatureType = "seasonality"
)

// Feature is a labeled column of the design matrix
type Feature interface {
	String() string
	Get(string) (string, bool)
	Type() FeatureType
	Decode() map[string]string
}

// New builds an empty feature of the given type ready to be unmarshalled into
func New(ft FeatureType) (Feature, error) {
	switch ft {
	case FeatureTypeTime:
		return new(Time), nil
	case FeatureTypeGrowth:
		return new(Growth), nil
	case FeatureTypeChangepoint:
		return new(Changepoint), nil
	case FeatureTypeSeasonality:
		return new(Seasonality), nil
	}
	return nil, ErrUnknownFeatureType
}
