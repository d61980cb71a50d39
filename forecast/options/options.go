// Package options contains all forecast options for an additive fit of a daily univariate
// time series
package options

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Ujjwal-270/Stock-Prediction/feature"
	"github.com/Ujjwal-270/Stock-Prediction/forecast/util"
	"github.com/Ujjwal-270/Stock-Prediction/linearmodel"
	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
)

const (
	LabelSeasWeekly = "weekly"
	LabelSeasYearly = "yearly"

	// DefaultChangepointRegularization is the ridge multiplier on the changepoint slope deltas
	DefaultChangepointRegularization = 0.01
)

var (
	ErrUnknownTimeFeature     = errors.New("unknown time feature")
	ErrNoTrainingWindow       = errors.New("training window must span at least one day")
	ErrNegativeRegularization = errors.New("negative regularization")
)

// Options configures a forecast by specifying changepoints, seasonality orders, regularization
// and whether outliers are down weighted during the fit.
type Options struct {
	ChangepointOptions ChangepointOptions `json:"changepoint_options"`
	SeasonalityOptions SeasonalityOptions `json:"seasonality_options"`

	// ChangepointRegularization is the ridge multiplier on each changepoint slope delta scaled
	// by the number of observations
	ChangepointRegularization float64 `json:"changepoint_regularization"`

	RobustOptions RobustOptions `json:"robust_options"`
}

// RobustOptions configures the Huber reweighting of the fit
type RobustOptions struct {
	Enabled    bool    `json:"enabled"`
	Iterations int     `json:"iterations"`
	Tolerance  float64 `json:"tolerance"`
	Delta      float64 `json:"delta"`
}

// NewDefaultRobustOptions returns robust fitting turned on with the default budget
func NewDefaultRobustOptions() RobustOptions {
	return RobustOptions{
		Enabled:    true,
		Iterations: linearmodel.DefaultHuberIterations,
		Tolerance:  linearmodel.DefaultHuberTolerance,
		Delta:      linearmodel.DefaultHuberDelta,
	}
}

// NewDefaultOptions returns a set of default forecast options
func NewDefaultOptions() *Options {
	return &Options{
		ChangepointOptions:        NewDefaultChangepointOptions(),
		SeasonalityOptions:        NewDefaultSeasonalityOptions(),
		ChangepointRegularization: DefaultChangepointRegularization,
		RobustOptions:             NewDefaultRobustOptions(),
	}
}

// Validate fills in missing values and returns a copy of the options that is safe to mutate
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}
	if o.ChangepointRegularization < 0 {
		return nil, fmt.Errorf("changepoint regularization of %g, %w", o.ChangepointRegularization, ErrNegativeRegularization)
	}

	res := *o
	res.ChangepointOptions.Changepoints = append([]Changepoint(nil), o.ChangepointOptions.Changepoints...)
	res.SeasonalityOptions.SeasonalityConfigs = append([]SeasonalityConfig(nil), o.SeasonalityOptions.SeasonalityConfigs...)
	for _, seasCfg := range res.SeasonalityOptions.SeasonalityConfigs {
		if seasCfg.Regularization < 0 {
			return nil, fmt.Errorf("%s seasonality regularization of %g, %w", seasCfg.Name, seasCfg.Regularization, ErrNegativeRegularization)
		}
	}
	res.SeasonalityOptions.removeInvalid()
	return &res, nil
}

// GenerateFeatures builds every column of the design matrix for the given dates. The training
// window fixes the scale of the growth and changepoint features so the same options produce
// consistent columns for history and horizon dates.
func (o *Options) GenerateFeatures(t []time.Time, trainStart, trainEnd time.Time) (*feature.Set, error) {
	if !trainEnd.After(trainStart) {
		return nil, ErrNoTrainingWindow
	}

	epochFeat := feature.NewTime(feature.TimeEpochDays)
	epochDays := epochFeat.Generate(t)
	startDay := timedataset.EpochDays(trainStart)
	endDay := timedataset.EpochDays(trainEnd)

	x := feature.NewSet()
	for _, g := range []*feature.Growth{feature.Intercept(), feature.Linear()} {
		if err := x.Set(g, g.Generate(epochDays, startDay, endDay)); err != nil {
			return nil, err
		}
	}

	chptFeat, err := o.ChangepointOptions.GenerateFeatures(epochDays, trainStart, trainEnd)
	if err != nil {
		return nil, fmt.Errorf("unable to generate changepoint features, %w", err)
	}
	if err := x.Update(chptFeat); err != nil {
		return nil, err
	}

	tFeatures := map[string][]float64{feature.TimeEpochDays: epochDays}
	for _, seasCfg := range o.SeasonalityOptions.SeasonalityConfigs {
		if !seasCfg.Fittable(endDay - startDay) {
			slog.Debug("history too short for seasonality, skipping", "name", seasCfg.Name, "span_days", endDay-startDay)
			continue
		}
		tFeat, exists := tFeatures[seasCfg.TimeFeature]
		if !exists {
			tFeat = feature.NewTime(seasCfg.TimeFeature).Generate(t)
			if tFeat == nil {
				return nil, fmt.Errorf("%q for %s seasonality, %w", seasCfg.TimeFeature, seasCfg.Name, ErrUnknownTimeFeature)
			}
			tFeatures[seasCfg.TimeFeature] = tFeat
		}

		seasFeat, err := seasCfg.GenerateFeatures(tFeat)
		if err != nil {
			return nil, fmt.Errorf("unable to generate seasonality features for %q, %w", seasCfg.Name, err)
		}
		if err := x.Update(seasFeat); err != nil {
			return nil, err
		}
	}
	return x, nil
}

// Penalties returns the ridge penalty of every label given the number of training observations
// and the training span in days. Growth features are never penalized.
func (o *Options) Penalties(labels *feature.Labels, n int, spanDays float64) []float64 {
	penalties := make([]float64, labels.Len())
	for i, label := range labels.Labels() {
		switch label.Type() {
		case feature.FeatureTypeChangepoint:
			penalties[i] = o.ChangepointRegularization * float64(n)
		case feature.FeatureTypeSeasonality:
			name, _ := label.Get("name")
			seasCfg, exists := o.SeasonalityOptions.Config(name)
			if !exists {
				slog.Warn("no seasonality config for feature, leaving unpenalized", "feature", label.String())
				continue
			}
			penalties[i] = seasCfg.Penalty(n, spanDays)
		}
	}
	return penalties
}

// NewModel returns the solver configured by the options with the given penalties
func (o *Options) NewModel(penalties []float64) (linearmodel.Model, error) {
	ridgeOpt := linearmodel.NewDefaultRidgeOptions()
	ridgeOpt.Penalties = penalties

	if !o.RobustOptions.Enabled {
		return linearmodel.NewRidgeRegression(ridgeOpt)
	}

	huberOpt := linearmodel.NewDefaultHuberOptions()
	huberOpt.Ridge = ridgeOpt
	if o.RobustOptions.Iterations > 0 {
		huberOpt.Iterations = o.RobustOptions.Iterations
	}
	if o.RobustOptions.Tolerance > 0 {
		huberOpt.Tolerance = o.RobustOptions.Tolerance
	}
	if o.RobustOptions.Delta > 0 {
		huberOpt.Delta = o.RobustOptions.Delta
	}
	return linearmodel.NewHuberRegression(huberOpt)
}

func (o *Options) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	fmt.Fprintf(w, "%sChangepoint Regularization: %g\n", util.Indent(prefix, indent, indentGrowth), o.ChangepointRegularization)
	robust := "Disabled"
	if o.RobustOptions.Enabled {
		robust = fmt.Sprintf("Enabled (iterations: %d, tolerance: %g)", o.RobustOptions.Iterations, o.RobustOptions.Tolerance)
	}
	fmt.Fprintf(w, "%sRobust: %s\n", util.Indent(prefix, indent, indentGrowth), robust)
	if err := o.ChangepointOptions.TablePrint(w, prefix, indent, indentGrowth); err != nil {
		return err
	}
	return o.SeasonalityOptions.TablePrint(w, prefix, indent, indentGrowth)
}
