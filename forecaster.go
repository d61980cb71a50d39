// Package forecaster forecasts daily closing prices. A validated series is decomposed into a
// piecewise linear trend, a weekly pattern and a yearly pattern, then projected forward with
// uncertainty bounds that widen with distance from the last observation.
package forecaster

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Ujjwal-270/Stock-Prediction/forecast"
	"github.com/Ujjwal-270/Stock-Prediction/forecast/options"
	"github.com/Ujjwal-270/Stock-Prediction/stats"
	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
)

var (
	ErrFit              = errors.New("unable to fit model")
	ErrInvalidHorizon   = errors.New("horizon must be non-negative")
	ErrNoOptionsInModel = errors.New("no options set in model")
)

// Validate repairs raw observations into a series that can be fit. Invalid rows are dropped,
// repeated dates keep the latest received value and the result is sorted by date.
func Validate(obs []timedataset.Observation, opt *Options) (*timedataset.TimeDataset, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return timedataset.Validate(obs, opt.MinHistory)
}

// FittedModel is a trained forecast. It is never modified after Fit returns so it can be shared
// across goroutines.
type FittedModel struct {
	opt    *Options
	series *forecast.Forecast
	z      float64
}

// Fit trains a model on a validated series. Every failure to produce a usable model, including
// an exhausted iteration budget or non-finite fitted values, is reported as ErrFit wrapping the
// cause.
func Fit(td *timedataset.TimeDataset, opt *Options) (*FittedModel, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	z, err := stats.NormalQuantile(opt.Confidence)
	if err != nil {
		return nil, err
	}

	series, err := forecast.New(opt.SeriesOptions)
	if err != nil {
		return nil, err
	}
	if err := series.Fit(td); err != nil {
		return nil, fmt.Errorf("%w, %w", ErrFit, err)
	}

	return &FittedModel{
		opt:    opt,
		series: series,
		z:      z,
	}, nil
}

// NewFromModel creates a fitted model from a previously serialized Model. This skips training.
func NewFromModel(model Model) (*FittedModel, error) {
	if model.Options == nil {
		return nil, ErrNoOptionsInModel
	}
	opt := *model.Options
	opt.SeriesOptions = model.Series.Options

	validated, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	z, err := stats.NormalQuantile(validated.Confidence)
	if err != nil {
		return nil, err
	}

	series, err := forecast.NewFromModel(model.Series)
	if err != nil {
		return nil, fmt.Errorf("unable to load from series model, %w", err)
	}
	return &FittedModel{
		opt:    validated,
		series: series,
		z:      z,
	}, nil
}

// Predict produces one point per day from the first historical date through horizonDays past the
// last historical date. Bounds are point ± z·σ·sqrt(1+d) where d is the number of days past the
// last historical date, so the band never narrows going forward.
func (m *FittedModel) Predict(horizonDays int) (Forecast, error) {
	if horizonDays < 0 {
		return nil, fmt.Errorf("got %d days, %w", horizonDays, ErrInvalidHorizon)
	}

	t := m.dates(horizonDays)
	values, comp, err := m.series.Predict(t)
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrFit, err)
	}

	lastDay := m.series.TrainEndTime()
	sigma := m.series.NoiseScale()
	weekly := comp.SeasonalityComponent(options.LabelSeasWeekly)
	yearly := comp.SeasonalityComponent(options.LabelSeasYearly)

	res := make(Forecast, 0, len(t))
	for i, tPnt := range t {
		if math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			return nil, fmt.Errorf("prediction on %s, %w, %w", tPnt.Format(time.DateOnly), ErrFit, forecast.ErrNonFiniteFit)
		}
		d := max(timedataset.DaysBetween(lastDay, tPnt), 0)
		width := m.z * sigma * math.Sqrt(1.0+float64(d))
		res = append(res, ForecastPoint{
			T:          tPnt,
			Value:      values[i],
			Lower:      values[i] - width,
			Upper:      values[i] + width,
			Trend:      comp.Trend[i],
			Weekly:     weekly[i],
			Yearly:     yearly[i],
			Historical: d == 0,
		})
	}
	return res, nil
}

// dates returns every day from the first training date through the horizon, optionally limited
// to trading days
func (m *FittedModel) dates(horizonDays int) []time.Time {
	t := timedataset.DailyRange(
		m.series.TrainStartTime(),
		timedataset.AddDays(m.series.TrainEndTime(), horizonDays),
	)
	if !m.opt.TradingDaysOnly {
		return t
	}

	filtered := t[:0]
	for _, tPnt := range t {
		if m.opt.Calendar.IsTradingDay(tPnt) {
			filtered = append(filtered, tPnt)
		}
	}
	return filtered
}

// NoiseScale returns the sample standard deviation of the training residuals
func (m *FittedModel) NoiseScale() float64 {
	return m.series.NoiseScale()
}

// Scores returns the in-sample fit diagnostics
func (m *FittedModel) Scores() forecast.Scores {
	return m.series.Scores()
}

// TrainStartTime returns the first historical date
func (m *FittedModel) TrainStartTime() time.Time {
	return m.series.TrainStartTime()
}

// TrainEndTime returns the last historical date
func (m *FittedModel) TrainEndTime() time.Time {
	return m.series.TrainEndTime()
}

// Changepoints returns the dates where the trend was allowed to change slope
func (m *FittedModel) Changepoints() []options.Changepoint {
	return m.series.Options().ChangepointOptions.Changepoints
}

// Options returns a copy of the options the model was fit with
func (m *FittedModel) Options() *Options {
	opt := *m.opt
	opt.SeriesOptions = m.series.Options()
	return &opt
}

// Model generates a serializeable representation of the fit options and series model. This
// can be used to initialize a new FittedModel for immediate predictions skipping the training step.
func (m *FittedModel) Model() (Model, error) {
	seriesModel, err := m.series.Model()
	if err != nil {
		return Model{}, fmt.Errorf("unable to fetch series model, %w", err)
	}
	return Model{
		Options: m.Options(),
		Series:  seriesModel,
	}, nil
}

// ModelEq returns a string representation of the fit series model represented as
// y ~ m1x1 + m2x2 ...
func (m *FittedModel) ModelEq() (string, error) {
	return m.series.ModelEq()
}

// Run validates the observations, fits a model and predicts the configured horizon
func Run(obs []timedataset.Observation, opt *Options) (*FittedModel, Forecast, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, nil, err
	}
	td, err := Validate(obs, opt)
	if err != nil {
		return nil, nil, err
	}
	model, err := Fit(td, opt)
	if err != nil {
		return nil, nil, err
	}
	fc, err := model.Predict(opt.HorizonDays)
	if err != nil {
		return nil, nil, err
	}
	return model, fc, nil
}
