package forecaster

import (
	"errors"
	"fmt"
	"time"

	"github.com/Ujjwal-270/Stock-Prediction/forecast/options"
	"github.com/Ujjwal-270/Stock-Prediction/market"
	"github.com/Ujjwal-270/Stock-Prediction/stats"
	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
)

const (
	DefaultHorizonDays = 365
	DefaultConfidence  = 0.8
	DefaultMinHistory  = timedataset.MinObservations

	// RecommendedHistoryDays is the span needed before yearly seasonality is estimated
	// without heavy shrinkage
	RecommendedHistoryDays = 730
)

var (
	ErrInvalidConfidence = errors.New("confidence must be in the open interval (0, 1)")
	ErrInvalidMinHistory = errors.New("minimum history below two observations")
)

// TradingCalendar reports which dates the market is open
type TradingCalendar interface {
	IsTradingDay(t time.Time) bool
}

// Options configures the forecaster. A nil Options uses NewDefaultOptions.
type Options struct {
	// HorizonDays is the number of days past the last observation to forecast
	HorizonDays int `json:"horizon_days"`

	// Confidence is the two sided coverage of the uncertainty bounds
	Confidence float64 `json:"confidence"`

	// MinHistory is the fewest valid observations required to fit
	MinHistory int `json:"min_history"`

	// DisableYearly drops the yearly seasonal pattern from the model
	DisableYearly bool `json:"disable_yearly"`

	// TradingDaysOnly drops dates the market is closed from the forecast output
	TradingDaysOnly bool `json:"trading_days_only"`

	// SeriesOptions configures the underlying additive model. Nil uses the model defaults.
	SeriesOptions *options.Options `json:"series_options"`

	// Calendar decides trading days when TradingDaysOnly is set. Nil uses the NYSE calendar.
	Calendar TradingCalendar `json:"-"`
}

// NewDefaultOptions returns the default forecaster options
func NewDefaultOptions() *Options {
	return &Options{
		HorizonDays:   DefaultHorizonDays,
		Confidence:    DefaultConfidence,
		MinHistory:    DefaultMinHistory,
		SeriesOptions: options.NewDefaultOptions(),
	}
}

// Validate checks the options and returns a copy with every default filled in
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if o.HorizonDays < 0 {
		return nil, fmt.Errorf("horizon of %d days, %w", o.HorizonDays, ErrInvalidHorizon)
	}
	if _, err := stats.NormalQuantile(o.Confidence); err != nil {
		return nil, fmt.Errorf("confidence of %g, %w", o.Confidence, ErrInvalidConfidence)
	}
	if o.MinHistory < timedataset.MinObservations {
		return nil, fmt.Errorf("got %d, %w", o.MinHistory, ErrInvalidMinHistory)
	}

	res := *o
	seriesOpt, err := o.SeriesOptions.Validate()
	if err != nil {
		return nil, err
	}
	if res.DisableYearly {
		seasCfgs := make([]options.SeasonalityConfig, 0, len(seriesOpt.SeasonalityOptions.SeasonalityConfigs))
		for _, seasCfg := range seriesOpt.SeasonalityOptions.SeasonalityConfigs {
			if seasCfg.Name == options.LabelSeasYearly {
				continue
			}
			seasCfgs = append(seasCfgs, seasCfg)
		}
		seriesOpt.SeasonalityOptions.SeasonalityConfigs = seasCfgs
	}
	res.SeriesOptions = seriesOpt

	if res.TradingDaysOnly && res.Calendar == nil {
		res.Calendar = market.NewNYSE()
	}
	return &res, nil
}
