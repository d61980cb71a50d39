package options

import (
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"

	"github.com/Ujjwal-270/Stock-Prediction/feature"
	"github.com/Ujjwal-270/Stock-Prediction/forecast/util"
)

const (
	DefaultWeeklyOrders = 3
	DefaultYearlyOrders = 10

	// DefaultWeeklyRegularization is the ridge multiplier on the weekly Fourier coefficients.
	// Closes missing on weekends leave two weekly directions undetermined by the data and the
	// penalty keeps the unpenalized intercept carrying the price level.
	DefaultWeeklyRegularization = 0.01

	// DefaultYearlyRegularization is the ridge multiplier on the yearly Fourier coefficients
	DefaultYearlyRegularization = 0.01

	WeeklyPeriodDays = 7.0
	YearlyPeriodDays = 366.0
)

// Seasonality options configures the number of seasonality components to fit for.
type SeasonalityOptions struct {
	SeasonalityConfigs []SeasonalityConfig `json:"seasonality_configs"`
}

func (s SeasonalityOptions) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	noCfg := " None"
	if len(s.SeasonalityConfigs) > 0 {
		noCfg = ""
		fmt.Fprintf(tbl, "%sName\tPeriod\tOrders\tRegularization\t\n", util.Indent(prefix, indent, indentGrowth+1))
	}
	fmt.Fprintf(w, "%sSeasonality:%s\n", util.Indent(prefix, indent, indentGrowth), noCfg)
	for _, seasCfg := range s.SeasonalityConfigs {
		fmt.Fprintf(tbl, "%s%s\t%gd\t%d\t%g\t\n",
			util.Indent(prefix, indent, indentGrowth+1),
			seasCfg.Name, seasCfg.PeriodDays, seasCfg.Orders, seasCfg.Regularization)
	}
	return tbl.Flush()
}

// NewDefaultSeasonalityOptions generates a default seasonality config with weekly and yearly
// seasonal components
func NewDefaultSeasonalityOptions() SeasonalityOptions {
	return SeasonalityOptions{
		SeasonalityConfigs: []SeasonalityConfig{
			NewWeeklySeasonalityConfig(DefaultWeeklyOrders),
			NewYearlySeasonalityConfig(DefaultYearlyOrders),
		},
	}
}

// Config returns the seasonality config with the given name
func (s SeasonalityOptions) Config(name string) (SeasonalityConfig, bool) {
	for _, seasCfg := range s.SeasonalityConfigs {
		if seasCfg.Name == name {
			return seasCfg, true
		}
	}
	return SeasonalityConfig{}, false
}

// removeInvalid drops configs without a name, period or orders along with repeated names,
// keeping the config with the most orders.
func (s *SeasonalityOptions) removeInvalid() {
	optSeasConfigs := make([]SeasonalityConfig, len(s.SeasonalityConfigs))
	copy(optSeasConfigs, s.SeasonalityConfigs)
	sort.SliceStable(optSeasConfigs, func(i, j int) bool {
		if optSeasConfigs[i].Name != optSeasConfigs[j].Name {
			return optSeasConfigs[i].Name < optSeasConfigs[j].Name
		}
		return optSeasConfigs[i].Orders > optSeasConfigs[j].Orders
	})

	validated := make([]SeasonalityConfig, 0, len(optSeasConfigs))
	var lastName string
	for _, seasCfg := range optSeasConfigs {
		if seasCfg.Name == "" || seasCfg.PeriodDays <= 0 || seasCfg.Orders <= 0 || seasCfg.Name == lastName {
			continue
		}
		validated = append(validated, seasCfg)
		lastName = seasCfg.Name
	}
	s.SeasonalityConfigs = validated
}

// SeasonalityConfig represents a single seasonality configuration to model. This will generate
// Fourier series of the specified period and number of orders over the named time feature. E.g.
// a period of 7 days with 3 orders will create 6 Fourier series of order 1, 2, 3 and for the
// sine/cosine components where order 1 will have a period of 7 days and order 2 will have a
// period of 3.5 days.
type SeasonalityConfig struct {
	Name        string  `json:"name"`
	Orders      int     `json:"orders"`
	PeriodDays  float64 `json:"period_days"`
	TimeFeature string  `json:"time_feature"`

	// Regularization is the ridge multiplier on the Fourier coefficients. It is scaled by the
	// number of observations and grows quadratically once the history covers less than two
	// periods.
	Regularization float64 `json:"regularization"`

	// ShrinkShortHistory fits the seasonality on any history span, relying on the penalty to
	// shrink it toward zero, instead of requiring two full periods
	ShrinkShortHistory bool `json:"shrink_short_history"`
}

// NewSeasonalityConfig creates a new seasonality config given a name, period and orders
func NewSeasonalityConfig(name, timeFeature string, periodDays float64, orders int) SeasonalityConfig {
	if orders < 0 {
		orders = 0
	}

	return SeasonalityConfig{
		Name:        name,
		Orders:      orders,
		PeriodDays:  periodDays,
		TimeFeature: timeFeature,
	}
}

// NewWeeklySeasonalityConfig creates a lightly regularized weekly seasonality config. Epoch days
// are used as the time axis so the pattern depends only on the day of week.
func NewWeeklySeasonalityConfig(orders int) SeasonalityConfig {
	cfg := NewSeasonalityConfig(LabelSeasWeekly, feature.TimeEpochDays, WeeklyPeriodDays, orders)
	cfg.Regularization = DefaultWeeklyRegularization
	return cfg
}

// NewYearlySeasonalityConfig creates a regularized yearly seasonality config over the position
// on a leap year calendar so every month and day keeps the same value each year.
func NewYearlySeasonalityConfig(orders int) SeasonalityConfig {
	cfg := NewSeasonalityConfig(LabelSeasYearly, feature.TimeYearDay, YearlyPeriodDays, orders)
	cfg.Regularization = DefaultYearlyRegularization
	cfg.ShrinkShortHistory = true
	return cfg
}

// Penalty returns the ridge penalty of each Fourier coefficient given the number of
// observations and the history span in days
func (s SeasonalityConfig) Penalty(n int, spanDays float64) float64 {
	if s.Regularization <= 0 {
		return 0
	}
	// a single day of history is the shortest span penalized
	spanDays = math.Max(spanDays, 1.0)
	scale := math.Max(1.0, math.Pow(2*s.PeriodDays/spanDays, 2))
	return s.Regularization * float64(n) * scale
}

// Fittable reports whether the history is long enough to estimate the seasonality. A penalized
// seasonality with ShrinkShortHistory set is always fit, otherwise two full periods are needed.
func (s SeasonalityConfig) Fittable(spanDays float64) bool {
	if s.ShrinkShortHistory && s.Regularization > 0 {
		return true
	}
	return spanDays >= 2*s.PeriodDays
}

// GenerateFeatures creates the sine and cosine features of every order
func (s SeasonalityConfig) GenerateFeatures(tFeat []float64) (*feature.Set, error) {
	x := feature.NewSet()
	for order := 1; order <= s.Orders; order++ {
		sinFeat := feature.NewSeasonality(s.Name, feature.FourierCompSin, order)
		cosFeat := feature.NewSeasonality(s.Name, feature.FourierCompCos, order)
		if err := x.Set(sinFeat, sinFeat.Generate(tFeat, order, s.PeriodDays)); err != nil {
			return nil, err
		}
		if err := x.Set(cosFeat, cosFeat.Generate(tFeat, order, s.PeriodDays)); err != nil {
			return nil, err
		}
	}
	return x, nil
}
