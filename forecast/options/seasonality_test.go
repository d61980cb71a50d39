package options

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/Ujjwal-270/Stock-Prediction/feature"
	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonalityTablePrint(t *testing.T) {
	testData := map[string]struct {
		opt          SeasonalityOptions
		prefix       string
		indent       string
		indentGrowth int
		expected     string
	}{
		"no configs": {
			opt: SeasonalityOptions{},
			expected: `Seasonality: None
`,
		},
		"no configs with prefix and indent": {
			opt:          SeasonalityOptions{},
			prefix:       "  ",
			indent:       "--",
			indentGrowth: 1,
			expected: `  --Seasonality: None
`,
		},
		"default configs": {
			opt:    NewDefaultSeasonalityOptions(),
			indent: "  ",
			expected: `Seasonality:
     Name Period Orders Regularization
   weekly     7d      3           0.01
   yearly   366d     10           0.01
`,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, td.opt.TablePrint(&buf, td.prefix, td.indent, td.indentGrowth))
			assert.Equal(t, td.expected, buf.String())
		})
	}
}

func TestRemoveInvalid(t *testing.T) {
	opt := SeasonalityOptions{
		SeasonalityConfigs: []SeasonalityConfig{
			NewYearlySeasonalityConfig(4),
			NewWeeklySeasonalityConfig(3),
			NewYearlySeasonalityConfig(10),
			NewSeasonalityConfig("", feature.TimeEpochDays, 7, 2),
			NewSeasonalityConfig("monthly", feature.TimeEpochDays, 0, 2),
			NewSeasonalityConfig("quarterly", feature.TimeEpochDays, 91, -1),
		},
	}
	opt.removeInvalid()

	expected := []SeasonalityConfig{
		NewWeeklySeasonalityConfig(3),
		NewYearlySeasonalityConfig(10),
	}
	assert.Equal(t, expected, opt.SeasonalityConfigs)
}

func TestSeasonalityConfig(t *testing.T) {
	opt := NewDefaultSeasonalityOptions()

	weekly, exists := opt.Config(LabelSeasWeekly)
	require.True(t, exists)
	assert.Equal(t, DefaultWeeklyOrders, weekly.Orders)
	assert.InDelta(t, DefaultWeeklyRegularization*100, weekly.Penalty(100, 1000), 1e-9)
	assert.InDelta(t, DefaultWeeklyRegularization*100*4, weekly.Penalty(100, 7), 1e-9)

	_, exists = opt.Config("hourly")
	assert.False(t, exists)
}

func TestSeasonalityPenalty(t *testing.T) {
	yearly := NewYearlySeasonalityConfig(DefaultYearlyOrders)

	testData := map[string]struct {
		n        int
		spanDays float64
		expected float64
	}{
		"long history": {
			n:        1000,
			spanDays: 1000,
			expected: DefaultYearlyRegularization * 1000,
		},
		"one year of history": {
			n:        366,
			spanDays: 366,
			expected: DefaultYearlyRegularization * 366 * 4,
		},
		"single day": {
			n:        2,
			spanDays: 1,
			expected: DefaultYearlyRegularization * 2 * 732 * 732,
		},
		"zero span treated as one day": {
			n:        2,
			spanDays: 0,
			expected: DefaultYearlyRegularization * 2 * 732 * 732,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, td.expected, yearly.Penalty(td.n, td.spanDays), 1e-6)
		})
	}
}

func TestSeasonalityPenaltyGrowsAsSpanShrinks(t *testing.T) {
	yearly := NewYearlySeasonalityConfig(DefaultYearlyOrders)
	prev := 0.0
	for _, span := range []float64{2000, 730, 365, 90, 30, 7, 1} {
		// per observation penalty
		p := yearly.Penalty(1, span)
		assert.GreaterOrEqual(t, p, prev, "span %g", span)
		prev = p
	}
}

func TestSeasonalityFittable(t *testing.T) {
	testData := map[string]struct {
		cfg      SeasonalityConfig
		spanDays float64
		expected bool
	}{
		"weekly two weeks": {
			cfg:      NewWeeklySeasonalityConfig(3),
			spanDays: 14,
			expected: true,
		},
		"weekly under two weeks": {
			cfg:      NewWeeklySeasonalityConfig(3),
			spanDays: 13,
			expected: false,
		},
		"yearly single day": {
			cfg:      NewYearlySeasonalityConfig(10),
			spanDays: 1,
			expected: true,
		},
		"shrink without penalty": {
			cfg:      SeasonalityConfig{Name: "yearly", PeriodDays: 366, Orders: 2, ShrinkShortHistory: true},
			spanDays: 30,
			expected: false,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, td.cfg.Fittable(td.spanDays))
		})
	}
}

func TestSeasonalityGenerateFeatures(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tSeries := timedataset.GenerateDays(14, start)
	epochDays := feature.NewTime(feature.TimeEpochDays).Generate(tSeries)

	weekly := NewWeeklySeasonalityConfig(3)
	res, err := weekly.GenerateFeatures(epochDays)
	require.NoError(t, err)
	assert.Equal(t, 6, res.Len())

	// every column repeats with a period of 7 days
	for _, label := range res.Labels().Labels() {
		data, _ := res.Get(label)
		for i := 0; i < 7; i++ {
			assert.InDelta(t, data[i], data[i+7], 1e-9, label.String())
		}
	}

	sin1, exists := res.Get(feature.NewSeasonality(LabelSeasWeekly, feature.FourierCompSin, 1))
	require.True(t, exists)
	assert.InDelta(t, math.Sin(2*math.Pi*epochDays[0]/7), sin1[0], 1e-9)
}
