package forecaster

import (
	"bytes"
	"encoding/csv"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/Ujjwal-270/Stock-Prediction/linearmodel"
	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seriesStart = time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC)

// generateTrendWeekly returns n daily observations of 100 + slope*d plus a weekly sine of the
// given amplitude and seeded noise
func generateTrendWeekly(n int, slope, weeklyAmp, noise float64) []timedataset.Observation {
	t := timedataset.GenerateDays(n, seriesStart)
	y := make(timedataset.Series, n)
	y.Add(timedataset.GenerateConstY(n, 100.0)).
		Add(timedataset.GenerateLinearY(t, seriesStart, slope)).
		Add(timedataset.GenerateWaveY(t, weeklyAmp, 7.0, 1.0, 0.0)).
		Add(timedataset.GenerateNoise(t, noise, 42))
	return timedataset.NewObservations(t, y)
}

func fitObservations(t *testing.T, obs []timedataset.Observation, opt *Options) *FittedModel {
	t.Helper()
	td, err := Validate(obs, opt)
	require.NoError(t, err)
	m, err := Fit(td, opt)
	require.NoError(t, err)
	return m
}

func TestEndToEndTrendWeekly(t *testing.T) {
	obs := generateTrendWeekly(800, 0.5, 2.0, 0.5)
	opt := NewDefaultOptions()
	opt.HorizonDays = 30

	m, fc, err := Run(obs, opt)
	require.NoError(t, err)
	require.Len(t, fc, 830)

	future := fc.Future()
	require.Len(t, future, 30)
	assert.Equal(t, timedataset.AddDays(obs[len(obs)-1].T, 1), future[0].T)
	assert.Equal(t, timedataset.AddDays(obs[len(obs)-1].T, 30), future[29].T)

	for _, p := range future {
		d := float64(timedataset.DaysBetween(seriesStart, p.T))
		expected := 100.0 + 0.5*d + 2.0*math.Sin(2.0*math.Pi/7.0*timedataset.EpochDays(p.T))
		assert.InDelta(t, expected, p.Value, 1.5, p.T.Format(time.DateOnly))
	}

	// a full week apart cancels the weekly pattern leaving the slope
	slope := (future[29].Value - future[22].Value) / 7.0
	assert.InDelta(t, 0.5, slope, 0.05)

	comp, err := m.Components(30)
	require.NoError(t, err)
	maxW, minW := math.Inf(-1), math.Inf(1)
	for _, w := range comp.Weekly {
		maxW = math.Max(maxW, w)
		minW = math.Min(minW, w)
	}
	assert.InDelta(t, 4.0, maxW-minW, 0.5)
}

func TestPredictHistoryRoundTrip(t *testing.T) {
	obs := generateTrendWeekly(400, 0.2, 1.0, 0.3)
	m := fitObservations(t, obs, nil)

	fc, err := m.Predict(0)
	require.NoError(t, err)
	require.Len(t, fc, len(obs))
	for i, p := range fc {
		assert.Equal(t, obs[i].T, p.T)
		assert.True(t, p.Historical)
		assert.InDelta(t, obs[i].Y, p.Value, 2.0)
		assert.LessOrEqual(t, p.Lower, p.Value)
		assert.GreaterOrEqual(t, p.Upper, p.Value)
	}
	assert.Less(t, m.Scores().MSE, 0.5)
}

func TestPredictBandWidens(t *testing.T) {
	obs := generateTrendWeekly(200, 0.1, 1.0, 1.0)
	m := fitObservations(t, obs, nil)
	require.Greater(t, m.NoiseScale(), 0.0)

	fc, err := m.Predict(60)
	require.NoError(t, err)

	histWidth := fc[0].Upper - fc[0].Lower
	for _, p := range fc {
		width := p.Upper - p.Lower
		if p.Historical {
			assert.InDelta(t, histWidth, width, 1e-9)
		}
	}
	future := fc.Future()
	prevWidth := histWidth
	for _, p := range future {
		width := p.Upper - p.Lower
		assert.Greater(t, width, prevWidth)
		prevWidth = width
	}
}

func TestPredictConfidenceWidensBand(t *testing.T) {
	obs := generateTrendWeekly(120, 0.1, 1.0, 1.0)
	td, err := Validate(obs, nil)
	require.NoError(t, err)

	widths := make([]float64, 0, 2)
	for _, conf := range []float64{0.5, 0.95} {
		opt := NewDefaultOptions()
		opt.Confidence = conf
		m, err := Fit(td, opt)
		require.NoError(t, err)
		fc, err := m.Predict(10)
		require.NoError(t, err)
		last := fc[len(fc)-1]
		widths = append(widths, last.Upper-last.Lower)
	}
	assert.Less(t, widths[0], widths[1])
}

func TestComponents(t *testing.T) {
	obs := generateTrendWeekly(800, 0.5, 2.0, 0.5)
	m := fitObservations(t, obs, nil)

	comp, err := m.Components(10)
	require.NoError(t, err)
	assert.Len(t, comp.Trend, 810)

	var sum float64
	for _, w := range comp.Weekly {
		sum += w
	}
	assert.InDelta(t, 0.0, sum, 1e-6)

	// Monday is day 0 in the weekly projection
	monday := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	expected := 2.0 * math.Sin(2.0*math.Pi/7.0*timedataset.EpochDays(monday))
	assert.InDelta(t, expected, comp.Weekly[0], 0.3)

	fc, err := m.Predict(10)
	require.NoError(t, err)
	for i, p := range fc {
		assert.Equal(t, p.T, comp.Trend[i].T)
		assert.InDelta(t, p.Value, p.Trend+p.Weekly+p.Yearly, 1e-9)
	}

	_, err = m.Components(-1)
	assert.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestYearlyShrinksWithSpan(t *testing.T) {
	yearlyAmp := func(n int) float64 {
		start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
		tSeries := timedataset.GenerateDays(n, start)
		y := make(timedataset.Series, n)
		y.Add(timedataset.GenerateConstY(n, 100.0)).
			Add(timedataset.GenerateWaveY(tSeries, 10.0, 366.0, 1.0, 0.0))
		m := fitObservations(t, timedataset.NewObservations(tSeries, y), nil)

		comp, err := m.Components(0)
		require.NoError(t, err)
		maxY, minY := math.Inf(-1), math.Inf(1)
		for _, v := range comp.Yearly {
			maxY = math.Max(maxY, v)
			minY = math.Min(minY, v)
		}
		return (maxY - minY) / 2.0
	}

	spans := []int{1095, 365, 120, 30, 7}
	amps := make([]float64, 0, len(spans))
	for _, n := range spans {
		amps = append(amps, yearlyAmp(n))
	}
	assert.Greater(t, amps[0], 5.0)
	for i := 1; i < len(amps); i++ {
		assert.LessOrEqual(t, amps[i], amps[i-1]*1.05+0.05, "span %d days", spans[i])
	}
	assert.Less(t, amps[len(amps)-1], 0.05)
}

func TestWeekdayOnlyCloses(t *testing.T) {
	testData := map[string]struct {
		level float64
	}{
		"penny stock": {level: 3.0},
		"large cap":   {level: 100.0},
		"index level": {level: 50000.0},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			n := 1095
			tSeries := timedataset.GenerateDays(n, seriesStart)
			y := make(timedataset.Series, n)
			y.Add(timedataset.GenerateConstY(n, td.level)).
				Add(timedataset.GenerateLinearY(tSeries, seriesStart, td.level*0.0005)).
				Add(timedataset.GenerateWaveY(tSeries, td.level*0.01, 7.0, 1.0, 0.0)).
				Add(timedataset.GenerateNoise(tSeries, td.level*0.005, 11)).
				MaskWithWeekend(tSeries)

			m, fc, err := Run(timedataset.NewObservations(tSeries, y), nil)
			require.NoError(t, err)

			for _, p := range fc {
				require.Greater(t, p.Value, 0.5*td.level, "%s %s", p.T.Format(time.DateOnly), p.T.Weekday())
			}

			end := m.TrainEndTime()
			expected := td.level * (1.0 + 0.0005*float64(timedataset.DaysBetween(seriesStart, end)))
			var found bool
			for _, p := range fc {
				if p.T.Equal(end) {
					found = true
					assert.InDelta(t, expected, p.Trend, 0.05*td.level)
				}
			}
			assert.True(t, found)

			comp, err := m.Components(0)
			require.NoError(t, err)
			for i, w := range comp.Weekly {
				assert.Less(t, math.Abs(w), 0.05*td.level, "weekday %d", i)
			}
		})
	}
}

func TestTwoPointSeries(t *testing.T) {
	obs := []timedataset.Observation{
		{T: seriesStart, Y: 100.0},
		{T: timedataset.AddDays(seriesStart, 1), Y: 101.0},
	}
	m := fitObservations(t, obs, nil)

	comp, err := m.Components(0)
	require.NoError(t, err)
	for i, v := range comp.Yearly {
		assert.InDelta(t, 0.0, v, 1e-3, i)
	}
	for i, v := range comp.Weekly {
		assert.InDelta(t, 0.0, v, 1e-9, i)
	}

	fc, err := m.Predict(5)
	require.NoError(t, err)
	require.Len(t, fc, 7)
	assert.InDelta(t, 100.0, fc[0].Value, 1e-3)
	assert.InDelta(t, 101.0, fc[1].Value, 1e-3)
	for _, p := range fc {
		assert.False(t, math.IsNaN(p.Lower))
		assert.False(t, math.IsNaN(p.Upper))
	}
}

func TestRejections(t *testing.T) {
	outliers := generateTrendWeekly(200, 0.1, 1.0, 1.0)
	for i := 10; i < len(outliers); i += 17 {
		outliers[i].Y += 50.0
	}

	testData := map[string]struct {
		obs         []timedataset.Observation
		opt         *Options
		horizon     int
		expectedErr error
	}{
		"empty series": {
			obs:         nil,
			expectedErr: timedataset.ErrEmptySeries,
		},
		"all invalid": {
			obs: []timedataset.Observation{
				{T: seriesStart, Y: math.NaN()},
				{T: timedataset.AddDays(seriesStart, 1), Y: -1.0},
			},
			expectedErr: timedataset.ErrInsufficientData,
		},
		"single point": {
			obs:         []timedataset.Observation{{T: seriesStart, Y: 10.0}},
			expectedErr: timedataset.ErrInsufficientData,
		},
		"duplicate dates collapse below minimum": {
			obs: []timedataset.Observation{
				{T: seriesStart, Y: 10.0},
				{T: seriesStart.Add(3 * time.Hour), Y: 11.0},
			},
			expectedErr: timedataset.ErrInsufficientData,
		},
		"negative horizon": {
			obs:         generateTrendWeekly(30, 0.1, 1.0, 0.1),
			horizon:     -1,
			expectedErr: ErrInvalidHorizon,
		},
		"invalid confidence": {
			obs:         generateTrendWeekly(30, 0.1, 1.0, 0.1),
			opt:         &Options{Confidence: 1.0, MinHistory: 2},
			expectedErr: ErrInvalidConfidence,
		},
		"min history too low": {
			obs:         generateTrendWeekly(30, 0.1, 1.0, 0.1),
			opt:         &Options{Confidence: 0.8, MinHistory: 1},
			expectedErr: ErrInvalidMinHistory,
		},
		"min history not met": {
			obs:         generateTrendWeekly(30, 0.1, 1.0, 0.1),
			opt:         &Options{Confidence: 0.8, MinHistory: 60},
			expectedErr: timedataset.ErrInsufficientData,
		},
		"iteration budget exhausted": {
			obs: outliers,
			opt: func() *Options {
				opt := NewDefaultOptions()
				opt.SeriesOptions.RobustOptions.Iterations = 1
				opt.SeriesOptions.RobustOptions.Tolerance = 1e-12
				return opt
			}(),
			expectedErr: linearmodel.ErrNotConverged,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt := td.opt
			if opt == nil {
				opt = NewDefaultOptions()
				opt.HorizonDays = td.horizon
			}
			_, _, err := Run(td.obs, opt)
			assert.ErrorIs(t, err, td.expectedErr)
		})
	}
}

func TestFitErrorWrapsCause(t *testing.T) {
	obs := generateTrendWeekly(200, 0.1, 1.0, 1.0)
	for i := 10; i < len(obs); i += 17 {
		obs[i].Y += 50.0
	}
	opt := NewDefaultOptions()
	opt.SeriesOptions.RobustOptions.Iterations = 1
	opt.SeriesOptions.RobustOptions.Tolerance = 1e-12

	td, err := Validate(obs, opt)
	require.NoError(t, err)
	_, err = Fit(td, opt)
	assert.ErrorIs(t, err, ErrFit)
	assert.ErrorIs(t, err, linearmodel.ErrNotConverged)

	m := fitObservations(t, obs, nil)
	_, err = m.Predict(-3)
	assert.ErrorIs(t, err, ErrInvalidHorizon)
}

func TestDeterminism(t *testing.T) {
	obs := generateTrendWeekly(300, 0.3, 1.5, 0.8)

	fc1, err := fitObservations(t, obs, nil).Predict(20)
	require.NoError(t, err)
	fc2, err := fitObservations(t, obs, nil).Predict(20)
	require.NoError(t, err)
	assert.Equal(t, fc1, fc2)
}

func TestValidateRepairsInput(t *testing.T) {
	shuffled := []timedataset.Observation{
		{T: time.Date(2024, 1, 3, 15, 30, 0, 0, time.FixedZone("EST", -5*3600)), Y: 3.0},
		{T: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Y: 1.0},
		{T: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Y: math.Inf(1)},
		{T: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Y: 2.0},
		{T: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), Y: 1.5},
	}
	td, err := Validate(shuffled, nil)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}, td.T)
	assert.Equal(t, []float64{1.5, 2.0, 3.0}, td.Y)
}

func TestConcurrentPredict(t *testing.T) {
	m := fitObservations(t, generateTrendWeekly(200, 0.2, 1.0, 0.5), nil)
	expected, err := m.Predict(15)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Forecast, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = m.Predict(15)
		}(i)
	}
	wg.Wait()
	for _, res := range results {
		assert.Equal(t, expected, res)
	}
}

func TestTradingDaysOnly(t *testing.T) {
	start := time.Date(2024, time.December, 2, 0, 0, 0, 0, time.UTC)
	tSeries := timedataset.GenerateDays(21, start)
	y := make(timedataset.Series, len(tSeries))
	y.Add(timedataset.GenerateConstY(len(tSeries), 50.0)).
		Add(timedataset.GenerateLinearY(tSeries, start, 0.1))

	opt := NewDefaultOptions()
	opt.TradingDaysOnly = true
	m := fitObservations(t, timedataset.NewObservations(tSeries, y), opt)

	fc, err := m.Predict(14)
	require.NoError(t, err)
	for _, p := range fc {
		assert.NotEqual(t, time.Saturday, p.T.Weekday())
		assert.NotEqual(t, time.Sunday, p.T.Weekday())
		assert.NotEqual(t, time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC), p.T)
		assert.NotEqual(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), p.T)
	}
	assert.Equal(t, time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC), fc[len(fc)-1].T)
}

func TestModelRoundTrip(t *testing.T) {
	obs := generateTrendWeekly(300, 0.3, 1.5, 0.8)
	m := fitObservations(t, obs, nil)

	model, err := m.Model()
	require.NoError(t, err)
	out, err := json.Marshal(model)
	require.NoError(t, err)

	var loaded Model
	require.NoError(t, json.Unmarshal(out, &loaded))
	m2, err := NewFromModel(loaded)
	require.NoError(t, err)

	fc1, err := m.Predict(10)
	require.NoError(t, err)
	fc2, err := m2.Predict(10)
	require.NoError(t, err)
	require.Len(t, fc2, len(fc1))
	for i := range fc1 {
		assert.Equal(t, fc1[i].T, fc2[i].T)
		assert.InDelta(t, fc1[i].Value, fc2[i].Value, 1e-9)
		assert.InDelta(t, fc1[i].Upper, fc2[i].Upper, 1e-9)
	}

	var buf bytes.Buffer
	require.NoError(t, loaded.TablePrint(&buf))
	assert.Contains(t, buf.String(), "Forecaster:")

	_, err = NewFromModel(Model{})
	assert.ErrorIs(t, err, ErrNoOptionsInModel)
}

func TestModelEq(t *testing.T) {
	m := fitObservations(t, generateTrendWeekly(60, 0.3, 1.5, 0.8), nil)
	eq, err := m.ModelEq()
	require.NoError(t, err)
	assert.Contains(t, eq, "y ~ ")
	assert.Contains(t, eq, "growth_intercept")
}

func TestForecastWriters(t *testing.T) {
	fc := Forecast{
		{T: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Value: 1.5, Lower: 1.0, Upper: 2.0, Trend: 1.5, Historical: true},
		{T: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Value: 2.5, Lower: 1.75, Upper: 3.25, Trend: 2.0, Weekly: 0.5},
	}

	var csvBuf bytes.Buffer
	require.NoError(t, fc.WriteCSV(&csvBuf))
	records, err := csv.NewReader(&csvBuf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"ds", "yhat", "yhat_lower", "yhat_upper", "trend", "weekly", "yearly", "historical"},
		{"2024-01-01", "1.5", "1", "2", "1.5", "0", "0", "true"},
		{"2024-01-02", "2.5", "1.75", "3.25", "2", "0.5", "0", "false"},
	}, records)

	var jsonBuf bytes.Buffer
	require.NoError(t, fc.WriteJSON(&jsonBuf))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, 2.5, decoded[1]["yhat"])
	assert.Equal(t, 3.25, decoded[1]["yhat_upper"])

	var tblBuf bytes.Buffer
	require.NoError(t, fc.Tail(1).TablePrint(&tblBuf))
	expected := "         ds  yhat yhat_lower yhat_upper\n" +
		" 2024-01-02 2.500      1.750      3.250\n"
	assert.Equal(t, expected, tblBuf.String())

	assert.Len(t, fc.Tail(5), 2)
	assert.Len(t, fc.Future(), 1)
	assert.Equal(t, []float64{1.5, 2.5}, fc.Values())
}

func TestFitErrorOnNonFinite(t *testing.T) {
	td, err := timedataset.NewUnivariateDataset(
		timedataset.GenerateDays(3, seriesStart),
		[]float64{1.0, math.Inf(1), 2.0},
	)
	require.NoError(t, err)

	opt := NewDefaultOptions()
	opt.SeriesOptions.RobustOptions.Enabled = false
	_, err = Fit(td, opt)
	assert.ErrorIs(t, err, ErrFit)
	assert.ErrorIs(t, err, linearmodel.ErrSingularSystem)
}
