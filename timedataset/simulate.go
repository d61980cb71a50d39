package timedataset

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateDays returns n consecutive calendar dates beginning at start
func GenerateDays(n int, start time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, AddDays(start, i))
	}
	return t
}

// Series is a synthetic value series aligned with a slice of dates
type Series []float64

// Add sums src into s in place
func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// MaskWithWeekend marks every Saturday and Sunday value as missing, leaving the closes an
// exchange would report
func (s Series) MaskWithWeekend(t []time.Time) Series {
	for i := range s {
		switch t[i].Weekday() {
		case time.Saturday, time.Sunday:
			s[i] = math.NaN()
		}
	}
	return s
}

// GenerateConstY returns n copies of val
func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateLinearY returns slope*days since start for each date
func GenerateLinearY(t []time.Time, start time.Time, slope float64) Series {
	y := make([]float64, 0, len(t))
	for _, tPnt := range t {
		y = append(y, slope*float64(DaysBetween(start, tPnt)))
	}
	return Series(y)
}

// GenerateWaveY returns a sine wave with a period in days evaluated on each date's epoch day
func GenerateWaveY(t []time.Time, amp, periodDays, order, dayOffset float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		val := amp * math.Sin(2.0*math.Pi*order/periodDays*(EpochDays(t[i])+dayOffset))
		y = append(y, val)
	}
	return Series(y)
}

// GenerateNoise returns gaussian noise with the given scale. The source is seeded so the
// same seed always produces the same series.
func GenerateNoise(t []time.Time, noiseScale float64, seed uint64) Series {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	y := make([]float64, 0, len(t))
	for range t {
		y = append(y, rng.NormFloat64()*noiseScale)
	}
	return Series(y)
}
