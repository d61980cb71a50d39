package timedataset

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"
)

// MinObservations is the fewest valid points a series can have and still be fit
const MinObservations = 2

var (
	ErrEmptySeries      = errors.New("empty series")
	ErrInsufficientData = errors.New("insufficient data")
)

// Observation is a single raw (date, closing price) pair as delivered by a price source.
// A missing value is represented with NaN.
type Observation struct {
	T time.Time `json:"date"`
	Y float64   `json:"close"`
}

// NewObservations zips a time and value slice into observations. The shorter slice determines
// the number of observations.
func NewObservations(t []time.Time, y []float64) []Observation {
	n := min(len(t), len(y))
	obs := make([]Observation, 0, n)
	for i := 0; i < n; i++ {
		obs = append(obs, Observation{T: t[i], Y: y[i]})
	}
	return obs
}

// Valid reports whether the observation can be used for fitting. The date must be set and the
// value must be a finite positive price.
func (o Observation) Valid() bool {
	if o.T.IsZero() {
		return false
	}
	if math.IsNaN(o.Y) || math.IsInf(o.Y, 0) {
		return false
	}
	return o.Y > 0
}

// Validate turns an arbitrary sequence of observations into a TimeDataset. Invalid rows are
// dropped, dates are normalized to zone-free calendar dates, duplicate dates keep the
// latest-received valid entry and the result is sorted ascending. minHistory below
// MinObservations is raised to MinObservations.
func Validate(obs []Observation, minHistory int) (*TimeDataset, error) {
	if len(obs) == 0 {
		return nil, ErrEmptySeries
	}
	if minHistory < MinObservations {
		minHistory = MinObservations
	}

	latest := make(map[time.Time]float64, len(obs))
	var dropped, duplicates int
	for _, o := range obs {
		if !o.Valid() {
			dropped++
			continue
		}
		d := CalendarDate(o.T)
		if _, exists := latest[d]; exists {
			duplicates++
		}
		latest[d] = o.Y
	}

	if dropped > 0 || duplicates > 0 {
		slog.Debug("repaired observed series",
			"rows", len(obs), "dropped_invalid", dropped, "duplicate_dates", duplicates)
	}

	if len(latest) < minHistory {
		return nil, fmt.Errorf("%d valid observations out of %d rows, need at least %d, %w",
			len(latest), len(obs), minHistory, ErrInsufficientData)
	}

	t := make([]time.Time, 0, len(latest))
	for d := range latest {
		t = append(t, d)
	}
	sort.Slice(t, func(i, j int) bool {
		return t[i].Before(t[j])
	})

	y := make([]float64, 0, len(t))
	for _, d := range t {
		y = append(y, latest[d])
	}
	return NewUnivariateDataset(t, y)
}
