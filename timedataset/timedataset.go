// Package timedataset holds the validated daily price series consumed by the forecaster along
// with helpers to normalize timestamps into zone-free calendar dates.
package timedataset

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrNonMontonic        = errors.New("time feature is not monotonic")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
	ErrNotCalendarDate    = errors.New("time is not a normalized calendar date")
)

// TimeDataset represents an observed series storing a slice of calendar dates and values.
// Both must be of the same length, dates are strictly increasing and carry no time of day.
type TimeDataset struct {
	T []time.Time `json:"time"`
	Y []float64   `json:"values"`
}

// NewUnivariateDataset returns an instance of a TimeDataset given a date and value slice. Dates
// must already be normalized with CalendarDate and strictly increasing.
func NewUnivariateDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	var lastT time.Time
	for i := 0; i < len(t); i++ {
		currT := t[i]
		if !IsCalendarDate(currT) {
			return nil, fmt.Errorf("%s at %d, %w", currT, i, ErrNotCalendarDate)
		}
		if i > 0 && !currT.After(lastT) {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMontonic)
		}
		lastT = currT
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(ySeries, y)
	td := &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}

	return td, nil
}

// Copy returns a deep copy of the dataset
func (td *TimeDataset) Copy() *TimeDataset {
	tSeries := make([]time.Time, len(td.T))
	ySeries := make([]float64, len(td.T))
	copy(tSeries, td.T)
	copy(ySeries, td.Y)
	return &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}
}

// Len returns the number of observations
func (td *TimeDataset) Len() int {
	if td == nil {
		return 0
	}
	return len(td.T)
}

// StartTime returns the first observed date
func (td *TimeDataset) StartTime() time.Time {
	if td == nil {
		return time.Time{}
	}
	return TimeSlice(td.T).StartTime()
}

// EndTime returns the last observed date
func (td *TimeDataset) EndTime() time.Time {
	if td == nil {
		return time.Time{}
	}
	return TimeSlice(td.T).EndTime()
}

// SpanDays returns the number of days between the first and last observation
func (td *TimeDataset) SpanDays() int {
	if td.Len() < 2 {
		return 0
	}
	return DaysBetween(td.StartTime(), td.EndTime())
}
