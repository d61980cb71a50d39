package forecaster

import (
	"fmt"
	"time"

	"github.com/Ujjwal-270/Stock-Prediction/forecast/options"
	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
)

const (
	DaysPerWeek     = 7
	DaysPerLeapYear = 366
)

// referenceMonday starts a leap year on a Monday so one pass covers every weekday and every
// leap ordinal.
var referenceMonday = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// DatedValue is a single component value on a date
type DatedValue struct {
	T     time.Time `json:"ds"`
	Value float64   `json:"value"`
}

// Components is the read-only decomposition of a fitted model. Weekly is indexed Monday through
// Sunday and Yearly by leap-year ordinal minus one so Feb 29 has its own entry.
type Components struct {
	Trend  []DatedValue             `json:"trend"`
	Weekly [DaysPerWeek]float64     `json:"weekly"`
	Yearly [DaysPerLeapYear]float64 `json:"yearly"`
}

// Components projects the fitted model into its trend over the historical span plus horizonDays,
// the weekly pattern and the yearly pattern.
func (m *FittedModel) Components(horizonDays int) (Components, error) {
	if horizonDays < 0 {
		return Components{}, fmt.Errorf("got %d days, %w", horizonDays, ErrInvalidHorizon)
	}

	var res Components

	t := m.dates(horizonDays)
	_, comp, err := m.series.Predict(t)
	if err != nil {
		return Components{}, fmt.Errorf("%w, %w", ErrFit, err)
	}
	res.Trend = make([]DatedValue, 0, len(t))
	for i, tPnt := range t {
		res.Trend = append(res.Trend, DatedValue{T: tPnt, Value: comp.Trend[i]})
	}

	refT := timedataset.DailyRange(referenceMonday, timedataset.AddDays(referenceMonday, DaysPerLeapYear-1))
	_, refComp, err := m.series.Predict(refT)
	if err != nil {
		return Components{}, fmt.Errorf("%w, %w", ErrFit, err)
	}
	weekly := refComp.SeasonalityComponent(options.LabelSeasWeekly)
	yearly := refComp.SeasonalityComponent(options.LabelSeasYearly)
	copy(res.Weekly[:], weekly[:DaysPerWeek])
	copy(res.Yearly[:], yearly)
	return res, nil
}
