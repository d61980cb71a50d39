// Package market describes when the exchange is open so forecasts can be limited to trading days
package market

import (
	"strings"
	"sync"
	"time"

	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/aa"
	"github.com/rickar/cal/v2/us"
)

// Holiday is a full day market closure
type Holiday struct {
	Name string    `json:"name"`
	T    time.Time `json:"date"`
}

type closure struct {
	hol       *cal.Holiday
	firstYear int
}

// Calendar is a trading calendar of weekends and full day holiday closures. It is safe for
// concurrent use.
type Calendar struct {
	name     string
	closures []closure

	mu     sync.Mutex
	byYear map[int]map[time.Time]string
}

// NewNYSE returns the full day holiday schedule of the New York Stock Exchange. New Year's Day
// falling on a Saturday is not observed on the preceding Friday.
func NewNYSE() *Calendar {
	return &Calendar{
		name: "NYSE",
		closures: []closure{
			{hol: us.NewYear},
			{hol: us.MlkDay},
			{hol: us.PresidentsDay},
			{hol: aa.GoodFriday},
			{hol: us.MemorialDay},
			{hol: us.Juneteenth, firstYear: 2022},
			{hol: us.IndependenceDay},
			{hol: us.LaborDay},
			{hol: us.ThanksgivingDay},
			{hol: us.ChristmasDay},
		},
		byYear: make(map[int]map[time.Time]string),
	}
}

// Name of the exchange
func (c *Calendar) Name() string {
	return c.name
}

func (c *Calendar) holidays(year int) map[time.Time]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if hols, exists := c.byYear[year]; exists {
		return hols
	}

	hols := make(map[time.Time]string)
	for _, cl := range c.closures {
		if year < cl.firstYear {
			continue
		}
		actual, observed := cl.hol.Calc(year)
		if observed.IsZero() {
			continue
		}
		// the exchange never closes for a holiday observed in the prior year
		if observed.Year() != actual.Year() {
			continue
		}
		date := time.Date(observed.Year(), observed.Month(), observed.Day(), 0, 0, 0, 0, time.UTC)
		hols[date] = strings.ReplaceAll(cl.hol.Name, " ", "_")
	}
	c.byYear[year] = hols
	return hols
}

// Holiday returns the name of the closure on the given date along with whether the market is
// closed for a holiday. Weekends are not holidays.
func (c *Calendar) Holiday(t time.Time) (string, bool) {
	date := timedataset.CalendarDate(t)
	name, exists := c.holidays(date.Year())[date]
	return name, exists
}

// IsTradingDay reports whether the market is open on the date
func (c *Calendar) IsTradingDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, closed := c.Holiday(t)
	return !closed
}

// Holidays returns every holiday closure between start and end inclusive
func (c *Calendar) Holidays(start, end time.Time) []Holiday {
	var res []Holiday
	for _, d := range timedataset.DailyRange(timedataset.CalendarDate(start), timedataset.CalendarDate(end)) {
		if name, closed := c.Holiday(d); closed {
			res = append(res, Holiday{Name: name, T: d})
		}
	}
	return res
}

// TradingDays returns the trading days between start and end inclusive
func (c *Calendar) TradingDays(start, end time.Time) []time.Time {
	var res []time.Time
	for _, d := range timedataset.DailyRange(timedataset.CalendarDate(start), timedataset.CalendarDate(end)) {
		if c.IsTradingDay(d) {
			res = append(res, d)
		}
	}
	return res
}

// MissingTradingDays returns the trading days between the first and last date that have no
// observation. The dates must be sorted calendar dates.
func (c *Calendar) MissingTradingDays(t []time.Time) []time.Time {
	if len(t) == 0 {
		return nil
	}
	observed := make(map[time.Time]struct{}, len(t))
	for _, tPnt := range t {
		observed[timedataset.CalendarDate(tPnt)] = struct{}{}
	}

	var missing []time.Time
	for _, d := range c.TradingDays(t[0], t[len(t)-1]) {
		if _, exists := observed[d]; !exists {
			missing = append(missing, d)
		}
	}
	return missing
}
