package source

import (
	"sort"
	"time"

	"github.com/Ujjwal-270/Stock-Prediction/market"
	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
)

// GapReport summarizes how complete a fetched series is against a trading calendar
type GapReport struct {
	Rows          int         `json:"rows"`
	ValidRows     int         `json:"valid_rows"`
	NonTradingDay []time.Time `json:"non_trading_days"`
	Missing       []time.Time `json:"missing_trading_days"`
}

// Gaps compares the valid observations against the calendar's trading days within the observed
// span. Observations on days the market was closed and trading days without an observation are
// both reported.
func Gaps(obs []timedataset.Observation, cal *market.Calendar) GapReport {
	report := GapReport{Rows: len(obs)}

	seen := make(map[time.Time]struct{}, len(obs))
	t := make([]time.Time, 0, len(obs))
	for _, o := range obs {
		if !o.Valid() {
			continue
		}
		report.ValidRows++
		d := timedataset.CalendarDate(o.T)
		if _, exists := seen[d]; exists {
			continue
		}
		seen[d] = struct{}{}
		t = append(t, d)
		if !cal.IsTradingDay(d) {
			report.NonTradingDay = append(report.NonTradingDay, d)
		}
	}
	sort.Slice(t, func(i, j int) bool {
		return t[i].Before(t[j])
	})
	sort.Slice(report.NonTradingDay, func(i, j int) bool {
		return report.NonTradingDay[i].Before(report.NonTradingDay[j])
	})
	report.Missing = cal.MissingTradingDays(t)
	return report
}
