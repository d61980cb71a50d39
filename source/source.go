// Package source fetches daily closing prices for a symbol over a date range. Sources only
// deliver raw observations. Repairing them into a fit-ready series is left to the forecaster.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
)

var (
	ErrEmptySymbol  = errors.New("empty symbol")
	ErrInvalidRange = errors.New("start date is after end date")
	ErrNoData       = errors.New("no data found")
)

// DefaultSymbols are offered when no symbol is specified
var DefaultSymbols = []string{"AAPL", "NFLX", "GOOGL", "AMZN", "MSFT"}

// DefaultStart is the beginning of the default fetch range which runs through today
var DefaultStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// PriceSource delivers (date, close) observations for a symbol between start and end inclusive
type PriceSource interface {
	Fetch(ctx context.Context, req Request) ([]timedataset.Observation, error)
}

// Request identifies a symbol and calendar date range to fetch
type Request struct {
	Symbol string    `json:"symbol"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// NewRequest normalizes the symbol and dates. A zero start uses DefaultStart and a zero end uses
// the current date.
func NewRequest(symbol string, start, end time.Time) (Request, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Request{}, ErrEmptySymbol
	}
	if start.IsZero() {
		start = DefaultStart
	}
	if end.IsZero() {
		end = time.Now()
	}
	start = timedataset.CalendarDate(start)
	end = timedataset.CalendarDate(end)
	if start.After(end) {
		return Request{}, fmt.Errorf("%s to %s, %w", start.Format(time.DateOnly), end.Format(time.DateOnly), ErrInvalidRange)
	}
	return Request{Symbol: symbol, Start: start, End: end}, nil
}

// Key uniquely identifies the request
func (r Request) Key() string {
	return fmt.Sprintf("%s:%s:%s", r.Symbol, r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
}

// Contains reports whether the calendar date of t falls inside the request range
func (r Request) Contains(t time.Time) bool {
	d := timedataset.CalendarDate(t)
	return !d.Before(r.Start) && !d.After(r.End)
}
