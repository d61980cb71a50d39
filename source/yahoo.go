package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const (
	DefaultYahooURL       = "https://query1.finance.yahoo.com/v8/finance/chart"
	DefaultYahooTimeout   = 30 * time.Second
	DefaultYahooRateLimit = 2.0
	DefaultYahooBurst     = 1

	yahooUserAgent = "pricecast/1.0"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrYahooResponse    = errors.New("yahoo chart error")
)

// Yahoo fetches daily closes from the Yahoo Finance chart endpoint. Requests are rate limited
// across every goroutine sharing the instance.
type Yahoo struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// YahooOption configures a Yahoo source
type YahooOption func(*Yahoo)

// WithYahooURL overrides the chart endpoint
func WithYahooURL(u string) YahooOption {
	return func(y *Yahoo) {
		y.baseURL = u
	}
}

// WithHTTPClient overrides the http client
func WithHTTPClient(c *http.Client) YahooOption {
	return func(y *Yahoo) {
		y.client = c
	}
}

// WithRateLimit sets the sustained requests per second and burst
func WithRateLimit(rps float64, burst int) YahooOption {
	return func(y *Yahoo) {
		if burst < 1 {
			burst = 1
		}
		y.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewYahoo creates a Yahoo chart source
func NewYahoo(opts ...YahooOption) *Yahoo {
	y := &Yahoo{
		baseURL: DefaultYahooURL,
		client:  &http.Client{Timeout: DefaultYahooTimeout},
		limiter: rate.NewLimiter(rate.Limit(DefaultYahooRateLimit), DefaultYahooBurst),
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol               string `json:"symbol"`
		ExchangeTimezoneName string `json:"exchangeTimezoneName"`
		GMTOffset            int    `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// Fetch requests the daily chart for the symbol. Timestamps are converted to the exchange's
// local date before the time of day is discarded. Missing closes are returned as NaN.
func (y *Yahoo) Fetch(ctx context.Context, req Request) ([]timedataset.Observation, error) {
	if err := y.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("yahoo rate limiter, %w", err)
	}

	u, err := url.Parse(y.baseURL)
	if err != nil {
		return nil, err
	}
	u = u.JoinPath(req.Symbol)
	q := u.Query()
	q.Set("period1", fmt.Sprint(req.Start.Unix()))
	// period2 is exclusive
	q.Set("period2", fmt.Sprint(timedataset.AddDays(req.End, 1).Unix()))
	q.Set("interval", "1d")
	q.Set("events", "history")
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("User-Agent", yahooUserAgent)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := y.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("yahoo request for %s, %w", req.Symbol, err)
	}
	defer resp.Body.Close()

	var chart chartResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&chart)
	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%s, %s, %w", req.Symbol, chart.Chart.Error.Description, ErrNoData)
		}
		return nil, fmt.Errorf("%s: %s, %w", chart.Chart.Error.Code, chart.Chart.Error.Description, ErrYahooResponse)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d for %s, %w", resp.StatusCode, req.Symbol, ErrUnexpectedStatus)
	}
	if decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		return nil, fmt.Errorf("unable to decode yahoo chart, %w", decodeErr)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("%s, %w", req.Symbol, ErrNoData)
	}

	obs := chart.Chart.Result[0].observations()
	if len(obs) == 0 {
		return nil, fmt.Errorf("%s, %w", req.Symbol, ErrNoData)
	}
	slog.Debug("fetched yahoo chart", "symbol", req.Symbol, "rows", len(obs))
	return obs, nil
}

func (r chartResult) location() *time.Location {
	if r.Meta.ExchangeTimezoneName != "" {
		if loc, err := time.LoadLocation(r.Meta.ExchangeTimezoneName); err == nil {
			return loc
		}
	}
	return time.FixedZone("exchange", r.Meta.GMTOffset)
}

func (r chartResult) observations() []timedataset.Observation {
	var closes []*float64
	if len(r.Indicators.Quote) > 0 {
		closes = r.Indicators.Quote[0].Close
	}
	loc := r.location()

	obs := make([]timedataset.Observation, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		o := timedataset.Observation{
			T: time.Unix(ts, 0).In(loc),
			Y: math.NaN(),
		}
		if i < len(closes) && closes[i] != nil {
			o.Y = *closes[i]
		}
		obs = append(obs, o)
	}
	return obs
}
