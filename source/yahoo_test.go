package source

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleChart = `{"chart":{"result":[{"meta":{"symbol":"AAPL","exchangeTimezoneName":"America/New_York","gmtoffset":-18000},
"timestamp":[1704205800,1704292200,1704378600],
"indicators":{"quote":[{"close":[185.64,null,181.91]}]}}],"error":null}}`

const notFoundChart = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

func TestYahooFetch(t *testing.T) {
	var gotPath, gotPeriod1, gotPeriod2, gotInterval string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPeriod1 = r.URL.Query().Get("period1")
		gotPeriod2 = r.URL.Query().Get("period2")
		gotInterval = r.URL.Query().Get("interval")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleChart))
	}))
	defer srv.Close()

	y := NewYahoo(WithYahooURL(srv.URL+"/v8/finance/chart"), WithRateLimit(100, 10))
	obs, err := y.Fetch(context.Background(), Request{Symbol: "AAPL", Start: date(2024, 1, 2), End: date(2024, 1, 4)})
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/AAPL", gotPath)
	assert.Equal(t, "1704153600", gotPeriod1)
	assert.Equal(t, "1704412800", gotPeriod2)
	assert.Equal(t, "1d", gotInterval)

	require.Len(t, obs, 3)
	expectedDates := []time.Time{date(2024, 1, 2), date(2024, 1, 3), date(2024, 1, 4)}
	for i, o := range obs {
		y, m, d := o.T.Date()
		assert.Equal(t, expectedDates[i], time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	}
	assert.Equal(t, 185.64, obs[0].Y)
	assert.True(t, math.IsNaN(obs[1].Y))
}

func TestYahooFetchErrors(t *testing.T) {
	testData := map[string]struct {
		status      int
		body        string
		expectedErr error
	}{
		"not found": {
			status:      http.StatusNotFound,
			body:        notFoundChart,
			expectedErr: ErrNoData,
		},
		"server error": {
			status:      http.StatusInternalServerError,
			body:        "oops",
			expectedErr: ErrUnexpectedStatus,
		},
		"empty result": {
			status:      http.StatusOK,
			body:        `{"chart":{"result":[],"error":null}}`,
			expectedErr: ErrNoData,
		},
		"chart error": {
			status:      http.StatusBadRequest,
			body:        `{"chart":{"result":null,"error":{"code":"Bad Request","description":"Invalid input"}}}`,
			expectedErr: ErrYahooResponse,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(td.status)
				w.Write([]byte(td.body))
			}))
			defer srv.Close()

			y := NewYahoo(WithYahooURL(srv.URL), WithRateLimit(100, 10))
			_, err := y.Fetch(context.Background(), Request{Symbol: "ZZZZ", Start: date(2024, 1, 2), End: date(2024, 1, 4)})
			assert.ErrorIs(t, err, td.expectedErr)
		})
	}
}

func TestYahooFetchCanceled(t *testing.T) {
	y := NewYahoo(WithRateLimit(0.001, 1))
	// drain the single burst token
	require.True(t, y.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := y.Fetch(ctx, Request{Symbol: "AAPL", Start: date(2024, 1, 2), End: date(2024, 1, 4)})
	assert.ErrorIs(t, err, context.Canceled)
}
