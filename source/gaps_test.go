package source

import (
	"math"
	"testing"
	"time"

	"github.com/Ujjwal-270/Stock-Prediction/market"
	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
	"github.com/stretchr/testify/assert"
)

func TestGaps(t *testing.T) {
	obs := []timedataset.Observation{
		{T: date(2024, 12, 27), Y: 10.0},
		{T: date(2024, 12, 23), Y: 10.0},
		{T: date(2024, 12, 25), Y: 10.0},
		{T: date(2024, 12, 24), Y: math.NaN()},
		{T: date(2024, 12, 23), Y: 11.0},
	}

	report := Gaps(obs, market.NewNYSE())
	assert.Equal(t, 5, report.Rows)
	assert.Equal(t, 4, report.ValidRows)
	assert.Equal(t, []time.Time{date(2024, 12, 25)}, report.NonTradingDay)
	assert.Equal(t, []time.Time{date(2024, 12, 24), date(2024, 12, 26)}, report.Missing)
}

func TestGapsEmpty(t *testing.T) {
	report := Gaps(nil, market.NewNYSE())
	assert.Equal(t, GapReport{}, report)
}
