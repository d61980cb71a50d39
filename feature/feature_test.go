package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	testData := map[string]struct {
		ft       FeatureType
		expected Feature
		err      error
	}{
		"time":        {ft: FeatureTypeTime, expected: new(Time)},
		"growth":      {ft: FeatureTypeGrowth, expected: new(Growth)},
		"changepoint": {ft: FeatureTypeChangepoint, expected: new(Changepoint)},
		"seasonality": {ft: FeatureTypeSeasonality, expected: new(Seasonality)},
		"unknown":     {ft: FeatureType("event"), err: ErrUnknownFeatureType},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := New(td.ft)
			assert.ErrorIs(t, err, td.err)
			assert.Equal(t, td.expected, res)
		})
	}
}
