package forecast

import (
	"bytes"
	"testing"
	"time"

	"github.com/Ujjwal-270/Stock-Prediction/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelTablePrint(t *testing.T) {
	testData := map[string]struct {
		m        Model
		prefix   string
		indent   string
		expected string
	}{
		"no input": {
			expected: `Forecast:
Training Window: 0001-01-01 to 0001-01-01 (0 observations)
Noise Scale: 0.000
Weights:
 Type Labels Value
`,
		},
		"basic input with prefix and indent": {
			m: Model{
				TrainStartTime:  time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
				TrainEndTime:    time.Date(1970, 1, 3, 0, 0, 0, 0, time.UTC),
				NumObservations: 3,
				NoiseScale:      0.25,
				Scores: &Scores{
					MAPE: 0.1234,
					MSE:  1.2345,
					R2:   0.0123,
				},
				Weights: Weights{
					Coef: []FeatureWeight{
						NewFeatureWeight(feature.Intercept(), 1.5),
						NewFeatureWeight(feature.Linear(), 0),
					},
				},
			},
			prefix: "--",
			indent: "**",
			expected: `--Forecast:
--**Training Window: 1970-01-01 to 1970-01-03 (3 observations)
--**Noise Scale: 0.250
--Scores:
--**MAPE: 0.123    MSE: 1.234    R2: 0.012
--Weights:
   --**Type               Labels Value
 --**growth {"name":"intercept"} 1.500
 --**growth    {"name":"linear"}   ...
`,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, td.m.TablePrint(&buf, td.prefix, td.indent))
			assert.Equal(t, td.expected, buf.String())
		})
	}
}

func TestFeatureWeightToFeature(t *testing.T) {
	testData := map[string]struct {
		fw       *FeatureWeight
		expected feature.Feature
		err      error
	}{
		"nil": {
			err: feature.ErrUnknownFeatureType,
		},
		"growth": {
			fw:       &FeatureWeight{Labels: map[string]string{"name": "linear"}, Type: feature.FeatureTypeGrowth},
			expected: feature.Linear(),
		},
		"seasonality": {
			fw: &FeatureWeight{
				Labels: map[string]string{"name": "weekly", "fourier_component": "cos", "order": "2"},
				Type:   feature.FeatureTypeSeasonality,
			},
			expected: feature.NewSeasonality("weekly", feature.FourierCompCos, 2),
		},
		"changepoint": {
			fw:       &FeatureWeight{Labels: map[string]string{"name": "auto_01"}, Type: feature.FeatureTypeChangepoint},
			expected: feature.NewChangepoint("auto_01"),
		},
		"unknown": {
			fw:  &FeatureWeight{Type: feature.FeatureType("event")},
			err: feature.ErrUnknownFeatureType,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := td.fw.ToFeature()
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, res)
		})
	}
}
