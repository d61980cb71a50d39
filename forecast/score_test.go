package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScores(t *testing.T) {
	testData := map[string]struct {
		predicted []float64
		actual    []float64
		expected  *Scores
		err       error
	}{
		"perfect": {
			predicted: []float64{1, 2, 3},
			actual:    []float64{1, 2, 3},
			expected:  &Scores{MSE: 0, MAPE: 0, R2: 1},
		},
		"off by one": {
			predicted: []float64{2, 3, 4, 5},
			actual:    []float64{1, 2, 4, 5},
			expected:  &Scores{MSE: 0.5, MAPE: (1 + 0.5) / 4, R2: 1 - 2.0/10},
		},
		"nan skipped": {
			predicted: []float64{1, math.NaN(), 3},
			actual:    []float64{1, 2, 3},
			expected:  &Scores{MSE: 0, MAPE: 0, R2: 1},
		},
		"mismatched": {
			predicted: []float64{1},
			actual:    []float64{1, 2},
			err:       ErrResLenMismatch,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := NewScores(td.predicted, td.actual)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, td.expected.MSE, res.MSE, 1e-9)
			assert.InDelta(t, td.expected.MAPE, res.MAPE, 1e-9)
			assert.InDelta(t, td.expected.R2, res.R2, 1e-9)
		})
	}
}
