package feature

import (
	"fmt"
	"strings"
	"time"

	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
	"github.com/goccy/go-json"
)

const (
	// TimeEpochDays is the number of whole days since the unix epoch
	TimeEpochDays = "epoch_days"

	// TimeYearDay is the zero based position on a leap year calendar
	TimeYearDay = "year_day"
)

// Time feature representing a continuous axis derived from a calendar date
type Time struct {
	Name string `json:"name"`
}

// NewTime creates a new time feature
func NewTime(name string) *Time {
	return &Time{name}
}

// String returns the string representation of the time feature
func (t Time) String() string {
	return fmt.Sprintf("tfeat_%s", t.Name)
}

// Get returns the value of an arbitrary label and returns the value along with whether
// the label exists
func (t Time) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return t.Name, true
	}
	return "", false
}

// Type returns the type of this feature
func (t Time) Type() FeatureType {
	return FeatureTypeTime
}

// Decode converts the feature into a map of label values
func (t Time) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = t.Name
	return res
}

// UnmarshalJSON is the custom unmarshalling to convert a map[string]string
// to a time feature
func (t *Time) UnmarshalJSON(data []byte) error {
	var labelStr struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &labelStr); err != nil {
		return err
	}
	t.Name = labelStr.Name
	return nil
}

// Generate converts each date into the time axis named by the feature. Unknown names
// return nil.
func (t Time) Generate(tSeries []time.Time) []float64 {
	var fn func(time.Time) float64
	switch t.Name {
	case TimeEpochDays:
		fn = timedataset.EpochDays
	case TimeYearDay:
		fn = func(tPnt time.Time) float64 {
			return float64(timedataset.LeapOrdinal(tPnt) - 1)
		}
	default:
		return nil
	}

	out := make([]float64, len(tSeries))
	for i, tPnt := range tSeries {
		out[i] = fn(tPnt)
	}
	return out
}
