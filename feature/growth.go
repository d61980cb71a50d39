package feature

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

const (
	GrowthIntercept = "intercept"
	GrowthLinear    = "linear"
)

// Growth feature representing the base level and slope of the trend
type Growth struct {
	Name string `json:"name"`
}

// NewGrowth creates a new growth feature
func NewGrowth(name string) *Growth {
	return &Growth{name}
}

// Intercept returns the constant growth feature
func Intercept() *Growth {
	return NewGrowth(GrowthIntercept)
}

// Linear returns the linear growth feature
func Linear() *Growth {
	return NewGrowth(GrowthLinear)
}

// String returns the string representation of the growth feature
func (g Growth) String() string {
	return fmt.Sprintf("growth_%s", g.Name)
}

// Get returns the value of an arbitrary label and returns the value along with whether
// the label exists
func (g Growth) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return g.Name, true
	}
	return "", false
}

// Type returns the type of this feature
func (g Growth) Type() FeatureType {
	return FeatureTypeGrowth
}

// Decode converts the feature into a map of label values
func (g Growth) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = g.Name
	return res
}

// UnmarshalJSON is the custom unmarshalling to convert a map[string]string
// to a growth feature
func (g *Growth) UnmarshalJSON(data []byte) error {
	var labelStr struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &labelStr); err != nil {
		return err
	}
	g.Name = labelStr.Name
	return nil
}

// Generate returns the growth column given epoch days and the training window. The linear
// feature is 0 at the training start and 1 at the training end and keeps growing past it.
// A zero length training window or unknown growth type returns nil.
func (g Growth) Generate(epochDays []float64, trainStartDay, trainEndDay float64) []float64 {
	span := trainEndDay - trainStartDay
	if span <= 0 {
		return nil
	}

	out := make([]float64, len(epochDays))
	switch g.Name {
	case GrowthIntercept:
		for i := range out {
			out[i] = 1.0
		}
	case GrowthLinear:
		for i, d := range epochDays {
			out[i] = (d - trainStartDay) / span
		}
	default:
		return nil
	}
	return out
}
