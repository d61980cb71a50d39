package feature

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Changepoint feature representing a point in time where the trend is allowed to change
// its slope. The column is a ramp that is zero before the changepoint.
type Changepoint struct {
	Name string `json:"name"`
}

// NewChangepoint creates a new changepoint feature
func NewChangepoint(name string) *Changepoint {
	return &Changepoint{name}
}

// String returns the string representation of the changepoint feature
func (c Changepoint) String() string {
	return fmt.Sprintf("chpnt_%s", c.Name)
}

// Get returns the value of an arbitrary label and returns the value along with whether
// the label exists
func (c Changepoint) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return c.Name, true
	}
	return "", false
}

// Type returns the type of this feature
func (c Changepoint) Type() FeatureType {
	return FeatureTypeChangepoint
}

// Decode converts the feature into a map of label values
func (c Changepoint) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = c.Name
	return res
}

// UnmarshalJSON is the custom unmarshalling to convert a map[string]string
// to a changepoint feature
func (c *Changepoint) UnmarshalJSON(data []byte) error {
	var labelStr struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &labelStr); err != nil {
		return err
	}
	c.Name = labelStr.Name
	return nil
}

// Generate returns max(0, day - changepointDay) / span for every epoch day. The ramp is scaled
// by the training span so its coefficient is on the same scale as the linear growth feature.
func (c Changepoint) Generate(epochDays []float64, changepointDay, span float64) []float64 {
	if span <= 0 {
		return nil
	}
	out := make([]float64, len(epochDays))
	for i, d := range epochDays {
		if d > changepointDay {
			out[i] = (d - changepointDay) / span
		}
	}
	return out
}
