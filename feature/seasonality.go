package feature

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

type FourierComp string

const (
	FourierCompSin FourierComp = "sin"
	FourierCompCos FourierComp = "cos"
)

// Seasonality feature representing a single Fourier component of a periodic pattern
type Seasonality struct {
	Name        string      `json:"name"`
	FourierComp FourierComp `json:"fourier_component"`
	Order       int         `json:"order"`
}

// NewSeasonality creates a new seasonality feature
func NewSeasonality(name string, fcomp FourierComp, order int) *Seasonality {
	return &Seasonality{name, fcomp, order}
}

// String returns the string representation of the seasonality feature
func (s Seasonality) String() string {
	return fmt.Sprintf("seas_%s_%02d_%s", s.Name, s.Order, s.FourierComp)
}

// Get returns the value of an arbitrary label and returns the value along with whether
// the label exists
func (s Seasonality) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return s.Name, true
	case "fourier_component":
		return string(s.FourierComp), true
	case "order":
		return strconv.Itoa(s.Order), true
	}
	return "", false
}

// Type returns the type of this feature
func (s Seasonality) Type() FeatureType {
	return FeatureTypeSeasonality
}

// Decode converts the feature into a map of label values
func (s Seasonality) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = s.Name
	res["fourier_component"] = string(s.FourierComp)
	res["order"] = strconv.Itoa(s.Order)
	return res
}

// UnmarshalJSON is the custom unmarshalling to convert a map[string]string
// to a seasonality feature
func (s *Seasonality) UnmarshalJSON(data []byte) error {
	var labelStr struct {
		Name        string      `json:"name"`
		FourierComp FourierComp `json:"fourier_component"`
		Order       string      `json:"order"`
	}
	err := json.Unmarshal(data, &labelStr)
	if err != nil {
		return err
	}
	s.Name = labelStr.Name
	s.FourierComp = labelStr.FourierComp
	s.Order, err = strconv.Atoi(labelStr.Order)
	if err != nil {
		return err
	}
	return nil
}

// Generate returns the sine or cosine of 2*pi*order*t/period for every time value. Returns nil
// for an unknown Fourier component or a non-positive period.
func (s Seasonality) Generate(t []float64, order int, period float64) []float64 {
	if period <= 0 {
		return nil
	}

	var fn func(float64) float64
	switch s.FourierComp {
	case FourierCompSin:
		fn = math.Sin
	case FourierCompCos:
		fn = math.Cos
	default:
		return nil
	}

	omega := 2.0 * math.Pi * float64(order) / period
	out := make([]float64, len(t))
	for i, tFeat := range t {
		out[i] = fn(omega * tFeat)
	}
	return out
}
