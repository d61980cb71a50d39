package forecast

// Components is the additive decomposition of a prediction. Seasonality is keyed by the
// seasonality config name.
type Components struct {
	Trend       []float64            `json:"trend"`
	Seasonality map[string][]float64 `json:"seasonality"`
}

// SeasonalityComponent returns the named seasonality or zeros if it was not modeled
func (c Components) SeasonalityComponent(name string) []float64 {
	if s, exists := c.Seasonality[name]; exists {
		return s
	}
	return make([]float64, len(c.Trend))
}
