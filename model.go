package forecaster

import (
	"fmt"
	"io"

	"github.com/Ujjwal-270/Stock-Prediction/forecast"
	"github.com/Ujjwal-270/Stock-Prediction/forecast/util"
)

// Model is a serializeable representation of a fitted model's options and series coefficients
type Model struct {
	Options *Options       `json:"options"`
	Series  forecast.Model `json:"series_model"`
}

// TablePrint prints the forecaster options and the series model in a human readable format
func (m Model) TablePrint(w io.Writer) error {
	prefix := ""
	indent := "  "
	if _, err := fmt.Fprintf(w, "%sForecaster:\n", prefix); err != nil {
		return err
	}
	if m.Options != nil {
		if _, err := fmt.Fprintf(w, "%sHorizon: %d days, Confidence: %.2f, Trading Days Only: %t\n",
			util.Indent(prefix, indent, 1),
			m.Options.HorizonDays, m.Options.Confidence, m.Options.TradingDaysOnly); err != nil {
			return err
		}
	}
	return m.Series.TablePrint(w, prefix, indent)
}
