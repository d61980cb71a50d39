package forecaster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
)

// ForecastPoint is a single dated prediction with its uncertainty bounds and the additive
// components that sum to the point estimate
type ForecastPoint struct {
	T          time.Time `json:"ds"`
	Value      float64   `json:"yhat"`
	Lower      float64   `json:"yhat_lower"`
	Upper      float64   `json:"yhat_upper"`
	Trend      float64   `json:"trend"`
	Weekly     float64   `json:"weekly"`
	Yearly     float64   `json:"yearly"`
	Historical bool      `json:"historical"`
}

var csvHeader = []string{"ds", "yhat", "yhat_lower", "yhat_upper", "trend", "weekly", "yearly", "historical"}

func (p ForecastPoint) record() []string {
	return []string{
		p.T.Format(time.DateOnly),
		strconv.FormatFloat(p.Value, 'f', -1, 64),
		strconv.FormatFloat(p.Lower, 'f', -1, 64),
		strconv.FormatFloat(p.Upper, 'f', -1, 64),
		strconv.FormatFloat(p.Trend, 'f', -1, 64),
		strconv.FormatFloat(p.Weekly, 'f', -1, 64),
		strconv.FormatFloat(p.Yearly, 'f', -1, 64),
		strconv.FormatBool(p.Historical),
	}
}

// Forecast is an ordered sequence of points covering the historical span followed by the horizon
type Forecast []ForecastPoint

// Tail returns the last n points. A negative n or one larger than the forecast returns every point.
func (f Forecast) Tail(n int) Forecast {
	if n < 0 || n >= len(f) {
		return f
	}
	return f[len(f)-n:]
}

// Future returns only the points after the last historical date
func (f Forecast) Future() Forecast {
	for i, p := range f {
		if !p.Historical {
			return f[i:]
		}
	}
	return Forecast{}
}

// Dates returns the date of every point
func (f Forecast) Dates() []time.Time {
	t := make([]time.Time, 0, len(f))
	for _, p := range f {
		t = append(t, p.T)
	}
	return t
}

// Values returns the point estimate of every point
func (f Forecast) Values() []float64 {
	y := make([]float64, 0, len(f))
	for _, p := range f {
		y = append(y, p.Value)
	}
	return y
}

// WriteJSON writes the forecast as a json array of flat records
func (f Forecast) WriteJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(f)
}

// WriteCSV writes the forecast as flat records with a header row
func (f Forecast) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range f {
		if err := cw.Write(p.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// TablePrint prints the date, point estimate and bounds of each point as an aligned table
func (f Forecast) TablePrint(w io.Writer) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "ds\tyhat\tyhat_lower\tyhat_upper\t\n"); err != nil {
		return err
	}
	for _, p := range f {
		if _, err := fmt.Fprintf(tbl, "%s\t%.3f\t%.3f\t%.3f\t\n",
			p.T.Format(time.DateOnly), p.Value, p.Lower, p.Upper); err != nil {
			return err
		}
	}
	return tbl.Flush()
}
