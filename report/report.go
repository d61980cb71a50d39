// Package report renders fitted forecasts as an interactive html page of echarts line charts.
package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	forecaster "github.com/Ujjwal-270/Stock-Prediction"
	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var ErrEmptyForecast = errors.New("nothing to render, forecast is empty")

const bandColor = "rgba(84, 112, 198, 0.25)"

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Input is everything drawn on a report page. Components is optional.
type Input struct {
	Symbol     string
	History    *timedataset.TimeDataset
	Forecast   forecaster.Forecast
	Components *forecaster.Components
}

// Render writes an html page with the actual vs forecast chart and, when present, the trend,
// weekly and yearly component charts
func Render(w io.Writer, in Input) error {
	if len(in.Forecast) == 0 {
		return ErrEmptyForecast
	}

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s forecast", in.Symbol)
	page.AddCharts(LineForecast(in.Symbol, in.History, in.Forecast))
	if in.Components != nil {
		page.AddCharts(
			LineTrend(in.Components.Trend),
			BarWeekly(in.Components.Weekly),
			LineYearly(in.Components.Yearly),
		)
	}
	return page.Render(w)
}

// LineForecast plots the observed closes against the point forecast. The uncertainty band is
// drawn by stacking the band width on top of the lower bound.
func LineForecast(symbol string, history *timedataset.TimeDataset, fc forecaster.Forecast) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s closing price forecast", symbol),
			Subtitle: fmt.Sprintf("%s to %s", fc[0].T.Format(time.DateOnly), fc[len(fc)-1].T.Format(time.DateOnly)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithLegendOpts(opts.Legend{Right: "10%"}),
	)

	actual := make(map[time.Time]float64)
	if history != nil {
		for i, t := range history.T {
			actual[t] = history.Y[i]
		}
	}

	xAxis := make([]string, 0, len(fc))
	lineDataActual := make([]opts.LineData, 0, len(fc))
	lineDataForecast := make([]opts.LineData, 0, len(fc))
	lineDataLower := make([]opts.LineData, 0, len(fc))
	lineDataBand := make([]opts.LineData, 0, len(fc))
	for _, p := range fc {
		xAxis = append(xAxis, p.T.Format(time.DateOnly))
		if y, exists := actual[p.T]; exists {
			lineDataActual = append(lineDataActual, opts.LineData{Value: y})
		} else {
			lineDataActual = append(lineDataActual, opts.LineData{Value: nil})
		}
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: p.Value})
		lineDataLower = append(lineDataLower, opts.LineData{Value: p.Lower})
		lineDataBand = append(lineDataBand, opts.LineData{Value: p.Upper - p.Lower})
	}

	line.SetXAxis(xAxis).
		AddSeries("Lower", lineDataLower,
			charts.WithLineChartOpts(opts.LineChart{Stack: "band"}),
		).
		AddSeries("Band", lineDataBand,
			charts.WithLineChartOpts(opts.LineChart{Stack: "band"}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Color: bandColor}),
		).
		AddSeries("Forecast", lineDataForecast).
		AddSeries("Actual", lineDataActual)
	return line
}

// LineTrend plots the trend component over the historical span and horizon
func LineTrend(trend []forecaster.DatedValue) *charts.Line {
	t := make([]time.Time, 0, len(trend))
	y := make([]float64, 0, len(trend))
	for _, dv := range trend {
		t = append(t, dv.T)
		y = append(y, dv.Value)
	}
	return LineTSeries("Trend", []string{"Trend"}, t, [][]float64{y})
}

// BarWeekly plots the weekly component Monday through Sunday
func BarWeekly(weekly [forecaster.DaysPerWeek]float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Weekly"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)

	barData := make([]opts.BarData, 0, len(weekly))
	for _, v := range weekly {
		barData = append(barData, opts.BarData{Value: v})
	}
	bar.SetXAxis(weekdays).AddSeries("Weekly", barData)
	return bar
}

// LineYearly plots the yearly component over every month and day of a leap year
func LineYearly(yearly [forecaster.DaysPerLeapYear]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Yearly"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)

	xAxis := make([]string, 0, len(yearly))
	lineData := make([]opts.LineData, 0, len(yearly))
	for i, v := range yearly {
		m, d := timedataset.LeapOrdinalDate(i + 1)
		xAxis = append(xAxis, fmt.Sprintf("%s %02d", m.String()[:3], d))
		lineData = append(lineData, opts.LineData{Value: v})
	}
	line.SetXAxis(xAxis).AddSeries("Yearly", lineData)
	return line
}

// LineTSeries generates an echart multi-line chart for some arbitrary time/value combination. The input
// y is a slice of series that must have the same length as the input time slice.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)

	xAxis := make([]string, 0, len(t))
	for _, tPnt := range t {
		xAxis = append(xAxis, tPnt.Format(time.DateOnly))
	}

	line = line.SetXAxis(xAxis)
	for i, series := range seriesName {
		lineData := make([]opts.LineData, 0, len(y[i]))
		for _, v := range y[i] {
			lineData = append(lineData, opts.LineData{Value: v})
		}
		line = line.AddSeries(series, lineData)
	}
	return line
}
