package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	forecaster "github.com/Ujjwal-270/Stock-Prediction"
	"github.com/Ujjwal-270/Stock-Prediction/market"
	"github.com/Ujjwal-270/Stock-Prediction/report"
	"github.com/Ujjwal-270/Stock-Prediction/source"
	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// maxGapDays is the longest run of missing days a daily close series has around market holidays
const maxGapDays = 5

// fitFlags are shared by the forecast and components commands
type fitFlags struct {
	symbol      string
	start       string
	end         string
	horizon     int
	confidence  float64
	csvPath     string
	tradingDays bool
	noYearly    bool
	out         string
	reportPath  string
	printModel  bool
}

func (f *fitFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.symbol, "symbol", "s", source.DefaultSymbols[0],
		fmt.Sprintf("ticker symbol, e.g. %s", strings.Join(source.DefaultSymbols, ", ")))
	cmd.Flags().StringVar(&f.start, "start", "", "first date to fetch (YYYY-MM-DD), defaults to the configured start")
	cmd.Flags().StringVar(&f.end, "end", "today", "last date to fetch (YYYY-MM-DD or today)")
	cmd.Flags().IntVar(&f.horizon, "horizon", forecaster.DefaultHorizonDays, "days to forecast past the last observation")
	cmd.Flags().Float64Var(&f.confidence, "confidence", forecaster.DefaultConfidence, "two sided coverage of the bounds")
	cmd.Flags().StringVar(&f.csvPath, "csv", "", "read observations from a csv file instead of the configured source")
	cmd.Flags().BoolVar(&f.tradingDays, "trading-days", false, "only output NYSE trading days")
	cmd.Flags().BoolVar(&f.noYearly, "no-yearly", false, "do not model yearly seasonality")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write the result as json, or csv when the file ends in .csv")
	cmd.Flags().StringVar(&f.reportPath, "report", "", "write an html chart report")
	cmd.Flags().BoolVar(&f.printModel, "print-model", false, "print the fitted model")
}

// options merges explicitly set flags over the configured forecast options
func (f *fitFlags) options(cmd *cobra.Command, a *app) *forecaster.Options {
	opt := a.cfg.Forecast.Options()
	if cmd.Flags().Changed("horizon") {
		opt.HorizonDays = f.horizon
	}
	if cmd.Flags().Changed("confidence") {
		opt.Confidence = f.confidence
	}
	if f.tradingDays {
		opt.TradingDaysOnly = true
	}
	if f.noYearly {
		opt.DisableYearly = true
	}
	return opt
}

func (f *fitFlags) request(a *app) (source.Request, error) {
	start, err := a.cfg.Source.StartDate()
	if err != nil {
		return source.Request{}, err
	}
	if f.start != "" {
		if start, err = time.Parse(time.DateOnly, f.start); err != nil {
			return source.Request{}, fmt.Errorf("invalid --start, %w", err)
		}
	}
	var end time.Time
	if f.end != "" && f.end != "today" {
		if end, err = time.Parse(time.DateOnly, f.end); err != nil {
			return source.Request{}, fmt.Errorf("invalid --end, %w", err)
		}
	}
	return source.NewRequest(f.symbol, start, end)
}

type fitResult struct {
	req   source.Request
	td    *timedataset.TimeDataset
	model *forecaster.FittedModel
	opt   *forecaster.Options
}

// fit fetches, validates and fits the requested series
func (f *fitFlags) fit(ctx context.Context, cmd *cobra.Command, a *app) (*fitResult, error) {
	req, err := f.request(a)
	if err != nil {
		return nil, err
	}
	opt, err := f.options(cmd, a).Validate()
	if err != nil {
		return nil, err
	}

	var src source.PriceSource
	if f.csvPath != "" {
		src = source.CSV{Path: f.csvPath}
	} else {
		var closeSrc func()
		src, closeSrc = buildSource(ctx, a.cfg)
		defer closeSrc()
	}

	obs, err := src.Fetch(ctx, req)
	if err != nil {
		return nil, noData(req.Symbol, err)
	}
	gaps := source.Gaps(obs, market.NewNYSE())
	if len(gaps.Missing) > 0 || gaps.ValidRows < gaps.Rows {
		slog.Debug("series gaps",
			"symbol", req.Symbol,
			"rows", gaps.Rows,
			"valid_rows", gaps.ValidRows,
			"missing_trading_days", len(gaps.Missing),
			"non_trading_days", len(gaps.NonTradingDay),
		)
	}

	td, err := forecaster.Validate(obs, opt)
	if err != nil {
		return nil, noData(req.Symbol, err)
	}
	dates := timedataset.TimeSlice(td.T)
	if freq, err := dates.EstimateFreqDays(); err == nil && freq > 1 {
		slog.Warn("series is not daily, weekly seasonality is poorly determined",
			"symbol", req.Symbol, "frequency_days", freq)
	}
	if gaps := dates.Gaps(maxGapDays); len(gaps) > 0 {
		first := gaps[0]
		slog.Warn("series has long gaps",
			"symbol", req.Symbol, "gaps", len(gaps), "max_gap_days", maxGapDays,
			"first_gap_start", td.T[first-1].Format(time.DateOnly),
			"first_gap_end", td.T[first].Format(time.DateOnly))
	}
	if span := td.SpanDays(); !opt.DisableYearly && span < forecaster.RecommendedHistoryDays {
		slog.Warn("short history, yearly seasonality will be shrunk toward zero",
			"symbol", req.Symbol, "span_days", span, "recommended_days", forecaster.RecommendedHistoryDays)
	}

	m, err := forecaster.Fit(td, opt)
	if err != nil {
		return nil, err
	}
	if f.printModel {
		model, err := m.Model()
		if err != nil {
			return nil, err
		}
		if err := model.TablePrint(cmd.OutOrStdout()); err != nil {
			return nil, err
		}
	}
	return &fitResult{req: req, td: td, model: m, opt: opt}, nil
}

func noData(symbol string, err error) error {
	if errors.Is(err, source.ErrNoData) ||
		errors.Is(err, timedataset.ErrEmptySeries) ||
		errors.Is(err, timedataset.ErrInsufficientData) {
		return fmt.Errorf("no or insufficient data found for %s, %w", symbol, err)
	}
	return err
}

func forecastCmd(a *app) *cobra.Command {
	f := &fitFlags{}
	var tail int

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast a symbol's closing price",
		Example: `  pricecast forecast --symbol AAPL --start 2020-01-01 --horizon 365 --report aapl.html
  pricecast forecast --csv prices.csv --horizon 30 --out forecast.csv --tail 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := f.fit(cmd.Context(), cmd, a)
			if err != nil {
				return err
			}
			fc, err := res.model.Predict(res.opt.HorizonDays)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			scores := res.model.Scores()
			fmt.Fprintf(w, "%s: %d observations from %s to %s, MAPE %.3f, R2 %.3f\n",
				res.req.Symbol, res.td.Len(),
				res.td.StartTime().Format(time.DateOnly), res.td.EndTime().Format(time.DateOnly),
				scores.MAPE, scores.R2)
			if tail > 0 {
				if err := fc.Tail(tail).TablePrint(w); err != nil {
					return err
				}
			}

			if f.out != "" {
				if err := writeFile(f.out, func(w io.Writer) error {
					if strings.EqualFold(filepath.Ext(f.out), ".csv") {
						return fc.WriteCSV(w)
					}
					return fc.WriteJSON(w)
				}); err != nil {
					return err
				}
			}

			if f.reportPath != "" {
				comp, err := res.model.Components(res.opt.HorizonDays)
				if err != nil {
					return err
				}
				return writeFile(f.reportPath, func(w io.Writer) error {
					return report.Render(w, report.Input{
						Symbol:     res.req.Symbol,
						History:    res.td,
						Forecast:   fc,
						Components: &comp,
					})
				})
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().IntVar(&tail, "tail", 5, "print the last n forecast rows")
	return cmd
}

func componentsCmd(a *app) *cobra.Command {
	f := &fitFlags{}

	cmd := &cobra.Command{
		Use:   "components",
		Short: "Decompose a symbol's closing price into trend, weekly and yearly components",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := f.fit(cmd.Context(), cmd, a)
			if err != nil {
				return err
			}
			comp, err := res.model.Components(res.opt.HorizonDays)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s weekly:\n", res.req.Symbol)
			for i, v := range comp.Weekly {
				fmt.Fprintf(w, "  %-9s %8.3f\n", time.Weekday((i+1)%7), v)
			}
			if len(comp.Trend) > 0 {
				first, last := comp.Trend[0], comp.Trend[len(comp.Trend)-1]
				fmt.Fprintf(w, "%s trend: %.3f on %s to %.3f on %s\n", res.req.Symbol,
					first.Value, first.T.Format(time.DateOnly), last.Value, last.T.Format(time.DateOnly))
			}

			if f.out != "" {
				if err := writeFile(f.out, func(w io.Writer) error {
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return enc.Encode(comp)
				}); err != nil {
					return err
				}
			}
			if f.reportPath != "" {
				fc, err := res.model.Predict(res.opt.HorizonDays)
				if err != nil {
					return err
				}
				return writeFile(f.reportPath, func(w io.Writer) error {
					return report.Render(w, report.Input{
						Symbol:     res.req.Symbol,
						History:    res.td,
						Forecast:   fc,
						Components: &comp,
					})
				})
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func writeFile(path string, write func(w io.Writer) error) error {
	file, err := createFile(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("unable to write %s, %w", path, err)
	}
	return file.Close()
}
