package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrNoCSVPath     = errors.New("no csv path or directory configured")
)

var (
	dateColumns  = []string{"date", "ds", "timestamp", "datetime"}
	closeColumns = []string{"close", "adj close", "adj_close", "y", "value"}
	dateLayouts  = []string{time.DateOnly, time.RFC3339, time.DateTime, "01/02/2006"}
)

// CSV reads observations from csv files with a header row. Path reads a single file for any
// symbol while Dir reads <Dir>/<SYMBOL>.csv.
type CSV struct {
	Path string
	Dir  string
}

// Fetch reads the file for the requested symbol and keeps the rows inside the date range
func (c CSV) Fetch(ctx context.Context, req Request) ([]timedataset.Observation, error) {
	path := c.Path
	if path == "" {
		if c.Dir == "" {
			return nil, ErrNoCSVPath
		}
		path = filepath.Join(c.Dir, req.Symbol+".csv")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s, %w", path, err)
	}
	defer f.Close()

	obs, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s, %w", path, err)
	}

	res := obs[:0]
	var inRange int
	for _, o := range obs {
		switch {
		case o.T.IsZero():
			res = append(res, o)
		case req.Contains(o.T):
			res = append(res, o)
			inRange++
		}
	}
	if inRange == 0 {
		return nil, fmt.Errorf("%s, %w", req.Symbol, ErrNoData)
	}
	return res, nil
}

// ReadCSV parses every row into an observation. Rows with an unparseable date or close keep
// a zero date or NaN value so validation can drop and count them.
func ReadCSV(r io.Reader) ([]timedataset.Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoData
		}
		return nil, err
	}
	dateIdx := columnIndex(header, dateColumns)
	if dateIdx < 0 {
		return nil, fmt.Errorf("date, %w", ErrMissingColumn)
	}
	closeIdx := columnIndex(header, closeColumns)
	if closeIdx < 0 {
		return nil, fmt.Errorf("close, %w", ErrMissingColumn)
	}

	var obs []timedataset.Observation
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		o := timedataset.Observation{Y: math.NaN()}
		if dateIdx < len(record) {
			o.T = parseDate(record[dateIdx])
		}
		if closeIdx < len(record) {
			if v, err := strconv.ParseFloat(strings.TrimSpace(record[closeIdx]), 64); err == nil {
				o.Y = v
			}
		}
		obs = append(obs, o)
	}
	return obs, nil
}

func columnIndex(header []string, names []string) int {
	for _, name := range names {
		for i, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), name) {
				return i
			}
		}
	}
	return -1
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
