package options

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/Ujjwal-270/Stock-Prediction/feature"
	"github.com/Ujjwal-270/Stock-Prediction/forecast/util"
	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
)

const (
	DefaultAutoNumChangepoints = 25
	DefaultAutoRange           = 0.8
)

// Changepoint describes a calendar date after which the trend is allowed to change slope
type Changepoint struct {
	T    time.Time `json:"time"`
	Name string    `json:"name"`
}

func NewChangepoint(name string, t time.Time) Changepoint {
	return Changepoint{t, name}
}

// ChangepointOptions configures the changepoints of the piecewise linear trend. Auto places
// AutoNumChangepoints on observed dates spread evenly over the first AutoRange fraction of
// the history, replacing any explicit changepoints.
type ChangepointOptions struct {
	Changepoints        []Changepoint `json:"changepoints"`
	Auto                bool          `json:"auto"`
	AutoNumChangepoints int           `json:"auto_num_changepoints"`
	AutoRange           float64       `json:"auto_range"`
}

func (c ChangepointOptions) TablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	noCfg := " None"
	if len(c.Changepoints) > 0 {
		noCfg = ""
		fmt.Fprintf(tbl, "%sName\tDate\t\n", util.Indent(prefix, indent, indentGrowth+1))
	}
	fmt.Fprintf(w, "%sChangepoints:%s\n", util.Indent(prefix, indent, indentGrowth), noCfg)
	for _, chpt := range c.Changepoints {
		fmt.Fprintf(tbl, "%s%s\t%s\t\n",
			util.Indent(prefix, indent, indentGrowth+1),
			chpt.Name, chpt.T.Format(time.DateOnly))
	}
	return tbl.Flush()
}

// NewDefaultChangepointOptions generates a set of default changepoint options
func NewDefaultChangepointOptions() ChangepointOptions {
	return ChangepointOptions{
		Auto:                true,
		AutoNumChangepoints: DefaultAutoNumChangepoints,
		AutoRange:           DefaultAutoRange,
	}
}

// GenerateAutoChangepoints places changepoints on the observed dates. With h observed dates in
// the first AutoRange of history the changepoints sit at the rounded positions of an even
// split of [0, h-1], skipping the first date. Fewer dates than requested changepoints reduces
// the count so no two changepoints share a date.
func (c *ChangepointOptions) GenerateAutoChangepoints(t []time.Time) []Changepoint {
	if !c.Auto {
		return c.Changepoints
	}

	n := c.AutoNumChangepoints
	if n <= 0 {
		n = DefaultAutoNumChangepoints
	}
	autoRange := c.AutoRange
	if autoRange <= 0 || autoRange > 1 {
		autoRange = DefaultAutoRange
	}

	histSize := int(math.Floor(float64(len(t)) * autoRange))
	n = min(n, histSize-1)
	if n <= 0 {
		c.Changepoints = nil
		return nil
	}

	chpts := make([]Changepoint, 0, n)
	step := float64(histSize-1) / float64(n)
	for i := 1; i <= n; i++ {
		idx := int(math.Round(step * float64(i)))
		chpts = append(chpts, NewChangepoint(fmt.Sprintf("auto_%02d", i-1), t[idx]))
	}

	// replace existing changepoints
	c.Changepoints = chpts
	return chpts
}

// GenerateFeatures returns the slope ramp of every changepoint strictly inside the training
// window. Changepoints on or before the training start duplicate the linear growth feature and
// changepoints after the training end were never observed, so both are skipped.
func (c ChangepointOptions) GenerateFeatures(epochDays []float64, trainStart, trainEnd time.Time) (*feature.Set, error) {
	startDay := timedataset.EpochDays(trainStart)
	span := timedataset.EpochDays(trainEnd) - startDay

	feat := feature.NewSet()
	for i, chpt := range c.Changepoints {
		if !chpt.T.After(trainStart) || chpt.T.After(trainEnd) {
			continue
		}
		name := chpt.Name
		if name == "" {
			name = fmt.Sprintf("%02d", i)
		}
		chptFeat := feature.NewChangepoint(name)
		data := chptFeat.Generate(epochDays, timedataset.EpochDays(chpt.T), span)
		if data == nil {
			continue
		}
		if err := feat.Set(chptFeat, data); err != nil {
			return nil, err
		}
	}
	return feat, nil
}
