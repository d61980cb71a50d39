package timedataset

import (
	"errors"
	"math"
	"time"
)

var ErrCannotInferFreq = errors.New("cannot infer frequency from time slice")

// TimeSlice is an ordered slice of calendar dates
type TimeSlice []time.Time

// StartTime returns the first date or the zero time when empty
func (t TimeSlice) StartTime() time.Time {
	if len(t) == 0 {
		return time.Time{}
	}
	return t[0]
}

// EndTime returns the last date or the zero time when empty
func (t TimeSlice) EndTime() time.Time {
	if len(t) == 0 {
		return time.Time{}
	}
	return t[len(t)-1]
}

// EstimateFreqDays returns the most common gap in days between consecutive dates, preferring the
// smallest gap on ties. Daily closes with weekends removed still report 1.
func (t TimeSlice) EstimateFreqDays() (int, error) {
	if len(t) < 2 {
		return 0, ErrCannotInferFreq
	}

	frequencies := make(map[int]int)
	for i := 1; i < len(t); i++ {
		delta := DaysBetween(t[i-1], t[i])
		frequencies[delta] += 1
	}

	var maxCnt int
	maxDelta := math.MaxInt

	for delta, cnt := range frequencies {
		if cnt > maxCnt || (cnt == maxCnt && delta < maxDelta) {
			maxCnt = cnt
			maxDelta = delta
		}
	}
	return maxDelta, nil
}

// Gaps returns the index of every observation preceded by a gap larger than maxDays
func (t TimeSlice) Gaps(maxDays int) []int {
	var idx []int
	for i := 1; i < len(t); i++ {
		if DaysBetween(t[i-1], t[i]) > maxDays {
			idx = append(idx, i)
		}
	}
	return idx
}
