package market

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsTradingDay(t *testing.T) {
	c := NewNYSE()

	testData := map[string]struct {
		t        time.Time
		expected bool
	}{
		"regular wednesday":                 {t: date(2024, 3, 13), expected: true},
		"saturday":                          {t: date(2024, 3, 16)},
		"sunday":                            {t: date(2024, 3, 17)},
		"christmas":                         {t: date(2024, 12, 25)},
		"thanksgiving":                      {t: date(2024, 11, 28)},
		"day after thanksgiving":            {t: date(2024, 11, 29), expected: true},
		"good friday":                       {t: date(2024, 3, 29)},
		"independence day observed friday":  {t: date(2020, 7, 3)},
		"juneteenth":                        {t: date(2023, 6, 19)},
		"juneteenth before exchange closed": {t: date(2021, 6, 18), expected: true},
		"new year on saturday not observed": {t: date(2021, 12, 31), expected: true},
		"mlk day":                           {t: date(2024, 1, 15)},
		"time of day ignored": {
			t: time.Date(2024, 12, 25, 15, 30, 0, 0, time.FixedZone("EST", -5*3600)),
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, c.IsTradingDay(td.t))
		})
	}
}

func TestHolidays(t *testing.T) {
	c := NewNYSE()
	res := c.Holidays(date(2024, 11, 1), date(2024, 12, 31))
	assert.Equal(t, []Holiday{
		{Name: "Thanksgiving_Day", T: date(2024, 11, 28)},
		{Name: "Christmas_Day", T: date(2024, 12, 25)},
	}, res)
	assert.Equal(t, "NYSE", c.Name())
}

func TestTradingDays(t *testing.T) {
	c := NewNYSE()
	res := c.TradingDays(date(2024, 12, 20), date(2024, 12, 27))
	expected := []time.Time{
		date(2024, 12, 20),
		date(2024, 12, 23),
		date(2024, 12, 24),
		date(2024, 12, 26),
		date(2024, 12, 27),
	}
	assert.Equal(t, expected, res)
}

func TestMissingTradingDays(t *testing.T) {
	c := NewNYSE()

	testData := map[string]struct {
		t        []time.Time
		expected []time.Time
	}{
		"empty": {},
		"complete week": {
			t: []time.Time{
				date(2024, 12, 20), date(2024, 12, 23), date(2024, 12, 24),
				date(2024, 12, 26), date(2024, 12, 27),
			},
		},
		"gap": {
			t:        []time.Time{date(2024, 12, 20), date(2024, 12, 27)},
			expected: []time.Time{date(2024, 12, 23), date(2024, 12, 24), date(2024, 12, 26)},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, c.MissingTradingDays(td.t))
		})
	}
}

func TestCalendarConcurrentUse(t *testing.T) {
	c := NewNYSE()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(year int) {
			defer wg.Done()
			c.IsTradingDay(date(year, 7, 4))
		}(2015 + i)
	}
	wg.Wait()
	assert.False(t, c.IsTradingDay(date(2019, 7, 4)))
}
