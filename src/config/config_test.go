package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseWorkDays(t *testing.T) {
	t.Run("DefaultMonToFri", func(t *testing.T) {
		days := parseWorkDays("")
		assert.True(t, days[time.Monday])
		assert.True(t, days[time.Friday])
		assert.False(t, days[time.Saturday])
		assert.False(t, days[time.Sunday])
	})

	t.Run("Custom", func(t *testing.T) {
		days := parseWorkDays("0,6")
		assert.True(t, days[time.Sunday])
		assert.True(t, days[time.Saturday])
		assert.False(t, days[time.Monday])
	})

	t.Run("InvalidEntriesIgnored", func(t *testing.T) {
		days := parseWorkDays("1,x,9,3")
		assert.True(t, days[time.Monday])
		assert.True(t, days[time.Wednesday])
		assert.Len(t, days, 2)
	})
}

func TestParseSkipDates(t *testing.T) {
	dates := parseSkipDates("2025-01-01, 2025-02-28,bad-date")
	assert.True(t, dates["2025-01-01"])
	assert.True(t, dates["2025-02-28"])
	assert.Len(t, dates, 2)
}

func TestIsWorkdayAndSkipDate(t *testing.T) {
	cfg := &Config{
		WorkDays:  parseWorkDays(""),
		SkipDates: parseSkipDates("2025-03-10"),
	}

	monday := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)

	assert.True(t, cfg.IsWorkday(monday))
	assert.False(t, cfg.IsWorkday(saturday))
	assert.True(t, cfg.IsSkipDate(monday))
	assert.False(t, cfg.IsSkipDate(saturday))
}
