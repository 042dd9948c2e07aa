package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsTimezoneRow(t *testing.T) {
	t.Run("TimezoneRows", func(t *testing.T) {
		rows := []string{
			"Eastern Time Zone (Ann Arbor)",
			"UTC+8 Taiwan",
			"GMT-5",
			"EST 09:00",
			"Asia/Taipei",
			"America/New_York",
			"Timezone: Offset +8",
		}
		for _, row := range rows {
			assert.True(t, IsTimezoneRow(row), "應判定為時區列: %q", row)
		}
	})

	t.Run("AttendanceRows", func(t *testing.T) {
		rows := []string{
			"Check in: 08:50 Check out: 12:00",
			"Check in: 13:00",
			"上班 09:00 下班 18:00",
		}
		for _, row := range rows {
			assert.False(t, IsTimezoneRow(row), "不應判定為時區列: %q", row)
		}
	})
}

func TestExtractTimes(t *testing.T) {
	t.Run("BasicRow", func(t *testing.T) {
		times := ExtractTimes("Check in: 08:50 Check out: 12:00", 6, 22)
		assert.Len(t, times, 2)
		assert.Equal(t, "08:50", times[0].String())
		assert.Equal(t, "12:00", times[1].String())
	})

	t.Run("TimezoneRowDropped", func(t *testing.T) {
		assert.Empty(t, ExtractTimes("UTC+8 08:00 17:00", 6, 22))
		assert.Empty(t, ExtractTimes("Eastern Time Zone 09:00", 6, 22))
	})

	t.Run("HourRangeFilter", func(t *testing.T) {
		// 05:30 與 23:00 在有效範圍外，視為雜訊
		times := ExtractTimes("05:30 08:15 23:00 17:45", 6, 22)
		assert.Len(t, times, 2)
		assert.Equal(t, "08:15", times[0].String())
		assert.Equal(t, "17:45", times[1].String())
	})

	t.Run("InvalidMinuteDropped", func(t *testing.T) {
		times := ExtractTimes("8:75 09:30", 6, 22)
		assert.Len(t, times, 1)
		assert.Equal(t, "09:30", times[0].String())
	})

	t.Run("OrderPreserved", func(t *testing.T) {
		times := ExtractTimes("13:00 09:00 11:00", 6, 22)
		assert.Len(t, times, 3)
		assert.Equal(t, "13:00", times[0].String())
		assert.Equal(t, "09:00", times[1].String())
		assert.Equal(t, "11:00", times[2].String())
	})
}

func TestBuildDay(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("ClosedAndOpenSegments", func(t *testing.T) {
		day := BuildDay([]string{
			"Eastern Time Zone (UTC+8)",
			"Check in: 08:50 Check out: 12:00",
			"Check in: 13:00",
		}, date, 6, 22)

		assert.Len(t, day.Segments, 2)
		assert.Equal(t, "08:50 - 12:00", day.Segments[0].String())
		assert.True(t, day.Segments[1].Open())
		assert.Equal(t, "13:00", day.Segments[1].CheckIn.String())
	})

	t.Run("EmptyRows", func(t *testing.T) {
		day := BuildDay(nil, date, 6, 22)
		assert.Empty(t, day.Segments)

		day = BuildDay([]string{"標題列", "UTC+8"}, date, 6, 22)
		assert.Empty(t, day.Segments)
	})
}

func TestDateToken(t *testing.T) {
	assert.Equal(t, "03/10", DateToken(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, "12/01", DateToken(time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)))
}
