package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"Auto-Checkin-EHR/src/models"
)

func tod(hour, minute int) *models.TimeOfDay {
	return &models.TimeOfDay{Hour: hour, Minute: minute}
}

func TestCurrentStatus(t *testing.T) {
	tests := []struct {
		name     string
		segments []models.Segment
		want     models.AttendanceState
	}{
		{"NoSegments", nil, models.StateNotCheckedIn},
		{"OpenSegment", []models.Segment{{CheckIn: tod(9, 0)}}, models.StateCheckedIn},
		{"ClosedSegment", []models.Segment{{CheckIn: tod(9, 0), CheckOut: tod(12, 0)}}, models.StateCheckedOut},
		{"LastSegmentGoverns", []models.Segment{
			{CheckIn: tod(9, 0), CheckOut: tod(12, 0)},
			{CheckIn: tod(13, 0)},
		}, models.StateCheckedIn},
		{"AllClosed", []models.Segment{
			{CheckIn: tod(9, 0), CheckOut: tod(12, 0)},
			{CheckIn: tod(13, 0), CheckOut: tod(18, 0)},
		}, models.StateCheckedOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day := models.AttendanceDay{Segments: tt.segments}
			assert.Equal(t, tt.want, CurrentStatus(day))
			// 純函式，重複呼叫結果一致
			assert.Equal(t, tt.want, CurrentStatus(day))
		})
	}
}

func TestWorkHours(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("ClosedPlusOpen", func(t *testing.T) {
		day := models.AttendanceDay{Date: date, Segments: []models.Segment{
			{CheckIn: tod(9, 0), CheckOut: tod(12, 0)},
			{CheckIn: tod(13, 0)},
		}}
		now := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)

		total, open := WorkHours(day, now)
		assert.InDelta(t, 7.0, total, 0.001)
		assert.InDelta(t, 4.0, open, 0.001)
	})

	t.Run("AllClosed", func(t *testing.T) {
		day := models.AttendanceDay{Date: date, Segments: []models.Segment{
			{CheckIn: tod(8, 30), CheckOut: tod(12, 0)},
			{CheckIn: tod(13, 0), CheckOut: tod(17, 30)},
		}}
		now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

		total, open := WorkHours(day, now)
		assert.InDelta(t, 8.0, total, 0.001)
		assert.Zero(t, open)
	})

	t.Run("NoSegments", func(t *testing.T) {
		total, open := WorkHours(models.AttendanceDay{Date: date}, date)
		assert.Zero(t, total)
		assert.Zero(t, open)
	})

	t.Run("NegativeSegmentNotClamped", func(t *testing.T) {
		// 順序錯亂的記錄不默默修正，交給 Validate 產生警告
		day := models.AttendanceDay{Date: date, Segments: []models.Segment{
			{CheckIn: tod(12, 0), CheckOut: tod(9, 0)},
		}}
		total, _ := WorkHours(day, date)
		assert.InDelta(t, -3.0, total, 0.001)
	})
}

func TestValidate(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("CleanDay", func(t *testing.T) {
		day := models.AttendanceDay{Date: date, Segments: []models.Segment{
			{CheckIn: tod(9, 0), CheckOut: tod(12, 0)},
			{CheckIn: tod(13, 0)},
		}}
		assert.Empty(t, Validate(day))
	})

	t.Run("CheckOutBeforeCheckIn", func(t *testing.T) {
		day := models.AttendanceDay{Date: date, Segments: []models.Segment{
			{CheckIn: tod(12, 0), CheckOut: tod(9, 0)},
		}}
		warnings := Validate(day)
		assert.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "早於上班時間")
	})

	t.Run("NonMonotonicSegments", func(t *testing.T) {
		day := models.AttendanceDay{Date: date, Segments: []models.Segment{
			{CheckIn: tod(13, 0), CheckOut: tod(17, 0)},
			{CheckIn: tod(9, 0), CheckOut: tod(12, 0)},
		}}
		warnings := Validate(day)
		assert.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "早於前一筆記錄")
	})

	t.Run("OpenSegmentNotLast", func(t *testing.T) {
		day := models.AttendanceDay{Date: date, Segments: []models.Segment{
			{CheckIn: tod(9, 0)},
			{CheckIn: tod(13, 0), CheckOut: tod(17, 0)},
		}}
		warnings := Validate(day)
		assert.NotEmpty(t, warnings)
		assert.Contains(t, warnings[0], "未下班卻不是最後一筆")
	})
}
