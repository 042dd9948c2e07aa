package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePunchAction(t *testing.T) {
	cases := map[string]PunchAction{
		"上班":       ActionClockIn,
		"clock-in":  ActionClockIn,
		"午休下班":   ActionLunchOut,
		"lunchout":  ActionLunchOut,
		"午休上班":   ActionLunchIn,
		"lunch-in":  ActionLunchIn,
		"下班":       ActionClockOut,
		"clock-out": ActionClockOut,
	}
	for in, want := range cases {
		got, err := ParsePunchAction(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParsePunchAction("加班")
	assert.Error(t, err)
}

func TestTimeOfDay(t *testing.T) {
	tod := TimeOfDay{Hour: 8, Minute: 5}
	assert.Equal(t, "08:05", tod.String())

	day := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	at := tod.On(day)
	assert.Equal(t, time.Date(2025, 3, 10, 8, 5, 0, 0, time.UTC), at)
}

func TestSegmentString(t *testing.T) {
	in := &TimeOfDay{Hour: 8, Minute: 50}
	out := &TimeOfDay{Hour: 12, Minute: 0}

	assert.Equal(t, "08:50 - 12:00", Segment{CheckIn: in, CheckOut: out}.String())
	assert.Equal(t, "08:50 - 進行中", Segment{CheckIn: in}.String())
	assert.True(t, Segment{CheckIn: in}.Open())
	assert.False(t, Segment{CheckIn: in, CheckOut: out}.Open())
}
