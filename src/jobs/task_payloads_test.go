package jobs

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"Auto-Checkin-EHR/src/models"
)

func TestPunchRetryTaskID(t *testing.T) {
	day := time.Date(2025, 3, 10, 17, 46, 0, 0, time.UTC)

	id := PunchRetryTaskID(models.ActionClockOut, day)
	assert.Equal(t, "punch-retry-下班-20250310", id)

	// 同一天同一動作永遠同一個 ID
	later := day.Add(2 * time.Hour)
	assert.Equal(t, id, PunchRetryTaskID(models.ActionClockOut, later))

	// 不同天不同 ID
	tomorrow := day.Add(24 * time.Hour)
	assert.NotEqual(t, id, PunchRetryTaskID(models.ActionClockOut, tomorrow))
}

func TestNewPunchRetryTask(t *testing.T) {
	task, err := NewPunchRetryTask(models.ActionClockOut)
	assert.NoError(t, err)
	assert.Equal(t, TypePunchRetry, task.Type())

	var payload PunchRetryPayload
	assert.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "下班", payload.Action)
}
