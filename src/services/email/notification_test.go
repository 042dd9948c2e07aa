package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"Auto-Checkin-EHR/src/models"
)

func TestNotificationSubject(t *testing.T) {
	n := Notification{
		Action: models.ActionClockOut,
		At:     time.Date(2025, 3, 10, 17, 46, 0, 0, time.UTC),
	}
	assert.Equal(t, "📅 自動打卡通知 - 下班 - 2025-03-10 17:46:00", n.Subject())
}

func TestNotificationBody(t *testing.T) {
	in := &models.TimeOfDay{Hour: 8, Minute: 50}
	out := &models.TimeOfDay{Hour: 12, Minute: 0}
	hours := 7.25

	t.Run("FullBody", func(t *testing.T) {
		n := Notification{
			Action:    models.ActionClockOut,
			Result:    "工時不足，延後到 18:17 重試",
			Source:    "排程觸發",
			WorkHours: &hours,
			Day: models.AttendanceDay{Segments: []models.Segment{
				{CheckIn: in, CheckOut: out},
			}},
			Warnings: []string{"記錄 2 的上班時間 09:00 早於前一筆記錄"},
			At:       time.Date(2025, 3, 10, 17, 46, 0, 0, time.UTC),
		}
		body := n.Body()

		assert.Contains(t, body, "動作: 下班")
		assert.Contains(t, body, "結果: 工時不足，延後到 18:17 重試")
		assert.Contains(t, body, "來源: 排程觸發")
		assert.Contains(t, body, "工時: 7.25 小時")
		assert.Contains(t, body, "記錄 1: 08:50 - 12:00")
		assert.Contains(t, body, "⚠️ 資料品質警告")
		assert.Contains(t, body, "早於前一筆記錄")
	})

	t.Run("MinimalBody", func(t *testing.T) {
		n := Notification{
			Action: models.ActionClockIn,
			Result: "上班打卡成功",
			At:     time.Date(2025, 3, 10, 8, 45, 0, 0, time.UTC),
		}
		body := n.Body()

		assert.Contains(t, body, "結果: 上班打卡成功")
		assert.NotContains(t, body, "來源:")
		assert.NotContains(t, body, "工時:")
		assert.NotContains(t, body, "當天打卡記錄")
		assert.NotContains(t, body, "警告")
	})
}

type recordingSender struct {
	subject string
	body    string
}

func (s *recordingSender) Send(subject, body string) error {
	s.subject = subject
	s.body = body
	return nil
}

func TestSendTest(t *testing.T) {
	sender := &recordingSender{}
	err := SendTest(sender, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.Contains(t, sender.subject, "測試信")
	assert.Contains(t, sender.body, "2025-03-10 09:00:00")
}
