package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"Auto-Checkin-EHR/src/models"
)

const TypePunchRetry = "punch:retry"

// PunchRetryPayload 延後重試任務的內容
type PunchRetryPayload struct {
	Action string `json:"action"`
}

// NewPunchRetryTask 建立延後重試任務
func NewPunchRetryTask(action models.PunchAction) (*asynq.Task, error) {
	payload, err := json.Marshal(PunchRetryPayload{Action: string(action)})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePunchRetry, payload), nil
}

// PunchRetryTaskID 同一天同一動作固定一個 task ID，
// 重新排程時先刪舊任務再入列，保證佇列裡永遠最多一筆
func PunchRetryTaskID(action models.PunchAction, day time.Time) string {
	return fmt.Sprintf("punch-retry-%s-%s", action, day.Format("20060102"))
}
