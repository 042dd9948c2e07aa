package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PunchAction 打卡動作，沿用打卡系統的中文標籤
type PunchAction string

const (
	ActionClockIn  PunchAction = "上班"
	ActionLunchOut PunchAction = "午休下班"
	ActionLunchIn  PunchAction = "午休上班"
	ActionClockOut PunchAction = "下班"
)

// ParsePunchAction 接受中文標籤或英文別名
func ParsePunchAction(s string) (PunchAction, error) {
	switch s {
	case "上班", "clock-in", "clockin":
		return ActionClockIn, nil
	case "午休下班", "lunch-out", "lunchout":
		return ActionLunchOut, nil
	case "午休上班", "lunch-in", "lunchin":
		return ActionLunchIn, nil
	case "下班", "clock-out", "clockout":
		return ActionClockOut, nil
	}
	return "", fmt.Errorf("未知的打卡動作: %q", s)
}

// DecisionReason 決策結果分類
type DecisionReason string

const (
	ReasonAllowed           DecisionReason = "allowed"
	ReasonStateMismatch     DecisionReason = "state_mismatch"
	ReasonInsufficientHours DecisionReason = "insufficient_hours"
)

// PunchDecision 單次打卡決策結果，每個 cycle 重新計算、不持久化
type PunchDecision struct {
	Allowed bool           `json:"allowed"`
	Reason  DecisionReason `json:"reason"`
	Message string         `json:"message"`

	// 工時不足時才會填：需再等待的分鐘數與建議重試時間
	RemainingMinutes int        `json:"remainingMinutes,omitempty"`
	RetryAt          *time.Time `json:"retryAt,omitempty"`
}

// PunchLog 打卡歷史記錄 (MongoDB PunchLogs collection)
type PunchLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action     PunchAction        `bson:"action" json:"action"`
	Result     string             `bson:"result" json:"result"`
	State      AttendanceState    `bson:"state" json:"state"`
	TotalHours float64            `bson:"totalHours" json:"totalHours"`
	Segments   []Segment          `bson:"segments" json:"segments"`
	Warnings   []string           `bson:"warnings,omitempty" json:"warnings,omitempty"`
	Source     string             `bson:"source" json:"source"`
	At         time.Time          `bson:"at" json:"at"`
}
