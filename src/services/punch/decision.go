package punch

import (
	"fmt"
	"strings"
	"time"

	"Auto-Checkin-EHR/src/models"
)

// Policy 打卡規則
type Policy struct {
	MinimumHours float64 // 下班前最低工時
}

// Decide 判斷此刻是否可以執行指定的打卡動作。
// 解析出的狀態「和」頁面按鈕文字必須同時吻合才放行：
// 抓下來的記錄和即時按鈕偶爾會不同步（時間差或解析缺漏），雙重確認擋掉誤點。
// 下班另外檢查工時門檻，不足時交給延後重試計算。
func Decide(action models.PunchAction, state models.AttendanceState, buttonText string,
	totalHours float64, policy Policy, now time.Time) models.PunchDecision {

	var stateOK, buttonOK bool

	switch action {
	case models.ActionClockIn:
		stateOK = state == models.StateNotCheckedIn
		buttonOK = strings.Contains(buttonText, "Check in")
	case models.ActionLunchOut:
		stateOK = state == models.StateCheckedIn
		buttonOK = strings.Contains(buttonText, "Check out")
	case models.ActionLunchIn:
		// 已下班或尚未打卡都算「可以再上班」
		stateOK = state == models.StateCheckedOut || state == models.StateNotCheckedIn
		buttonOK = strings.Contains(buttonText, "Check in")
	case models.ActionClockOut:
		stateOK = state == models.StateCheckedIn
		buttonOK = strings.Contains(buttonText, "Check out")
	default:
		return models.PunchDecision{
			Reason:  models.ReasonStateMismatch,
			Message: fmt.Sprintf("未知的打卡動作: %s", action),
		}
	}

	if !stateOK || !buttonOK {
		// 狀態已正確，不是錯誤，略過即可
		return models.PunchDecision{
			Reason:  models.ReasonStateMismatch,
			Message: fmt.Sprintf("%s - 當前狀態: %s，按鈕: %s，略過", action, state, buttonText),
		}
	}

	if action == models.ActionClockOut && totalHours < policy.MinimumHours {
		minutes := RetryAfterMinutes(totalHours, policy.MinimumHours)
		retryAt := now.Add(time.Duration(minutes) * time.Minute)
		return models.PunchDecision{
			Reason: models.ReasonInsufficientHours,
			Message: fmt.Sprintf("工時不足 (%.1f小時 < %.1f小時)，需要再工作 %d 分鐘",
				totalHours, policy.MinimumHours, minutes),
			RemainingMinutes: minutes,
			RetryAt:          &retryAt,
		}
	}

	return models.PunchDecision{
		Allowed: true,
		Reason:  models.ReasonAllowed,
		Message: fmt.Sprintf("%s打卡成功", action),
	}
}
