package attendance

import (
	"fmt"
	"time"

	"Auto-Checkin-EHR/src/models"
)

// CurrentStatus 由最後一筆記錄判斷當前打卡狀態。
// 純函式：沒有記錄 → 未打卡；最後一筆沒下班時間 → 上班中；都有 → 已下班
func CurrentStatus(day models.AttendanceDay) models.AttendanceState {
	if len(day.Segments) == 0 {
		return models.StateNotCheckedIn
	}
	last := day.Segments[len(day.Segments)-1]
	switch {
	case last.CheckIn == nil:
		return models.StateNotCheckedIn
	case last.CheckOut == nil:
		return models.StateCheckedIn
	default:
		return models.StateCheckedOut
	}
}

// WorkHours 累計當天工時。
// 已完成的工時段算 (check out - check in)，進行中的算 (now - check in)，
// 回傳 (總工時, 進行中工時)，進行中工時已包含在總工時內
func WorkHours(day models.AttendanceDay, now time.Time) (total, open float64) {
	for _, seg := range day.Segments {
		if seg.CheckIn == nil {
			continue
		}
		in := seg.CheckIn.On(day.Date)
		if seg.CheckOut != nil {
			out := seg.CheckOut.On(day.Date)
			total += out.Sub(in).Hours()
		} else {
			open = now.Sub(in).Hours()
		}
	}
	total += open
	return total, open
}

// Validate 檢查記錄品質，回傳警告列表（不是錯誤）。
// 負的工時段或時間順序錯亂多半是解析出了問題，要讓通知信看得到，
// 而不是默默吃掉讓總工時變少
func Validate(day models.AttendanceDay) []string {
	var warnings []string
	var prev *models.TimeOfDay

	for i, seg := range day.Segments {
		if seg.CheckIn == nil {
			continue
		}
		if seg.CheckIn != nil && seg.CheckOut != nil {
			in := seg.CheckIn.On(day.Date)
			out := seg.CheckOut.On(day.Date)
			if out.Before(in) {
				warnings = append(warnings,
					fmt.Sprintf("記錄 %d 的下班時間 %s 早於上班時間 %s", i+1, seg.CheckOut, seg.CheckIn))
			}
		}
		if prev != nil && (seg.CheckIn.Hour < prev.Hour ||
			(seg.CheckIn.Hour == prev.Hour && seg.CheckIn.Minute < prev.Minute)) {
			warnings = append(warnings,
				fmt.Sprintf("記錄 %d 的上班時間 %s 早於前一筆記錄", i+1, seg.CheckIn))
		}
		if seg.Open() && i != len(day.Segments)-1 {
			warnings = append(warnings,
				fmt.Sprintf("記錄 %d 未下班卻不是最後一筆", i+1))
		}
		if seg.CheckOut != nil {
			prev = seg.CheckOut
		} else {
			prev = seg.CheckIn
		}
	}
	return warnings
}
