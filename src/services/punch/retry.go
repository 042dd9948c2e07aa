package punch

import "math"

// RetryAfterMinutes 工時不足時要再等幾分鐘才重試下班打卡。
// 多加 1 分鐘，避免剛好踩在門檻上又差幾秒
func RetryAfterMinutes(totalHours, minimumHours float64) int {
	remaining := minimumHours - totalHours
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining*60)) + 1
}
