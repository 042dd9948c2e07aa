package attendance

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"Auto-Checkin-EHR/src/models"
)

// 時區/地區關鍵字：打卡頁面上方會 render 一塊時區選擇器，
// 裡面的 UTC+8 之類的文字會被誤認成打卡時間，整行直接跳過
var timezoneKeywords = []string{
	// 完整時區名稱
	"Eastern Time Zone", "Central Time Zone", "Mountain Time Zone",
	"Pacific Time Zone", "East Asia Time Zone", "India Standard Time",
	"Greenwich Mean Time", "Coordinated Universal Time",
	// 時區縮寫
	"EST", "CST", "MST", "PST", "EDT", "CDT", "MDT", "PDT",
	"GMT", "UTC", "JST", "KST", "IST",
	// UTC/GMT 偏移
	"UTC+", "UTC-", "GMT+", "GMT-",
	// 地區名稱
	"Ann Arbor", "Pittsburgh", "Durham", "Chicago", "Texas", "Colorado",
	"Washington", "California", "Taiwan", "Singapore", "Malaysia",
	"New York", "Los Angeles", "Seattle", "Boston", "Miami",
	"Asia/", "America/", "Europe/", "Africa/", "Australia/",
	// 其他時區標識
	"Time Zone", "Timezone", "TZ", "Offset",
}

var timezonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)UTC[+-]\d+`),
	regexp.MustCompile(`(?i)GMT[+-]\d+`),
	regexp.MustCompile(`\b[A-Z]{3,4}\b`), // EST, CST, PST, JST
	regexp.MustCompile(`(?i)[A-Z][a-z]+ Time Zone`),
	regexp.MustCompile(`(?i)Asia/[A-Za-z_]+`),
	regexp.MustCompile(`(?i)America/[A-Za-z_]+`),
}

var timeTokenPattern = regexp.MustCompile(`\b(\d{1,2}:\d{2})\b`)

// IsTimezoneRow 判斷一行文字是否為時區/地區資訊列
func IsTimezoneRow(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range timezoneKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	for _, p := range timezonePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// ExtractTimes 從一行文字中依序取出有效的打卡時間。
// 時區列整行捨棄；時間必須落在 [minHour, maxHour] 之間，
// 範圍外的視為雜訊（例如被誤抓的時區偏移）
func ExtractTimes(text string, minHour, maxHour int) []models.TimeOfDay {
	if IsTimezoneRow(text) {
		return nil
	}

	var times []models.TimeOfDay
	for _, m := range timeTokenPattern.FindAllStringSubmatch(text, -1) {
		parts := strings.SplitN(m[1], ":", 2)
		hour, err1 := strconv.Atoi(parts[0])
		minute, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || minute > 59 {
			continue
		}
		if hour < minHour || hour > maxHour {
			continue
		}
		times = append(times, models.TimeOfDay{Hour: hour, Minute: minute})
	}
	return times
}

// BuildDay 把當天每一行打卡記錄組成 AttendanceDay。
// 每行第一個時間是 Check in、第二個是 Check out（沒有就是進行中），
// 沒抓到時間的行（標題、時區列）直接跳過
func BuildDay(rowTexts []string, date time.Time, minHour, maxHour int) models.AttendanceDay {
	day := models.AttendanceDay{Date: date}
	for _, text := range rowTexts {
		times := ExtractTimes(text, minHour, maxHour)
		if len(times) == 0 {
			continue
		}
		seg := models.Segment{CheckIn: &times[0]}
		if len(times) > 1 {
			seg.CheckOut = &times[1]
		}
		day.Segments = append(day.Segments, seg)
	}
	return day
}

// DateToken 打卡系統顯示的日期格式 MM/DD
func DateToken(t time.Time) string {
	return t.Format("01/02")
}
