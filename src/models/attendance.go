package models

import (
	"fmt"
	"time"
)

// TimeOfDay 從 "HH:MM" 解析出的時間，不可變
type TimeOfDay struct {
	Hour   int `json:"hour" bson:"hour"`
	Minute int `json:"minute" bson:"minute"`
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On 與指定日期組合成完整時間（沿用該日期的時區）
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

// Segment 一組上班/下班打卡；CheckOut 為 nil 表示這段還在進行中
type Segment struct {
	CheckIn  *TimeOfDay `json:"checkIn" bson:"checkIn"`
	CheckOut *TimeOfDay `json:"checkOut" bson:"checkOut"`
}

// Open 是否為進行中的工時段（已上班未下班）
func (s Segment) Open() bool {
	return s.CheckIn != nil && s.CheckOut == nil
}

func (s Segment) String() string {
	in, out := "N/A", "進行中"
	if s.CheckIn != nil {
		in = s.CheckIn.String()
	}
	if s.CheckOut != nil {
		out = s.CheckOut.String()
	}
	return in + " - " + out
}

// AttendanceDay 當天打卡記錄的不可變快照，每個 cycle 重新抓取
type AttendanceDay struct {
	Date     time.Time `json:"date"`
	Segments []Segment `json:"segments"`
}

// AttendanceState 當前打卡狀態，由最後一筆 Segment 決定
type AttendanceState string

const (
	StateNotCheckedIn AttendanceState = "not_checked_in"
	StateCheckedIn    AttendanceState = "checked_in"
	StateCheckedOut   AttendanceState = "checked_out"
)
