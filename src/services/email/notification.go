package email

import (
	"fmt"
	"log"
	"strings"
	"time"

	"Auto-Checkin-EHR/src/models"
)

// Notification 打卡通知信的內容，Subject/Body 為純函式方便測試
type Notification struct {
	Action    models.PunchAction
	Result    string
	Source    string
	WorkHours *float64
	Day       models.AttendanceDay
	Warnings  []string
	At        time.Time
}

func (n Notification) Subject() string {
	return fmt.Sprintf("📅 自動打卡通知 - %s - %s", n.Action, n.At.Format("2006-01-02 15:04:05"))
}

func (n Notification) Body() string {
	var b strings.Builder
	b.WriteString("自動打卡系統通知\n\n")
	fmt.Fprintf(&b, "時間: %s\n", n.At.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "動作: %s\n", n.Action)
	fmt.Fprintf(&b, "結果: %s\n", n.Result)
	if n.Source != "" {
		fmt.Fprintf(&b, "來源: %s\n", n.Source)
	}
	if n.WorkHours != nil {
		fmt.Fprintf(&b, "工時: %.2f 小時\n", *n.WorkHours)
	}

	if len(n.Day.Segments) > 0 {
		b.WriteString("\n📊 當天打卡記錄:\n")
		for i, seg := range n.Day.Segments {
			fmt.Fprintf(&b, "  記錄 %d: %s\n", i+1, seg)
		}
	}
	if len(n.Warnings) > 0 {
		b.WriteString("\n⚠️ 資料品質警告:\n")
		for _, w := range n.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}

	b.WriteString("\n---\n自動打卡系統\n")
	return b.String()
}

// SendTest 寄一封測試信驗證 SMTP 設定
func SendTest(sender MailSender, now time.Time) error {
	subject := fmt.Sprintf("🧪 自動打卡系統測試信 - %s", now.Format("2006-01-02 15:04:05"))
	body := fmt.Sprintf(`這是一封測試信，用於驗證自動打卡系統的寄信功能。

測試時間: %s
系統狀態: 正常運作

如果您收到這封信，表示寄信功能運作正常！

---
自動打卡系統
`, now.Format("2006-01-02 15:04:05"))

	if err := sender.Send(subject, body); err != nil {
		log.Printf("❌ 測試寄信失敗: %v", err)
		return err
	}
	log.Println("✅ 測試寄信成功！")
	return nil
}
