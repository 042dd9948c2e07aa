package punch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"Auto-Checkin-EHR/src/config"
	"Auto-Checkin-EHR/src/models"
	"Auto-Checkin-EHR/src/services/attendance"
	"Auto-Checkin-EHR/src/services/email"
)

// Browser 打卡頁面操作，由 chromedp session 實作
type Browser interface {
	Login(maxRetries int) error
	AttendanceRows(dateToken string) ([]string, error)
	PunchButton() (text string, found bool, err error)
	ClickPunch() error
	Close()
}

// Mailer 通知寄送
type Mailer interface {
	Send(subject, body string) error
}

// LogStore 打卡歷史保存（可選）
type LogStore interface {
	Append(entry models.PunchLog)
}

// Deferrer 工時不足時的延後重試排程。
// 長駐模式才有；單次執行 (batch) 不排重試，只寄通知
type Deferrer interface {
	Schedule(action models.PunchAction, retryAt time.Time, minutes int) error
	Cancel(action models.PunchAction)
}

// Runner 一次完整打卡 cycle 的協調者：
// 登入 → 抓記錄 → 判斷 → 打卡/延後/略過 → 通知 → 記錄。
// 排程、Asynq worker、dashboard 都可能觸發 cycle，
// 全部走同一把鎖循序執行，一個 cycle 獨占一個瀏覽器 session
type Runner struct {
	Cfg        *config.Config
	NewBrowser func() (Browser, error)
	Mailer     Mailer
	Store      LogStore // nil 表示未啟用
	Deferrer   Deferrer // nil 表示 batch 模式

	// 等待下班的輪詢間隔與時鐘，零值用 30 秒 / Cfg.Now；測試注入用
	PollInterval time.Duration
	Clock        func() time.Time

	mu sync.Mutex // cycle 絕不並行

	// 上班時間快取，僅供參考；永遠不覆蓋新抓到的記錄
	wsMu      sync.Mutex
	workStart *time.Time
}

func (r *Runner) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return r.Cfg.Now()
}

func (r *Runner) pollInterval() time.Duration {
	if r.PollInterval > 0 {
		return r.PollInterval
	}
	return 30 * time.Second
}

// WorkStartTime 目前快取的上班時間，dashboard 會從別的 goroutine 讀
func (r *Runner) WorkStartTime() *time.Time {
	r.wsMu.Lock()
	defer r.wsMu.Unlock()
	if r.workStart == nil {
		return nil
	}
	ws := *r.workStart
	return &ws
}

func (r *Runner) setWorkStart(t time.Time) {
	r.wsMu.Lock()
	r.workStart = &t
	r.wsMu.Unlock()
}

// RunCycle 執行一次打卡決策 cycle
func (r *Runner) RunCycle(action models.PunchAction, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	if !r.Cfg.Enabled {
		log.Println("⏸ 已停用自動打卡 (AUTO_CHECKIN_ENABLED=false)")
		return nil
	}
	if r.Cfg.IsSkipDate(now) {
		log.Printf("⏸ 今天 %s 在 SKIP_DATES，跳過自動打卡", now.Format("2006-01-02"))
		return nil
	}
	if !r.Cfg.IsWorkday(now) {
		log.Printf("⏸ 今天不是工作日，跳過 %s", action)
		return nil
	}

	browser, err := r.NewBrowser()
	if err != nil {
		return fmt.Errorf("無法啟動瀏覽器: %v", err)
	}
	defer browser.Close()

	if err := browser.Login(2); err != nil {
		log.Printf("❌ 登入失敗: %v", err)
		r.notify(email.Notification{
			Action: action, Result: fmt.Sprintf("登入失敗: %v", err),
			Source: source, At: now,
		})
		return err
	}

	snapshot := r.scrape(browser, now)

	buttonText, found, err := browser.PunchButton()
	if err != nil || !found {
		// 按鈕消失通常是頁面改版，要人工處理，不重試
		log.Printf("❌ 找不到打卡按鈕 (%s)", action)
		r.notify(email.Notification{
			Action: action, Result: "找不到打卡按鈕，頁面結構可能已變更",
			Source: "系統檢查", Day: snapshot.day, At: now,
		})
		r.appendLog(action, "找不到打卡按鈕", snapshot, source, now)
		return fmt.Errorf("punch control not found")
	}

	decision := Decide(action, snapshot.state, buttonText, snapshot.total,
		Policy{MinimumHours: r.Cfg.MinimumHours}, now)

	result := decision.Message
	switch decision.Reason {
	case models.ReasonAllowed:
		if err := browser.ClickPunch(); err != nil {
			result = fmt.Sprintf("%s 失敗: %v", action, err)
			log.Printf("❌ %s", result)
		} else {
			log.Printf("✅ %s", result)
			if action == models.ActionClockIn {
				r.setWorkStart(now)
			}
			if action == models.ActionClockOut && r.Deferrer != nil {
				// 下班成功，取消還掛著的延後重試
				r.Deferrer.Cancel(action)
			}
		}

	case models.ReasonInsufficientHours:
		if r.Deferrer != nil {
			if err := r.Deferrer.Schedule(action, *decision.RetryAt, decision.RemainingMinutes); err != nil {
				log.Printf("❌ 排程延後打卡失敗: %v", err)
				result += fmt.Sprintf("，排程重試失敗: %v", err)
			} else {
				log.Printf("⏳ 未滿 %.1f 小時，延後到 %s 下班打卡",
					r.Cfg.MinimumHours, decision.RetryAt.Format("15:04"))
				result += fmt.Sprintf("，延後到 %s 重試", decision.RetryAt.Format("15:04"))
			}
		} else {
			log.Printf("⏳ %s，發送通知郵件", decision.Message)
			result += "，已發送通知郵件"
		}

	case models.ReasonStateMismatch:
		log.Printf("⏸ %s", result)
	}

	r.notify(email.Notification{
		Action: action, Result: result, Source: source,
		WorkHours: &snapshot.total, Day: snapshot.day,
		Warnings: snapshot.warnings, At: now,
	})
	r.appendLog(action, result, snapshot, source, now)

	log.Printf("📌 %s 完成: %s", action, result)
	return nil
}

// ForcePunch 略過狀態與工時檢查直接按打卡按鈕，只給 dashboard 手動觸發用。
// 人為明確指示，所以連 Enabled/工作日守門也不擋；按鈕不存在仍然失敗
func (r *Runner) ForcePunch(action models.PunchAction, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	browser, err := r.NewBrowser()
	if err != nil {
		return fmt.Errorf("無法啟動瀏覽器: %v", err)
	}
	defer browser.Close()

	if err := browser.Login(2); err != nil {
		return err
	}

	snapshot := r.scrape(browser, now)

	buttonText, found, err := browser.PunchButton()
	if err != nil || !found {
		log.Printf("❌ 找不到打卡按鈕 (%s)", action)
		return fmt.Errorf("punch control not found")
	}

	log.Printf("⚠️ 強制打卡: %s (當前狀態 %s，按鈕 %s)", action, snapshot.state, buttonText)
	result := fmt.Sprintf("強制%s打卡成功", action)
	clickErr := browser.ClickPunch()
	if clickErr != nil {
		result = fmt.Sprintf("強制%s打卡失敗: %v", action, clickErr)
		log.Printf("❌ %s", result)
	} else {
		log.Printf("✅ %s", result)
	}

	r.notify(email.Notification{
		Action: action, Result: result, Source: source,
		WorkHours: &snapshot.total, Day: snapshot.day,
		Warnings: snapshot.warnings, At: now,
	})
	r.appendLog(action, result, snapshot, source, now)
	return clickErr
}

// WaitAndClockOut 自動偵測下班時間：算出滿足工時的目標時間後每 30 秒輪詢，
// 時間到再重新抓一次狀態確認還在上班中才打卡（等待期間可能有人從別處打了卡）。
// ctx 取消時中止，不打卡
func (r *Runner) WaitAndClockOut(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	if !r.Cfg.Enabled || r.Cfg.IsSkipDate(now) || !r.Cfg.IsWorkday(now) {
		log.Println("⏸ 今天不需要打卡，跳過下班偵測")
		return nil
	}

	browser, err := r.NewBrowser()
	if err != nil {
		return err
	}
	defer browser.Close()

	if err := browser.Login(2); err != nil {
		return err
	}

	snapshot := r.scrape(browser, now)
	if snapshot.state != models.StateCheckedIn {
		log.Printf("⚠️ 當前狀態不是 checked_in (%s)，無法執行自動下班打卡", snapshot.state)
		return nil
	}

	if snapshot.total >= r.Cfg.MinimumHours {
		log.Printf("🎉 已經滿 %.1f 小時了！立即下班打卡", r.Cfg.MinimumHours)
		return r.clickOutAndNotify(browser, snapshot, now, "自動下班偵測")
	}

	minutes := RetryAfterMinutes(snapshot.total, r.Cfg.MinimumHours)
	target := now.Add(time.Duration(minutes) * time.Minute)
	log.Printf("⏳ 將在 %s 自動執行下班打卡 (等待 %d 分鐘)", target.Format("15:04:05"), minutes)

	r.notify(email.Notification{
		Action: models.ActionClockOut,
		Result: fmt.Sprintf("自動下班偵測啟動 - 將在 %s 自動打卡下班", target.Format("15:04")),
		Source: "自動下班偵測", WorkHours: &snapshot.total, Day: snapshot.day, At: now,
	})

	ticker := time.NewTicker(r.pollInterval())
	defer ticker.Stop()
	for r.now().Before(target) {
		select {
		case <-ctx.Done():
			log.Println("⏸ 等待被取消，中止下班偵測")
			return ctx.Err()
		case <-ticker.C:
			remaining := target.Sub(r.now())
			log.Printf("⏳ 還需要等待: %d分%d秒",
				int(remaining.Minutes()), int(remaining.Seconds())%60)
		}
	}

	// 時間到，重新確認最新狀態
	now = r.now()
	snapshot = r.scrape(browser, now)
	if snapshot.state != models.StateCheckedIn {
		log.Printf("⚠️ 狀態已改變: %s，無法執行下班打卡", snapshot.state)
		return nil
	}
	return r.clickOutAndNotify(browser, snapshot, now, "自動下班偵測")
}

// ParseOnly 只登入、抓記錄、印出解析結果，不做任何打卡動作
func (r *Runner) ParseOnly() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	browser, err := r.NewBrowser()
	if err != nil {
		return err
	}
	defer browser.Close()

	if err := browser.Login(2); err != nil {
		return err
	}

	snapshot := r.scrape(browser, now)
	fmt.Println("📝 今日打卡記錄:")
	for i, seg := range snapshot.day.Segments {
		fmt.Printf("  記錄 %d: %s\n", i+1, seg)
	}
	fmt.Printf("📱 當前狀態: %s\n", snapshot.state)
	fmt.Printf("📊 總工時: %.2f 小時 (進行中 %.2f)\n", snapshot.total, snapshot.open)

	if buttonText, found, err := browser.PunchButton(); err == nil && found {
		fmt.Printf("🔘 打卡按鈕: %s\n", buttonText)
	} else {
		fmt.Println("❌ 沒有找到打卡按鈕")
	}
	return nil
}

type daySnapshot struct {
	day      models.AttendanceDay
	state    models.AttendanceState
	total    float64
	open     float64
	warnings []string
}

// scrape 抓一次當天記錄並建立這個 cycle 用的一致快照
func (r *Runner) scrape(browser Browser, now time.Time) daySnapshot {
	rows, err := browser.AttendanceRows(attendance.DateToken(now))
	if err != nil {
		log.Printf("❌ 讀取打卡記錄失敗: %v", err)
	}

	day := attendance.BuildDay(rows, now, r.Cfg.MinValidHour, r.Cfg.MaxValidHour)
	state := attendance.CurrentStatus(day)
	total, open := attendance.WorkHours(day, now)
	warnings := attendance.Validate(day)

	// 優先用當天第一筆 Check in 當上班時間；抓不到才留舊的快取
	if len(day.Segments) > 0 && day.Segments[0].CheckIn != nil {
		ws := day.Segments[0].CheckIn.On(now)
		r.setWorkStart(ws)
		log.Printf("🕘 使用當天第一筆打卡記錄作為上班時間: %s", ws.Format("15:04"))
	} else if cached := r.WorkStartTime(); cached != nil {
		log.Printf("⚠️ 沒有打卡記錄，沿用快取的上班時間: %s", cached.Format("15:04"))
	}

	log.Printf("📊 記錄 %d 筆，狀態: %s，總工時: %.2f 小時 (進行中 %.2f)",
		len(day.Segments), state, total, open)
	for _, w := range warnings {
		log.Printf("⚠️ 資料品質警告: %s", w)
	}
	return daySnapshot{day: day, state: state, total: total, open: open, warnings: warnings}
}

func (r *Runner) clickOutAndNotify(browser Browser, snapshot daySnapshot, now time.Time, source string) error {
	buttonText, found, err := browser.PunchButton()
	if err != nil || !found || !strings.Contains(buttonText, "Check out") {
		log.Println("❌ 找不到下班按鈕")
		return fmt.Errorf("punch control not found")
	}
	if err := browser.ClickPunch(); err != nil {
		return err
	}
	log.Println("✅ 自動下班打卡成功！")
	if r.Deferrer != nil {
		r.Deferrer.Cancel(models.ActionClockOut)
	}

	result := fmt.Sprintf("自動下班打卡成功 (工時: %.2f小時)", snapshot.total)
	r.notify(email.Notification{
		Action: models.ActionClockOut, Result: result, Source: source,
		WorkHours: &snapshot.total, Day: snapshot.day, Warnings: snapshot.warnings, At: now,
	})
	r.appendLog(models.ActionClockOut, result, snapshot, source, now)
	return nil
}

// notify 寄送失敗只記 log，絕不讓已成功的打卡因為通知失敗而被當成錯誤
func (r *Runner) notify(n email.Notification) {
	if r.Mailer == nil {
		return
	}
	if err := r.Mailer.Send(n.Subject(), n.Body()); err != nil {
		log.Printf("❌ 寄信失敗: %v", err)
	}
}

func (r *Runner) appendLog(action models.PunchAction, result string, snapshot daySnapshot, source string, now time.Time) {
	if r.Store == nil {
		return
	}
	r.Store.Append(models.PunchLog{
		Action: action, Result: result, State: snapshot.state,
		TotalHours: snapshot.total, Segments: snapshot.day.Segments,
		Warnings: snapshot.warnings, Source: source, At: now,
	})
}
