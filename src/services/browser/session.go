package browser

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"Auto-Checkin-EHR/src/config"
)

const punchButtonXPath = `//button[contains(text(),'Check in') or contains(text(),'Check out')]`

// Session 一個打卡 cycle 獨占的 headless Chrome session
type Session struct {
	cfg         *config.Config
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// NewSession 建立 headless browser context
func NewSession(cfg *config.Config) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true), // container 內以 root 執行需要這個
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)

	return &Session{cfg: cfg, ctx: taskCtx, cancel: taskCancel, allocCancel: allocCancel}, nil
}

// Login 登入打卡系統，失敗時重試；登入成功的判斷標準是頁面上出現 Check 按鈕
func (s *Session) Login(maxRetries int) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("🔄 第 %d 次登入嘗試...", attempt+1)
			time.Sleep(5 * time.Second)
		} else {
			log.Println("🌐 正在連接網站...")
		}

		err := chromedp.Run(s.ctx,
			chromedp.Navigate(s.cfg.LoginURL),
			chromedp.WaitVisible(`#__BVID__6`, chromedp.ByQuery),
			chromedp.SendKeys(`#__BVID__6`, s.cfg.Username, chromedp.ByQuery),
			chromedp.SendKeys(`#__BVID__8`, s.cfg.Password, chromedp.ByQuery),
			chromedp.Click(`//button[contains(text(),'Log In')]`, chromedp.BySearch),
			// 等portal render打卡頁
			chromedp.Sleep(3*time.Second),
		)
		if err != nil {
			log.Printf("❌ 登入過程出錯: %v", err)
			continue
		}

		var loggedIn bool
		err = chromedp.Run(s.ctx, chromedp.Evaluate(
			`[...document.querySelectorAll("button")].some(b => b.innerText.includes("Check"))`,
			&loggedIn,
		))
		if err == nil && loggedIn {
			log.Println("✅ 登入成功 - 找到打卡按鈕")
			return nil
		}
		log.Printf("❌ 登入失敗 - 第 %d 次嘗試，未找到打卡按鈕", attempt+1)
	}
	return fmt.Errorf("所有登入嘗試都失敗了")
}

// AttendanceRows 抓出今日日期容器內所有打卡記錄行的文字
func (s *Session) AttendanceRows(dateToken string) ([]string, error) {
	script := fmt.Sprintf(`(() => {
		const container = document.evaluate(
			"//div[contains(@class,'border') and contains(@class,'px-3') and .//div[contains(text(), '%s')]]",
			document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
		if (!container) return [];
		const rows = document.evaluate(
			".//div[contains(@class,'row') and contains(@class,'border-bottom') and contains(@class,'hover-bg-primary-light')]",
			container, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
		const out = [];
		for (let i = 0; i < rows.snapshotLength; i++) out.push(rows.snapshotItem(i).innerText);
		return out;
	})()`, dateToken)

	var rows []string
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(script, &rows)); err != nil {
		return nil, fmt.Errorf("讀取打卡記錄失敗: %v", err)
	}
	log.Printf("📊 找到 %d 個打卡記錄行 (日期 %s)", len(rows), dateToken)
	return rows, nil
}

// PunchButton 回傳目前顯示的打卡按鈕文字
func (s *Session) PunchButton() (string, bool, error) {
	var text string
	err := chromedp.Run(s.ctx, chromedp.Evaluate(
		`(() => {
			const btn = [...document.querySelectorAll("button")]
				.find(b => b.innerText.includes("Check in") || b.innerText.includes("Check out"));
			return btn ? btn.innerText.trim() : "";
		})()`,
		&text,
	))
	if err != nil {
		return "", false, err
	}
	return text, text != "", nil
}

// ClickPunch 點擊打卡按鈕
func (s *Session) ClickPunch() error {
	return chromedp.Run(s.ctx, chromedp.Click(punchButtonXPath, chromedp.BySearch))
}

// DebugStructure 印出頁面結構，調整 selector 時用
func (s *Session) DebugStructure() error {
	var dateDivs []string
	var pageText string
	err := chromedp.Run(s.ctx,
		chromedp.Evaluate(
			`[...document.querySelectorAll("div")].filter(d => d.innerText.includes("/")).slice(0, 10).map(d => d.innerText.split("\n")[0])`,
			&dateDivs,
		),
		chromedp.Evaluate(`document.body.innerText`, &pageText),
	)
	if err != nil {
		return err
	}

	fmt.Printf("📅 找到 %d 個包含日期的 div:\n", len(dateDivs))
	for i, d := range dateDivs {
		fmt.Printf("  %d: %s\n", i+1, d)
	}

	matches := []string{}
	for _, line := range strings.Split(pageText, "\n") {
		if strings.Contains(line, ":") {
			matches = append(matches, strings.TrimSpace(line))
		}
	}
	fmt.Printf("🕐 包含冒號的行數: %d\n", len(matches))

	if text, found, err := s.PunchButton(); err == nil && found {
		fmt.Printf("🔘 打卡按鈕: %s\n", text)
	} else {
		fmt.Println("❌ 沒有找到打卡按鈕")
	}
	return nil
}

// Close 關閉瀏覽器
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}
