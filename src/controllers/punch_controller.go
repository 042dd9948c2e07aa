package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"Auto-Checkin-EHR/src/database"
	"Auto-Checkin-EHR/src/models"
	"Auto-Checkin-EHR/src/services/email"
	"Auto-Checkin-EHR/src/services/punch"
	"Auto-Checkin-EHR/src/utils"
)

// Runner 由 main 注入，與排程共用同一個 Runner
var Runner *punch.Runner

// GetStatus - 系統目前設定與狀態
func GetStatus(c *fiber.Ctx) error {
	now := Cfg.Now()

	var workStart *string
	if ws := Runner.WorkStartTime(); ws != nil {
		s := ws.Format("15:04")
		workStart = &s
	}

	return c.JSON(fiber.Map{
		"enabled":      Cfg.Enabled,
		"now":          now.Format("2006-01-02 15:04:05"),
		"timezone":     Cfg.Location.String(),
		"isWorkday":    Cfg.IsWorkday(now),
		"isSkipDate":   Cfg.IsSkipDate(now),
		"minimumHours": Cfg.MinimumHours,
		"workStart":    workStart,
		"schedule": fiber.Map{
			"clockIn":  Cfg.ClockInAt,
			"lunchOut": Cfg.LunchOutAt,
			"lunchIn":  Cfg.LunchInAt,
			"clockOut": Cfg.ClockOutAt,
		},
	})
}

// GetLogs - 最近的打卡歷史 (需要 MongoDB)
func GetLogs(c *fiber.Ctx) error {
	if !database.Available() {
		return utils.HandleError(c, fiber.StatusServiceUnavailable, "打卡歷史未啟用 (MONGO_URI 未設定)")
	}

	n := c.QueryInt("limit", 20)
	if n < 1 || n > 100 {
		n = 20
	}

	logs, err := punch.MongoStore{}.Recent(int64(n))
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "讀取打卡歷史失敗: "+err.Error())
	}
	if logs == nil {
		logs = []models.PunchLog{}
	}
	return c.JSON(logs)
}

// TriggerPunch - 手動觸發一次打卡 cycle，在背景執行。
// force=true 時略過狀態與工時檢查直接打卡
func TriggerPunch(c *fiber.Ctx) error {
	action, err := models.ParsePunchAction(c.Params("action"))
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}
	force := c.QueryBool("force", false)

	go func() {
		var err error
		if force {
			err = Runner.ForcePunch(action, "手動強制觸發 (dashboard)")
		} else {
			err = Runner.RunCycle(action, "手動觸發 (dashboard)")
		}
		if err != nil {
			log.Printf("❌ 手動觸發 %s 失敗: %v", action, err)
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "已開始執行",
		"action":  action,
		"force":   force,
	})
}

// TestEmail - 寄一封測試信
func TestEmail(c *fiber.Ctx) error {
	if Runner.Mailer == nil {
		return utils.HandleError(c, fiber.StatusServiceUnavailable, "郵件通知未啟用")
	}
	if err := email.SendTest(Runner.Mailer, Cfg.Now()); err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "測試寄信失敗: "+err.Error())
	}
	return c.JSON(fiber.Map{"message": "測試信已寄出"})
}
