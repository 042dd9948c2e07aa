package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"Auto-Checkin-EHR/src/config"
	"Auto-Checkin-EHR/src/controllers"
	"Auto-Checkin-EHR/src/database"
	"Auto-Checkin-EHR/src/jobs"
	"Auto-Checkin-EHR/src/models"
	"Auto-Checkin-EHR/src/routes"
	"Auto-Checkin-EHR/src/scheduler"
	"Auto-Checkin-EHR/src/services/browser"
	"Auto-Checkin-EHR/src/services/email"
	"Auto-Checkin-EHR/src/services/punch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ 載入設定失敗: %v", err)
	}

	runner := newRunner(cfg)

	mode := "loop"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "loop":
		runLoop(cfg, runner)

	case "once":
		if len(os.Args) < 3 {
			log.Fatal("用法: once <上班|午休下班|午休上班|下班>")
		}
		action, err := models.ParsePunchAction(os.Args[2])
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		if err := runner.RunCycle(action, "單次執行"); err != nil {
			log.Fatalf("❌ %v", err)
		}

	case "wait":
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := runner.WaitAndClockOut(ctx); err != nil {
			log.Fatalf("❌ %v", err)
		}

	case "parse":
		if err := runner.ParseOnly(); err != nil {
			log.Fatalf("❌ %v", err)
		}

	case "debug":
		if err := runDebug(cfg); err != nil {
			log.Fatalf("❌ %v", err)
		}

	case "email":
		sender, err := email.NewSMTPSender(cfg)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		if err := email.SendTest(sender, cfg.Now()); err != nil {
			log.Fatalf("❌ %v", err)
		}

	default:
		log.Fatalf("未知模式 %q，可用: loop | once <動作> | wait | parse | debug | email", mode)
	}
}

// newRunner 組裝一個打卡 Runner，郵件與 MongoDB 都是可選的
func newRunner(cfg *config.Config) *punch.Runner {
	runner := &punch.Runner{
		Cfg: cfg,
		NewBrowser: func() (punch.Browser, error) {
			return browser.NewSession(cfg)
		},
	}

	if sender, err := email.NewSMTPSender(cfg); err != nil {
		log.Printf("⚠️ 郵件通知未啟用: %v", err)
	} else {
		runner.Mailer = sender
	}

	if err := database.ConnectMongoDB(cfg.MongoURI); err != nil {
		log.Printf("⚠️ MongoDB 連線失敗，打卡歷史不會保存: %v", err)
	} else if database.Available() {
		runner.Store = punch.MongoStore{}
	}

	return runner
}

// runLoop 長駐模式：每日排程 + dashboard + 延後重試 worker
func runLoop(cfg *config.Config, runner *punch.Runner) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(cfg.Now)

	run := func(action models.PunchAction) error {
		return runner.RunCycle(action, "排程觸發")
	}
	jobs.RunFunc = run

	// 有 Redis 就用 Asynq 佇列做延後重試，沒有就退回 in-process 排程
	database.InitRedis(cfg.RedisURI)
	database.InitAsynq()
	if database.AsynqClient != nil {
		runner.Deferrer = jobs.NewAsynqDeferrer(database.AsynqClient, cfg.RedisURI, cfg.Now)
		go func() {
			if err := jobs.StartWorker(cfg.RedisURI); err != nil {
				log.Printf("❌ Asynq worker 停止: %v", err)
			}
		}()
	} else {
		runner.Deferrer = jobs.NewSchedulerDeferrer(sched, run)
	}

	// 每日四個打卡時間點
	daily := []struct {
		at     string
		action models.PunchAction
	}{
		{cfg.ClockInAt, models.ActionClockIn},
		{cfg.LunchOutAt, models.ActionLunchOut},
		{cfg.LunchInAt, models.ActionLunchIn},
		{cfg.ClockOutAt, models.ActionClockOut},
	}
	for _, d := range daily {
		action := d.action
		if _, err := sched.EveryDayAt(d.at, func() {
			if err := runner.RunCycle(action, "排程觸發"); err != nil {
				log.Printf("❌ 排程 %s 失敗: %v", action, err)
			}
		}); err != nil {
			log.Fatalf("❌ 排程時間格式錯誤 (%s): %v", d.at, err)
		}
		log.Printf("📅 已排程 %s 於每天 %s", action, d.at)
	}

	go sched.Run(ctx)
	go startDashboard(cfg, runner)

	<-ctx.Done()
	log.Println("👋 收到結束訊號，關閉中...")
	time.Sleep(time.Second)
}

// startDashboard 啟動 fiber dashboard API
func startDashboard(cfg *config.Config, runner *punch.Runner) {
	controllers.Cfg = cfg
	controllers.Runner = runner

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
	}))

	routes.InitRoutes(app, cfg.JWTSecret)

	log.Println("Server is running on port " + cfg.AppPort)
	if err := app.Listen(fmt.Sprintf(":%s", cfg.AppPort)); err != nil {
		log.Fatal(err)
	}
}

// runDebug 登入後印出頁面結構，selector 失效時用來排查
func runDebug(cfg *config.Config) error {
	session, err := browser.NewSession(cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Login(2); err != nil {
		return err
	}
	return session.DebugStructure()
}
