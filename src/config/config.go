package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config 系統配置，process 啟動時載入一次後以參數傳遞
// 核心邏輯不直接讀取環境變數
type Config struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
	LoginURL string `validate:"required,url"`

	// 自動打卡開關與工作日設定
	Enabled   bool
	WorkDays  map[time.Weekday]bool
	SkipDates map[string]bool // "2006-01-02"

	// 打卡規則
	MinimumHours float64 // 下班前最低工時 (預設 8.0)
	MinValidHour int     // 有效打卡時間下限 (預設 6)
	MaxValidHour int     // 有效打卡時間上限 (預設 22)

	// 打卡系統顯示的時區 (預設 Asia/Taipei)
	Location *time.Location

	// 排程時間 HH:MM
	ClockInAt  string
	LunchOutAt string
	LunchInAt  string
	ClockOutAt string

	// 郵件設定
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	EmailTo  string

	// 基礎設施 (留空表示不啟用)
	MongoURI string
	RedisURI string

	// Dashboard
	AppPort           string
	DashboardUser     string
	DashboardPassHash string // bcrypt hash
	JWTSecret         string
}

var validate = validator.New()

// Load 讀取 .env 並建立 Config，缺少必要變數時回傳錯誤
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Warning: No .env file found")
	}

	cfg := &Config{
		Username:          os.Getenv("EHR_USERNAME"),
		Password:          os.Getenv("EHR_PASSWORD"),
		LoginURL:          os.Getenv("LOGIN_URL"),
		Enabled:           envBool("AUTO_CHECKIN_ENABLED", true),
		WorkDays:          parseWorkDays(os.Getenv("WORK_DAYS")),
		SkipDates:         parseSkipDates(os.Getenv("SKIP_DATES")),
		MinimumHours:      envFloat("MINIMUM_HOURS", 8.0),
		MinValidHour:      envInt("MIN_VALID_HOUR", 6),
		MaxValidHour:      envInt("MAX_VALID_HOUR", 22),
		ClockInAt:         envStr("CLOCK_IN_AT", "08:45"),
		LunchOutAt:        envStr("LUNCH_OUT_AT", "12:00"),
		LunchInAt:         envStr("LUNCH_IN_AT", "13:00"),
		ClockOutAt:        envStr("CLOCK_OUT_AT", "17:46"),
		SMTPHost:          os.Getenv("SMTP_SERVER"),
		SMTPPort:          envInt("SMTP_PORT", 587),
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPass:          os.Getenv("SMTP_PASS"),
		EmailTo:           os.Getenv("EMAIL_TO"),
		MongoURI:          os.Getenv("MONGO_URI"),
		RedisURI:          os.Getenv("REDIS_URI"),
		AppPort:           envStr("APP_PORT", "8888"),
		DashboardUser:     os.Getenv("DASHBOARD_USER"),
		DashboardPassHash: os.Getenv("DASHBOARD_PASS_HASH"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
	}

	tz := envStr("PORTAL_TZ", "Asia/Taipei")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid PORTAL_TZ %q: %v", tz, err)
	}
	cfg.Location = loc

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("缺少必要的環境變數: %v", err)
	}
	return cfg, nil
}

// Now 回傳打卡系統時區的現在時間
func (c *Config) Now() time.Time {
	return time.Now().In(c.Location)
}

// IsWorkday 檢查指定日期是否為工作日
func (c *Config) IsWorkday(t time.Time) bool {
	return c.WorkDays[t.Weekday()]
}

// IsSkipDate 檢查指定日期是否在請假日列表中
func (c *Config) IsSkipDate(t time.Time) bool {
	return c.SkipDates[t.Format("2006-01-02")]
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return strings.ToLower(v) == "true"
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}

// parseWorkDays "1,2,3,4,5" (0=週日 ... 6=週六)，預設週一到週五
func parseWorkDays(s string) map[time.Weekday]bool {
	days := map[time.Weekday]bool{}
	if s == "" {
		for d := time.Monday; d <= time.Friday; d++ {
			days[d] = true
		}
		return days
	}
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			log.Printf("⚠️ 無效工作日: %q", part)
			continue
		}
		days[time.Weekday(n)] = true
	}
	return days
}

// parseSkipDates "2025-01-01,2025-02-28"
func parseSkipDates(s string) map[string]bool {
	dates := map[string]bool{}
	if s == "" {
		return dates
	}
	for _, part := range strings.Split(s, ",") {
		d := strings.TrimSpace(part)
		if _, err := time.Parse("2006-01-02", d); err != nil {
			log.Printf("⚠️ 無效日期格式: %q，應為 YYYY-MM-DD", d)
			continue
		}
		dates[d] = true
	}
	return dates
}
