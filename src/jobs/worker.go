package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"Auto-Checkin-EHR/src/models"
)

// RunFunc 由 main 注入，執行一次指定動作的打卡 cycle。
// 用注入避免 jobs 反向依賴 punch package
var RunFunc func(action models.PunchAction) error

// StartWorker 啟動 Asynq worker，阻塞直到出錯
func StartWorker(redisAddr string) error {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 1, // 打卡 cycle 絕不並行
			Queues:      map[string]int{"default": 1},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePunchRetry, handlePunchRetry)

	log.Println("🚀 Asynq worker started...")
	return srv.Run(mux)
}

func handlePunchRetry(ctx context.Context, t *asynq.Task) error {
	var payload PunchRetryPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v", err)
	}

	action, err := models.ParsePunchAction(payload.Action)
	if err != nil {
		return err
	}
	if RunFunc == nil {
		return fmt.Errorf("punch runner not wired")
	}

	log.Printf("🔄 延後重試任務觸發: %s", action)
	return RunFunc(action)
}
