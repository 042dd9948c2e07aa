package jobs

import (
	"log"
	"sync"
	"time"

	"github.com/hibiken/asynq"

	"Auto-Checkin-EHR/src/models"
	"Auto-Checkin-EHR/src/scheduler"
)

// AsynqDeferrer 把延後重試放進 Redis 佇列，process 重啟後任務仍在
type AsynqDeferrer struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
	Now       func() time.Time
}

func NewAsynqDeferrer(client *asynq.Client, redisAddr string, now func() time.Time) *AsynqDeferrer {
	return &AsynqDeferrer{
		Client:    client,
		Inspector: asynq.NewInspector(asynq.RedisClientOpt{Addr: redisAddr}),
		Now:       now,
	}
}

// Schedule 入列延後重試任務；同一天同一動作的舊任務先刪掉再排新的
func (d *AsynqDeferrer) Schedule(action models.PunchAction, retryAt time.Time, minutes int) error {
	id := PunchRetryTaskID(action, d.Now())

	// 舊任務不存在時 DeleteTask 會回錯，忽略即可
	if err := d.Inspector.DeleteTask("default", id); err == nil {
		log.Printf("🔄 已刪除舊的延後任務: %s", id)
	}

	task, err := NewPunchRetryTask(action)
	if err != nil {
		return err
	}
	info, err := d.Client.Enqueue(task,
		asynq.ProcessAt(retryAt),
		asynq.TaskID(id),
		asynq.Queue("default"),
	)
	if err != nil {
		return err
	}
	log.Printf("⏳ 延後任務已入列: id=%s queue=%s 執行時間=%s (等待 %d 分鐘)",
		info.ID, info.Queue, retryAt.Format("15:04:05"), minutes)
	return nil
}

// Cancel 刪除當天該動作的延後任務
func (d *AsynqDeferrer) Cancel(action models.PunchAction) {
	id := PunchRetryTaskID(action, d.Now())
	if err := d.Inspector.DeleteTask("default", id); err == nil {
		log.Printf("🗑 已取消延後任務: %s", id)
	}
}

// SchedulerDeferrer 沒有 Redis 時的 in-process 退路，重啟後任務就沒了
type SchedulerDeferrer struct {
	Sched *scheduler.Scheduler
	Run   func(action models.PunchAction) error

	mu     sync.Mutex
	jobIDs map[models.PunchAction]string
}

func NewSchedulerDeferrer(sched *scheduler.Scheduler, run func(action models.PunchAction) error) *SchedulerDeferrer {
	return &SchedulerDeferrer{Sched: sched, Run: run, jobIDs: map[models.PunchAction]string{}}
}

func (d *SchedulerDeferrer) Schedule(action models.PunchAction, retryAt time.Time, minutes int) error {
	d.mu.Lock()
	if old, ok := d.jobIDs[action]; ok {
		d.Sched.Cancel(old)
	}
	id := d.Sched.Once(retryAt, func() {
		d.mu.Lock()
		delete(d.jobIDs, action)
		d.mu.Unlock()
		if err := d.Run(action); err != nil {
			log.Printf("❌ 延後重試執行失敗: %v", err)
		}
	})
	d.jobIDs[action] = id
	d.mu.Unlock()

	log.Printf("⏳ in-process 延後任務已排程: %s 執行時間=%s (等待 %d 分鐘)",
		action, retryAt.Format("15:04:05"), minutes)
	return nil
}

func (d *SchedulerDeferrer) Cancel(action models.PunchAction) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.jobIDs[action]; ok {
		d.Sched.Cancel(id)
		delete(d.jobIDs, action)
		log.Printf("🗑 已取消 in-process 延後任務: %s", action)
	}
}
