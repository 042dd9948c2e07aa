package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Scheduler 單線程協作式排程：Run 每秒 Tick 一次，到期的 job 就地依序執行，
// job 之間絕不並行。註冊/取消可以從其他 goroutine 呼叫（dashboard 會用到）
type Scheduler struct {
	mu   sync.Mutex
	jobs map[string]*job
	now  func() time.Time
}

type job struct {
	id      string
	daily   bool
	at      string    // daily: "HH:MM"
	nextRun time.Time // 下次到期時間，daily 觸發後滾到隔天
	fn      func()
}

// New now 用來取得排程判斷用的當前時間（測試時可注入假時鐘）
func New(now func() time.Time) *Scheduler {
	return &Scheduler{jobs: map[string]*job{}, now: now}
}

// EveryDayAt 註冊每天 HH:MM 執行的 job，回傳 job ID
func (s *Scheduler) EveryDayAt(hhmm string, fn func()) (string, error) {
	at, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "", fmt.Errorf("invalid time %q: %v", hhmm, err)
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.jobs[id] = &job{
		id: id, daily: true, at: hhmm,
		nextRun: nextDaily(s.now(), at.Hour(), at.Minute()),
		fn:      fn,
	}
	s.mu.Unlock()
	return id, nil
}

// nextDaily 回傳最近一次的每日時刻；註冊當下還在那一分鐘內算今天，否則排明天
func nextDaily(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !now.Before(next.Add(time.Minute)) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Once 註冊在指定時間執行一次的 job，回傳可用於 Cancel 的 ID
func (s *Scheduler) Once(runAt time.Time, fn func()) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.jobs[id] = &job{id: id, nextRun: runAt, fn: fn}
	s.mu.Unlock()
	return id
}

// Cancel 移除尚未執行的 job；被取代的延後重試要能取消，不能留舊 callback 亂開火
func (s *Scheduler) Cancel(id string) {
	s.mu.Lock()
	delete(s.jobs, id)
	s.mu.Unlock()
}

// Pending 目前登記中的 job 數量
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Tick 執行所有到期的 job。到期判斷在鎖內、執行在鎖外，
// 但呼叫方保證 Tick 不會並行呼叫，所以 job 仍是循序執行。
// 前一個 job 卡住 loop 跨過排定時刻時，遲到的 job 在下一個 Tick 補跑，
// 不會因為錯過那一分鐘就跳過當天
func (s *Scheduler) Tick() {
	now := s.now()

	var due []*job
	s.mu.Lock()
	for _, j := range s.jobs {
		if now.Before(j.nextRun) {
			continue
		}
		if j.daily {
			// 補跑一次，然後直接對齊下一個未來時刻
			for !j.nextRun.After(now) {
				j.nextRun = j.nextRun.AddDate(0, 0, 1)
			}
		} else {
			delete(s.jobs, j.id)
		}
		due = append(due, j)
	}
	s.mu.Unlock()

	for _, j := range due {
		j.fn()
	}
}

// Run 每秒 Tick 直到 ctx 結束
func (s *Scheduler) Run(ctx context.Context) {
	log.Println("🔔 排程啟動，每秒檢查一次")
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("⏸ 排程停止")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}
