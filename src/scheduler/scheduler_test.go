package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestEveryDayAt(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 10, 8, 44, 30, 0, time.UTC)}
	s := New(clock.Now)

	fired := 0
	_, err := s.EveryDayAt("08:45", func() { fired++ })
	assert.NoError(t, err)

	s.Tick()
	assert.Equal(t, 0, fired)

	// 到點，同一分鐘內多次 Tick 只觸發一次
	clock.Advance(30 * time.Second)
	s.Tick()
	s.Tick()
	clock.Advance(10 * time.Second)
	s.Tick()
	assert.Equal(t, 1, fired)

	// 隔天同一時間再觸發
	clock.Advance(24 * time.Hour)
	s.Tick()
	assert.Equal(t, 2, fired)

	// daily job 不會被移除
	assert.Equal(t, 1, s.Pending())
}

func TestEveryDayAtFiresLateAfterBlockedLoop(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 10, 11, 59, 50, 0, time.UTC)}
	s := New(clock.Now)

	fired := 0
	_, err := s.EveryDayAt("12:00", func() { fired++ })
	assert.NoError(t, err)

	s.Tick()
	assert.Equal(t, 0, fired)

	// 前一個 job 卡住 loop，下一個 Tick 已經跨過整個 12:00 那一分鐘
	clock.Advance(130 * time.Second)
	s.Tick()
	assert.Equal(t, 1, fired)

	// 補跑過後當天不再重複
	clock.Advance(time.Minute)
	s.Tick()
	assert.Equal(t, 1, fired)

	// 隔天照常觸發
	clock.Advance(24 * time.Hour)
	s.Tick()
	assert.Equal(t, 2, fired)

	// 跨多天的停擺只補跑一次
	clock.Advance(72 * time.Hour)
	s.Tick()
	assert.Equal(t, 3, fired)
	clock.Advance(time.Minute)
	s.Tick()
	assert.Equal(t, 3, fired)
}

func TestEveryDayAtRegisteredAfterTimePassed(t *testing.T) {
	// 12:01 才註冊 12:00 的 job，今天不補跑，明天才開始
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 1, 0, 0, time.UTC)}
	s := New(clock.Now)

	fired := 0
	_, err := s.EveryDayAt("12:00", func() { fired++ })
	assert.NoError(t, err)

	s.Tick()
	assert.Equal(t, 0, fired)

	clock.Advance(24 * time.Hour)
	s.Tick()
	assert.Equal(t, 1, fired)
}

func TestEveryDayAtInvalidTime(t *testing.T) {
	s := New(time.Now)
	_, err := s.EveryDayAt("25:99", func() {})
	assert.Error(t, err)
	_, err = s.EveryDayAt("0845", func() {})
	assert.Error(t, err)
}

func TestOnce(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)}
	s := New(clock.Now)

	fired := 0
	s.Once(clock.now.Add(31*time.Minute), func() { fired++ })
	assert.Equal(t, 1, s.Pending())

	clock.Advance(30 * time.Minute)
	s.Tick()
	assert.Equal(t, 0, fired)

	// 到期後執行並移除，之後的 Tick 不再觸發
	clock.Advance(time.Minute)
	s.Tick()
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, s.Pending())

	clock.Advance(time.Hour)
	s.Tick()
	assert.Equal(t, 1, fired)
}

func TestCancel(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)}
	s := New(clock.Now)

	fired := 0
	id := s.Once(clock.now.Add(time.Minute), func() { fired++ })
	s.Cancel(id)

	clock.Advance(2 * time.Minute)
	s.Tick()
	assert.Equal(t, 0, fired)
	assert.Equal(t, 0, s.Pending())
}
