// Package countdown 實現倒計時顯示狀態。
// 每秒由固定的結束時間重新推導剩餘時間，歸零後停住並只觸發一次完成回調。
package countdown

import (
	"sync"
	"time"
)

// TimeLeft 剩餘時間的展示拆分
type TimeLeft struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// IsZero 判斷是否已歸零
func (t TimeLeft) IsZero() bool {
	return t.Days == 0 && t.Hours == 0 && t.Minutes == 0 && t.Seconds == 0
}

// Timer 對一個絕對結束時間做每秒倒數。
// 不做任何網絡操作；Stop 之後不再有任何更新，可安全丟棄。
type Timer struct {
	end        time.Time
	onComplete func()
	now        func() time.Time

	mutex     sync.Mutex
	current   TimeLeft
	completed bool
	started   bool
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// Option 定義計時器配置選項
type Option func(*Timer)

// WithOnComplete 設置歸零時的完成回調，整個生命週期最多觸發一次
func WithOnComplete(fn func()) Option {
	return func(t *Timer) {
		t.onComplete = fn
	}
}

// WithClock 替換時間來源，供測試使用
func WithClock(now func() time.Time) Option {
	return func(t *Timer) {
		t.now = now
	}
}

// NewTimer 創建倒計時器並立即計算一次剩餘時間（不啟動週期更新）
func NewTimer(end time.Time, opts ...Option) *Timer {
	t := &Timer{
		end:    end,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.Tick()
	return t
}

// Start 啟動每秒一次的重新計算，直到 Stop 被調用。
// 歸零後繼續保持全零，不再觸發回調。重複調用只保留第一個更新協程。
func (t *Timer) Start() {
	t.mutex.Lock()
	if t.started {
		t.mutex.Unlock()
		return
	}
	t.started = true
	t.mutex.Unlock()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-t.stopCh:
				return
			case <-ticker.C:
				t.Tick()
			}
		}
	}()
}

// Stop 停止週期更新並釋放計時資源，重複調用無害
func (t *Timer) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
	})
}

// Tick 立即重新計算剩餘時間並返回。
// 正常情況由內部 ticker 驅動，測試可直接調用。
func (t *Timer) Tick() TimeLeft {
	remaining := t.end.Sub(t.now())

	t.mutex.Lock()

	if remaining > 0 {
		t.current = breakdown(remaining)
		left := t.current
		t.mutex.Unlock()
		return left
	}

	t.current = TimeLeft{}
	fireCallback := !t.completed && t.onComplete != nil
	t.completed = true
	t.mutex.Unlock()

	// 回調在鎖外觸發，允許回調方回頭查詢計時器
	if fireCallback {
		t.onComplete()
	}
	return TimeLeft{}
}

// Remaining 返回最近一次計算的剩餘時間
func (t *Timer) Remaining() TimeLeft {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.current
}

// Completed 判斷是否已歸零
func (t *Timer) Completed() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.completed
}

// breakdown 把正的剩餘時長拆為天/時/分/秒
func breakdown(d time.Duration) TimeLeft {
	totalSeconds := int(d.Seconds())
	return TimeLeft{
		Days:    totalSeconds / 86400,
		Hours:   (totalSeconds % 86400) / 3600,
		Minutes: (totalSeconds % 3600) / 60,
		Seconds: totalSeconds % 60,
	}
}
