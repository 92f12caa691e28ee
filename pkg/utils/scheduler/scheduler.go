// Package scheduler 提供基於 go-co-op/gocron 的排程功能，
// 用於延遲任務執行，例如充值跳轉後的錢包延遲刷新。
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler 是對 gocron 排程器的包裝，提供延遲執行和管理任務的功能
type Scheduler struct {
	scheduler *gocron.Scheduler
	jobs      map[string]*gocron.Job
	mutex     sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

// New 創建並返回一個新的排程器實例
func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		jobs:      make(map[string]*gocron.Job),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start 啟動排程器
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

// Stop 停止排程器
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.cancel()
}

// ScheduleOnce 安排一個一次性任務，在指定的延遲後執行
// - delay: 延遲時間，例如 5*time.Second
// - jobID: 任務ID，用於識別和取消任務
// - fn: 要執行的函數
func (s *Scheduler) ScheduleOnce(delay time.Duration, jobID string, fn func()) error {
	executionTime := time.Now().Add(delay)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	// 相同ID的任務只允許存在一個
	if _, exists := s.jobs[jobID]; exists {
		return fmt.Errorf("job with ID %s already exists", jobID)
	}

	job, err := s.scheduler.Every(delay).StartAt(executionTime).LimitRunsTo(1).Do(func() {
		s.executeJob(jobID, fn)

		// 任務執行後從映射中移除
		s.mutex.Lock()
		delete(s.jobs, jobID)
		s.mutex.Unlock()
	})

	if err != nil {
		return fmt.Errorf("failed to schedule job: %w", err)
	}

	job.SingletonMode()
	s.jobs[jobID] = job

	return nil
}

// CancelJob 取消指定ID的任務
func (s *Scheduler) CancelJob(jobID string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if job, exists := s.jobs[jobID]; exists {
		s.scheduler.RemoveByReference(job)
		delete(s.jobs, jobID)
		return true
	}

	return false
}

// JobExists 檢查指定ID的任務是否存在
func (s *Scheduler) JobExists(jobID string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	_, exists := s.jobs[jobID]
	return exists
}

// JobCount 返回目前排程中的任務數量
func (s *Scheduler) JobCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.jobs)
}

// executeJob 執行任務函數，任務內的 panic 不得拖垮排程器
func (s *Scheduler) executeJob(jobID string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Error executing job %s: %v\n", jobID, r)
		}
	}()

	fn()
}
