package scheduler

import (
	"context"
	"sync"
	"time"
	"wastetoworth/pkg/logger"

	"go.uber.org/zap"
)

// Task 周期性后台任务
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler 以固定间隔驱动注册的后台任务，独立于请求流量
type Scheduler struct {
	tasks  []Task
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New() *Scheduler {
	return &Scheduler{}
}

// Register 注册任务，必须在 Start 之前调用
func (s *Scheduler) Register(t Task) {
	s.tasks = append(s.tasks, t)
}

// Start 为每个任务启动独立协程
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	for _, t := range s.tasks {
		s.wg.Add(1)
		go s.loop(ctx, t)
	}
	logger.Log.Info("Scheduler started", zap.Int("tasks", len(s.tasks)))
}

// Stop 停止所有任务并等待当前周期结束
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	logger.Log.Info("Scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, t Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, t)
		}
	}
}

// runOnce 执行一个周期，任务内部的 panic 不能拖垮调度循环
func (s *Scheduler) runOnce(ctx context.Context, t Task) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("Scheduled task panicked",
				zap.String("task", t.Name),
				zap.Any("panic", r),
			)
		}
	}()

	if err := t.Run(ctx); err != nil {
		logger.Log.Error("Scheduled task failed",
			zap.String("task", t.Name),
			zap.Error(err),
		)
	}
}
