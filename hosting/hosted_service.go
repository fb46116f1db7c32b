package hosting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gocrud/injection/logging"
)

// HostedService 托管服务接口（类似于 .NET Core IHostedService）
// 框架会自动在 goroutine 中调用 Start，用户无需自己启动 goroutine
type HostedService interface {
	// Start 启动服务。该方法应阻塞执行，直到 context 被取消或发生错误。
	// 框架会在独立的 goroutine 中调用此方法。
	Start(ctx context.Context) error

	// Stop 执行优雅关闭逻辑。
	// 注意：当 Start 的 context 被取消时，服务应自动停止。
	// Stop 方法用于执行额外的清理工作（可选）。
	Stop(ctx context.Context) error
}

// Runner 托管服务运行器
// 按注册顺序启动服务，按相反顺序停止。
type Runner struct {
	services []HostedService
	logger   logging.Logger
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

// NewRunner 创建托管服务运行器
func NewRunner(logger logging.Logger, services ...HostedService) *Runner {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Runner{
		services: append([]HostedService(nil), services...),
		logger:   logger.WithCategory("hosting"),
	}
}

// Add 添加托管服务
func (r *Runner) Add(service HostedService) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services = append(r.services, service)
}

// Len 返回托管服务数量
func (r *Runner) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.services)
}

// StartAll 并发启动所有托管服务
// 每个服务在独立的 goroutine 中运行，错误通过返回的通道上报。
func (r *Runner) StartAll(ctx context.Context) <-chan error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	errCh := make(chan error, len(r.services))

	r.logger.Info(fmt.Sprintf("Starting %d hosted services", len(r.services)))

	for i, service := range r.services {
		r.wg.Add(1)
		go func(index int, svc HostedService) {
			defer r.wg.Done()

			r.logger.Debug("Hosted service starting", logging.Field{Key: "index", Value: index})

			if err := svc.Start(ctx); err != nil {
				// 区分正常的 context 取消和真正的错误
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					r.logger.Debug("Hosted service stopped (context done)", logging.Field{Key: "index", Value: index})
				} else {
					r.logger.Error("Hosted service error",
						logging.Field{Key: "index", Value: index},
						logging.Field{Key: "error", Value: err.Error()})
					select {
					case errCh <- err:
					default:
					}
				}
				return
			}

			r.logger.Info("Hosted service completed", logging.Field{Key: "index", Value: index})
		}(i, service)
	}

	return errCh
}

// StopAll 并发停止所有托管服务，逆序遍历
func (r *Runner) StopAll(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	r.logger.Info(fmt.Sprintf("Stopping %d hosted services", len(r.services)))

	var wg sync.WaitGroup
	for i := len(r.services) - 1; i >= 0; i-- {
		wg.Add(1)
		go func(index int, svc HostedService) {
			defer wg.Done()

			if err := svc.Stop(ctx); err != nil {
				r.logger.Error("Failed to stop hosted service",
					logging.Field{Key: "index", Value: index},
					logging.Field{Key: "error", Value: err.Error()})
			} else {
				r.logger.Debug("Hosted service stopped", logging.Field{Key: "index", Value: index})
			}
		}(i, r.services[i])
	}
	wg.Wait()

	r.logger.Info("All hosted services stopped")
	return nil
}

// Wait 等待所有服务的 Start 返回
func (r *Runner) Wait() {
	r.wg.Wait()
}

// BackgroundService 后台服务基类
// 嵌入后只需实现自己的工作循环，Stop/Done 协议由基类提供。
type BackgroundService struct {
	name   string
	logger logging.Logger
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewBackgroundService 创建后台服务
func NewBackgroundService(name string, logger logging.Logger) *BackgroundService {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &BackgroundService{
		name:   name,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Name 返回服务名称
func (s *BackgroundService) Name() string {
	return s.name
}

// Start 阻塞直到停止信号或上下文取消
func (s *BackgroundService) Start(ctx context.Context) error {
	s.logger.Info(fmt.Sprintf("BackgroundService '%s' starting", s.name))

	select {
	case <-s.stopCh:
	case <-ctx.Done():
	}

	s.Done()
	return nil
}

// Stop 发出停止信号并等待服务退出
func (s *BackgroundService) Stop(ctx context.Context) error {
	s.logger.Info(fmt.Sprintf("BackgroundService '%s' stopping", s.name))
	s.signalStop()

	select {
	case <-s.doneCh:
		return nil
	case <-ctx.Done():
		s.logger.Warn(fmt.Sprintf("BackgroundService '%s' stop timeout", s.name))
		return ctx.Err()
	}
}

func (s *BackgroundService) signalStop() {
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
}

// StopChan 返回停止通道，用于在 select 中监听
func (s *BackgroundService) StopChan() <-chan struct{} {
	return s.stopCh
}

// Done 标记服务完成，可重复调用
func (s *BackgroundService) Done() {
	select {
	case <-s.doneCh:
	default:
		close(s.doneCh)
	}
}

// TimedHostedService 定时托管服务，按固定间隔执行任务
type TimedHostedService struct {
	*BackgroundService
	interval time.Duration
	task     func(ctx context.Context) error
}

// NewTimedHostedService 创建定时托管服务
func NewTimedHostedService(name string, interval time.Duration, task func(ctx context.Context) error, logger logging.Logger) *TimedHostedService {
	return &TimedHostedService{
		BackgroundService: NewBackgroundService(name, logger),
		interval:          interval,
		task:              task,
	}
}

// Start 启动定时循环
func (s *TimedHostedService) Start(ctx context.Context) error {
	defer s.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.task(ctx); err != nil {
				s.logger.Error(fmt.Sprintf("TimedHostedService '%s' task failed", s.Name()),
					logging.Field{Key: "error", Value: err.Error()})
			}
		case <-s.StopChan():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
