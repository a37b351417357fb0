package worker

import (
	"context"
	"errors"
	"time"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/logger"
	"github.com/mesa-next/internal/metrics"
	"github.com/mesa-next/internal/queue"
	"github.com/mesa-next/internal/service"

	"github.com/hibiken/asynq"
)

// ErrQueueDisabled 队列未启用
var ErrQueueDisabled = errors.New("queue disabled")

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, ErrQueueDisabled
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// SessionSweeper 定期清理空闲的点餐会话
// 会话保存在 API 进程内存中，因此随 HTTP 服务一起运行
type SessionSweeper struct {
	sessions *service.SessionService
	interval time.Duration
	now      func() time.Time
	stop     chan struct{}
	done     chan struct{}
}

// NewSessionSweeper 创建会话清理服务
func NewSessionSweeper(sessions *service.SessionService, interval time.Duration) *SessionSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionSweeper{
		sessions: sessions,
		interval: interval,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Name 服务名称
func (s *SessionSweeper) Name() string {
	return "session_sweeper"
}

// Start 阻塞运行直到 ctx 取消或 Stop
func (s *SessionSweeper) Start(ctx context.Context) error {
	if s == nil || s.sessions == nil {
		return errors.New("session sweeper not initialized")
	}
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stop:
			return nil
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

// Stop 停止清理
func (s *SessionSweeper) Stop(ctx context.Context) error {
	if s == nil || s.stop == nil {
		return nil
	}
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (s *SessionSweeper) sweepOnce() int {
	removed := s.sessions.Sweep(s.now())
	active := s.sessions.Count()
	metrics.SetActiveSessions(active)
	if removed > 0 {
		logger.Debugw("worker_session_sweep", "removed", removed, "active", active)
	}
	return removed
}
