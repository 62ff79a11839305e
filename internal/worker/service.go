package worker

import (
	"context"
	"errors"

	"github.com/consultas-painel/pdfrg/internal/config"
	"github.com/consultas-painel/pdfrg/internal/logger"
	"github.com/consultas-painel/pdfrg/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 队列消费服务，同时承载订单汇总的周期调度
type Service struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
}

// NewService 创建队列消费服务，refreshCron 为空时不注册汇总重建
func NewService(cfg *config.QueueConfig, refreshCron string, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	redisOpt := queue.RedisOpt(cfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	svc := &Service{
		server: asynq.NewServer(redisOpt, queue.ServerConfig(cfg)),
		mux:    mux,
	}
	if refreshCron != "" {
		scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})
		entryID, err := scheduler.Register(refreshCron, queue.NewPdfRgSummaryRefreshTask(),
			asynq.Queue(queue.DefaultQueue),
			asynq.MaxRetry(0),
		)
		if err != nil {
			return nil, err
		}
		logger.Infow("worker_summary_refresh_scheduled", "cron", refreshCron, "entry_id", entryID)
		svc.scheduler = scheduler
	}
	return svc, nil
}

// Name 服务名称
func (s *Service) Name() string {
	return "worker"
}

// Start 启动调度器与消费者，阻塞直到服务停止
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("worker not initialized")
	}
	if s.scheduler != nil {
		if err := s.scheduler.Start(); err != nil {
			return err
		}
	}
	return s.server.Run(s.mux)
}

// Stop 先停调度再停消费，避免停机期间继续投递
func (s *Service) Stop(ctx context.Context) error {
	if s == nil {
		return nil
	}
	if s.scheduler != nil {
		s.scheduler.Shutdown()
	}
	if s.server != nil {
		s.server.Shutdown()
	}
	return nil
}
