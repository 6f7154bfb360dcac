package worker

import (
	"context"
	"errors"
	"time"

	"github.com/sellflow-next/internal/config"
	"github.com/sellflow-next/internal/logger"
	"github.com/sellflow-next/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	scheduledPostScanInterval = time.Minute
	scheduledPostScanBatch    = 50
)

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
		return nil, errors.New("queue disabled")
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
	if s.consumer != nil && s.consumer.SocialService != nil {
		go s.runScheduledPostLoop(ctx)
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

// runScheduledPostLoop 周期扫描到期的定时帖子并触发发布
func (s *Service) runScheduledPostLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.SocialService == nil {
		return
	}
	runOnce := func() {
		published, err := s.consumer.SocialService.PublishDueScheduled(scheduledPostScanBatch)
		if err != nil {
			logger.Warnw("worker_scheduled_post_scan_failed", "error", err)
			return
		}
		if published > 0 {
			logger.Infow("worker_scheduled_posts_published", "count", published)
		}
	}
	runOnce()

	ticker := time.NewTicker(scheduledPostScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
