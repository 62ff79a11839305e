package worker

import (
	"context"
	"errors"

	"github.com/consultas-painel/pdfrg/internal/logger"
	"github.com/consultas-painel/pdfrg/internal/provider"
	"github.com/consultas-painel/pdfrg/internal/queue"
	"github.com/consultas-painel/pdfrg/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskNotificationDispatch, c.handleNotificationDispatch)
	mux.HandleFunc(queue.TaskPdfRgSummaryRefresh, c.handlePdfRgSummaryRefresh)
}

// handlePdfRgSummaryRefresh 重建全局状态汇总缓存，失败时交由下一次调度
func (c *Consumer) handlePdfRgSummaryRefresh(ctx context.Context, _ *asynq.Task) error {
	if c == nil || c.Container == nil || c.PdfRgOrderService == nil {
		return nil
	}
	summary, err := c.PdfRgOrderService.RefreshSummary(ctx)
	if err != nil {
		logger.Warnw("worker_pdf_rg_summary_refresh_failed", "error", err)
		return err
	}
	logger.Debugw("worker_pdf_rg_summary_refreshed", "total", summary.Total)
	return nil
}

func (c *Consumer) handleNotificationDispatch(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_notification_dispatch_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseNotificationDispatchPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_notification_dispatch_unmarshal_failed", "error", err)
		return err
	}
	if payload.UserID == 0 {
		logger.Debugw("worker_notification_dispatch_skip_invalid_payload", "user_id", payload.UserID)
		return nil
	}
	if c.Container == nil || c.NotificationService == nil {
		logger.Warnw("worker_notification_dispatch_skip_service_nil", "user_id", payload.UserID)
		return nil
	}
	notification, err := c.NotificationService.Deliver(ctx, payload)
	if err != nil {
		if errors.Is(err, service.ErrNotificationInvalid) {
			logger.Debugw("worker_notification_dispatch_skip_invalid", "user_id", payload.UserID, "biz_id", payload.BizID)
			return nil
		}
		logger.Warnw("worker_notification_dispatch_failed",
			"user_id", payload.UserID,
			"biz_type", payload.BizType,
			"biz_id", payload.BizID,
			"error", err,
		)
		return err
	}
	if notification != nil && c.Metrics != nil {
		c.Metrics.Notification("delivered")
	}
	return nil
}
