package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/consultas-painel/pdfrg/internal/cache"
	"github.com/consultas-painel/pdfrg/internal/constants"
	"github.com/consultas-painel/pdfrg/internal/logger"
	"github.com/consultas-painel/pdfrg/internal/messaging"
	"github.com/consultas-painel/pdfrg/internal/metrics"
	"github.com/consultas-painel/pdfrg/internal/models"
	"github.com/consultas-painel/pdfrg/internal/queue"
	"github.com/consultas-painel/pdfrg/internal/repository"

	"github.com/google/uuid"
)

const notificationDedupeTTL = 24 * time.Hour

var notificationTemplateVarPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// NotifyInput 站内通知参数
type NotifyInput struct {
	UserID   uint
	Title    string
	Message  string
	Priority string
	BizType  string
	BizID    uint
}

// NotificationService 站内通知服务
type NotificationService struct {
	repo        repository.NotificationRepository
	queueClient *queue.Client
	publisher   messaging.Publisher
	metrics     *metrics.Recorder
}

// NewNotificationService 创建站内通知服务
func NewNotificationService(
	repo repository.NotificationRepository,
	queueClient *queue.Client,
	publisher messaging.Publisher,
	recorder *metrics.Recorder,
) *NotificationService {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &NotificationService{
		repo:        repo,
		queueClient: queueClient,
		publisher:   publisher,
		metrics:     recorder,
	}
}

// Notify 发送站内通知：队列可用时异步投递，否则同步写入
func (s *NotificationService) Notify(ctx context.Context, input NotifyInput) error {
	payload, err := buildNotificationPayload(input)
	if err != nil {
		return err
	}
	if s.queueClient != nil && s.queueClient.Enabled() {
		err := s.queueClient.EnqueueNotificationDispatch(payload)
		if err == nil {
			s.metrics.Notification("queued")
			return nil
		}
		logger.Warnw("notification_enqueue_failed_fallback_sync",
			"user_id", payload.UserID,
			"biz_type", payload.BizType,
			"biz_id", payload.BizID,
			"error", err,
		)
	}
	if _, err := s.Deliver(ctx, payload); err != nil {
		return err
	}
	s.metrics.Notification("sync")
	return nil
}

// Deliver 写入通知记录并发布事件，队列重试时按去重键跳过重复投递
func (s *NotificationService) Deliver(ctx context.Context, payload queue.NotificationDispatchPayload) (*models.UserNotification, error) {
	if payload.UserID == 0 || strings.TrimSpace(payload.Title) == "" {
		return nil, ErrNotificationInvalid
	}
	claimed, err := cache.ClaimNotification(ctx, payload.DedupeKey, notificationDedupeTTL)
	if err != nil {
		logger.Warnw("notification_dedupe_check_failed", "dedupe_key", payload.DedupeKey, "error", err)
	} else if !claimed {
		logger.Debugw("notification_deliver_skip_duplicate", "dedupe_key", payload.DedupeKey)
		return nil, nil
	}

	notification := &models.UserNotification{
		UserID:    payload.UserID,
		Title:     strings.TrimSpace(payload.Title),
		Message:   strings.TrimSpace(payload.Message),
		Priority:  normalizeNotificationPriority(payload.Priority),
		BizType:   strings.TrimSpace(payload.BizType),
		BizID:     payload.BizID,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(notification); err != nil {
		_ = cache.ReleaseNotification(ctx, payload.DedupeKey)
		logger.Warnw("notification_create_failed", "user_id", payload.UserID, "error", err)
		return nil, ErrNotificationCreateFailed
	}

	event := messaging.NewEvent(constants.EventNotificationCreated, fmt.Sprintf("%d", notification.UserID), notification)
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warnw("notification_event_publish_failed",
			"notification_id", notification.ID,
			"user_id", notification.UserID,
			"error", err,
		)
	}
	return notification, nil
}

// ListByUser 分页查询用户通知
func (s *NotificationService) ListByUser(filter repository.NotificationListFilter) ([]models.UserNotification, int64, error) {
	if filter.UserID == 0 {
		return []models.UserNotification{}, 0, nil
	}
	return s.repo.List(filter)
}

// CountUnread 未读数量
func (s *NotificationService) CountUnread(userID uint) (int64, error) {
	if userID == 0 {
		return 0, nil
	}
	return s.repo.CountUnread(userID)
}

// MarkRead 标记本人通知为已读
func (s *NotificationService) MarkRead(id, userID uint) error {
	found, err := s.repo.MarkRead(id, userID, time.Now())
	if err != nil {
		return err
	}
	if !found {
		return ErrNotificationNotFound
	}
	return nil
}

func buildNotificationPayload(input NotifyInput) (queue.NotificationDispatchPayload, error) {
	title := strings.TrimSpace(input.Title)
	if input.UserID == 0 || title == "" {
		return queue.NotificationDispatchPayload{}, ErrNotificationInvalid
	}
	return queue.NotificationDispatchPayload{
		UserID:    input.UserID,
		Title:     title,
		Message:   strings.TrimSpace(input.Message),
		Priority:  normalizeNotificationPriority(input.Priority),
		BizType:   strings.TrimSpace(input.BizType),
		BizID:     input.BizID,
		DedupeKey: uuid.NewString(),
	}, nil
}

func normalizeNotificationPriority(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case constants.NotificationPriorityLow:
		return constants.NotificationPriorityLow
	case constants.NotificationPriorityHigh:
		return constants.NotificationPriorityHigh
	default:
		return constants.NotificationPriorityNormal
	}
}

func renderNotificationTemplate(template string, variables map[string]interface{}) string {
	template = strings.TrimSpace(template)
	if template == "" {
		return ""
	}
	return notificationTemplateVarPattern.ReplaceAllStringFunc(template, func(matched string) string {
		submatch := notificationTemplateVarPattern.FindStringSubmatch(matched)
		if len(submatch) != 2 {
			return matched
		}
		key := strings.TrimSpace(submatch[1])
		value, ok := variables[key]
		if !ok {
			return ""
		}
		return strings.TrimSpace(fmt.Sprintf("%v", value))
	})
}
