package queue

import (
	"encoding/json"

	"github.com/consultas-painel/pdfrg/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskNotificationDispatch 站内通知投递任务
	TaskNotificationDispatch = constants.TaskNotificationDispatch
	// TaskPdfRgSummaryRefresh 订单状态汇总重建任务，由调度器周期投递
	TaskPdfRgSummaryRefresh = constants.TaskPdfRgSummaryRefresh
)

// NotificationDispatchPayload 站内通知投递任务载荷
type NotificationDispatchPayload struct {
	UserID    uint   `json:"user_id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Priority  string `json:"priority"`
	BizType   string `json:"biz_type,omitempty"`
	BizID     uint   `json:"biz_id,omitempty"`
	DedupeKey string `json:"dedupe_key,omitempty"`
}

// NewNotificationDispatchTask 创建站内通知投递任务
func NewNotificationDispatchTask(payload NotificationDispatchPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationDispatch, body), nil
}

// ParseNotificationDispatchPayload 解析站内通知投递任务载荷
func ParseNotificationDispatchPayload(body []byte) (NotificationDispatchPayload, error) {
	var payload NotificationDispatchPayload
	err := json.Unmarshal(body, &payload)
	return payload, err
}

// NewPdfRgSummaryRefreshTask 创建汇总重建任务，无载荷
func NewPdfRgSummaryRefreshTask() *asynq.Task {
	return asynq.NewTask(TaskPdfRgSummaryRefresh, nil)
}
