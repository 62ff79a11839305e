package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/consultas-painel/pdfrg/internal/config"
	"github.com/consultas-painel/pdfrg/internal/logger"

	"github.com/google/uuid"
)

// Event 业务事件信封
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// NewEvent 创建事件，自动生成 ID 与发生时间
func NewEvent(eventType, key string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       strings.TrimSpace(eventType),
		Key:        strings.TrimSpace(key),
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Encode 序列化事件
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NewPublisher 按配置创建事件发布器，未启用时返回 noop 实现
func NewPublisher(cfg *config.MessagingConfig) (Publisher, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Infow("messaging_disabled", "driver", "noop")
		return NoopPublisher{}, nil
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "noop":
		logger.Infow("messaging_disabled", "driver", "noop")
		return NoopPublisher{}, nil
	case "kafka":
		return newKafkaPublisher(cfg.Kafka)
	default:
		return nil, fmt.Errorf("unsupported messaging driver: %s", cfg.Driver)
	}
}

// NoopPublisher 未启用事件总线时使用
type NoopPublisher struct{}

// Publish 丢弃事件
func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// Close 无需释放资源
func (NoopPublisher) Close() error { return nil }
