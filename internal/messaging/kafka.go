package messaging

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/consultas-painel/pdfrg/internal/config"
	"github.com/consultas-painel/pdfrg/internal/logger"

	"github.com/segmentio/kafka-go"
)

const defaultKafkaWriteTimeout = 5 * time.Second

var errKafkaBrokersRequired = errors.New("kafka brokers are required")

// kafkaPublisher 基于 kafka-go 的事件发布器
type kafkaPublisher struct {
	writer  *kafka.Writer
	topic   string
	timeout time.Duration
}

func newKafkaPublisher(cfg config.KafkaConfig) (*kafkaPublisher, error) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, broker := range cfg.Brokers {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	if len(brokers) == 0 {
		return nil, errKafkaBrokersRequired
	}
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		topic = "pdf-rg-events"
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = defaultKafkaWriteTimeout
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: timeout,
		Transport:    &kafka.Transport{ClientID: strings.TrimSpace(cfg.ClientID)},
		Logger:       kafkaLogger{},
		ErrorLogger:  kafkaErrorLogger{},
	}
	logger.Infow("messaging_kafka_enabled", "brokers", brokers, "topic", topic)
	return &kafkaPublisher{writer: writer, topic: topic, timeout: timeout}, nil
}

// Publish 写入一条消息，key 相同的事件落在同一分区
func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := event.Encode()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
		Time: event.OccurredAt,
	})
}

// Close 关闭写入器
func (p *kafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

type kafkaLogger struct{}

func (kafkaLogger) Printf(msg string, args ...interface{}) {
	logger.Named("kafka").Debugf(msg, args...)
}

type kafkaErrorLogger struct{}

func (kafkaErrorLogger) Printf(msg string, args ...interface{}) {
	logger.Named("kafka").Warnf(msg, args...)
}
