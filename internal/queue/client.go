package queue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/consultas-painel/pdfrg/internal/config"
	"github.com/consultas-painel/pdfrg/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// DefaultMaxRetry 默认最大重试次数
	DefaultMaxRetry = 5

	notificationTimeout = 30 * time.Second
	// 去重任务完成后保留一段时间，窗口内相同 TaskID 的投递视为重复
	notificationRetention = time.Hour
)

// Client 队列客户端，未启用时所有投递均为空操作
type Client struct {
	client   *asynq.Client
	queue    string
	maxRetry int
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	c := &Client{queue: DefaultQueue, maxRetry: DefaultMaxRetry}
	if cfg == nil || !cfg.Enabled {
		return c, nil
	}
	if cfg.MaxRetry > 0 {
		c.maxRetry = cfg.MaxRetry
	}
	c.client = asynq.NewClient(RedisOpt(cfg))
	return c, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueNotificationDispatch 推送站内通知投递任务。带去重键的任务以其作为 TaskID，重复投递直接忽略。
func (c *Client) EnqueueNotificationDispatch(payload NotificationDispatchPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewNotificationDispatchTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task, c.notificationOptions(payload)...)
	if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	return err
}

func (c *Client) notificationOptions(payload NotificationDispatchPayload) []asynq.Option {
	opts := []asynq.Option{
		asynq.Queue(c.queue),
		asynq.MaxRetry(c.maxRetry),
		asynq.Timeout(notificationTimeout),
	}
	if key := strings.TrimSpace(payload.DedupeKey); key != "" {
		opts = append(opts, asynq.TaskID("notify:"+key), asynq.Retention(notificationRetention))
	}
	return opts
}

// RedisOpt 队列 Redis 连接参数，worker 与调度器共用
func RedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}

// ServerConfig worker 并发与队列权重
func ServerConfig(cfg *config.QueueConfig) asynq.Config {
	serverCfg := asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{DefaultQueue: 1},
	}
	if cfg == nil {
		return serverCfg
	}
	if cfg.Concurrency > 0 {
		serverCfg.Concurrency = cfg.Concurrency
	}
	if len(cfg.Queues) > 0 {
		serverCfg.Queues = cfg.Queues
	}
	return serverCfg
}
