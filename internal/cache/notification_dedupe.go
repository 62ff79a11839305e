package cache

import (
	"context"
	"strings"
	"time"
)

func notificationDedupeKey(key string) string {
	return "notification:dedupe:" + strings.TrimSpace(key)
}

// ClaimNotification 占用通知去重键，返回 false 表示窗口内已投递过。缓存未启用时总是成功。
func ClaimNotification(ctx context.Context, dedupeKey string, ttl time.Duration) (bool, error) {
	if !Enabled() || strings.TrimSpace(dedupeKey) == "" {
		return true, nil
	}
	return redisClient.SetNX(ctx, buildKey(notificationDedupeKey(dedupeKey)), 1, ttl).Result()
}

// ReleaseNotification 投递失败时释放去重键，允许队列重试
func ReleaseNotification(ctx context.Context, dedupeKey string) error {
	if strings.TrimSpace(dedupeKey) == "" {
		return nil
	}
	return del(ctx, notificationDedupeKey(dedupeKey))
}
