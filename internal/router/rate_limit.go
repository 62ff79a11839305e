package router

import (
	"fmt"
	"strings"

	"github.com/consultas-painel/pdfrg/internal/http/response"
	"github.com/consultas-painel/pdfrg/internal/i18n"
	"github.com/consultas-painel/pdfrg/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	MessageKey    string
	// FailOpen Redis 不可用时放行请求，否则返回 500
	FailOpen bool
}

func (r RateLimitRule) enabled() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) messageKey() string {
	if key := strings.TrimSpace(r.MessageKey); key != "" {
		return key
	}
	return "error.rate_limited"
}

// retryAfter 计算需要等待的秒数，TTL 不可用时退回整个窗口
func (r RateLimitRule) retryAfter(ttlSeconds int64) int {
	if ttlSeconds > 0 {
		return int(ttlSeconds)
	}
	if r.WindowSeconds > 0 {
		return r.WindowSeconds
	}
	return 1
}

// 返回 {当前计数, 剩余 TTL}
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("TTL", KEYS[1])}
`)

// RateLimitMiddleware Redis 频率限制中间件，未配置 Redis 或规则关闭时直接放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !rule.enabled() {
			c.Next()
			return
		}

		key := rateLimitKey(c, rule.Prefix, keyFunc)
		values, err := fixedWindowScript.Run(c.Request.Context(), client, []string{key}, rule.WindowSeconds).Int64Slice()
		if err == nil && len(values) < 2 {
			err = fmt.Errorf("unexpected rate limit reply: %v", values)
		}
		if err != nil {
			logger.Warnw("rate_limit_unavailable", "key", key, "fail_open", rule.FailOpen, "error", err)
			if rule.FailOpen {
				c.Next()
				return
			}
			response.Fail(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable"))
			c.Abort()
			return
		}

		if values[0] > int64(rule.MaxRequests) {
			wait := rule.retryAfter(values[1])
			response.TooManyRequests(c, i18n.Sprintf(i18n.ResolveLocale(c), rule.messageKey(), wait), wait)
			c.Abort()
			return
		}
		c.Next()
	}
}

func rateLimitKey(c *gin.Context, prefix string, keyFunc RateLimitKeyFunc) string {
	key := ""
	if keyFunc != nil {
		key = strings.TrimSpace(keyFunc(c))
	}
	if key == "" {
		key = KeyByIP(c)
	}
	if prefix == "" {
		return key
	}
	return prefix + ":" + key
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByUserID 使用已鉴权用户 ID 作为限流 key，未登录时退化为 IP
func KeyByUserID(c *gin.Context) string {
	if userID, ok := c.Get("user_id"); ok {
		if id, ok := userID.(uint); ok && id > 0 {
			return fmt.Sprintf("user:%d", id)
		}
	}
	return KeyByIP(c)
}
