package router

import (
	"strings"
	"time"

	"github.com/consultas-painel/pdfrg/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 64
)

// RequestIDMiddleware 透传或生成请求 ID，过长的外部 ID 会被替换
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// AccessLogMiddleware 请求日志与耗时指标。日志只记录路由模板，不落请求体。
func AccessLogMiddleware(log *zap.Logger, recorder *metrics.Recorder) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		recorder.HTTPRequest(c.Request.Method, c.FullPath(), status, elapsed.Seconds())

		kv := []interface{}{
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"route", c.FullPath(),
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", elapsed.Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			sugar.Errorw("http_request", append(kv, "errors", c.Errors.String())...)
			return
		}
		sugar.Infow("http_request", kv...)
	}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
