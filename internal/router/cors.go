package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/consultas-painel/pdfrg/internal/config"

	"github.com/gin-gonic/gin"
)

var (
	defaultCORSMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	defaultCORSHeaders = []string{"Content-Type", "Authorization", "Accept-Language", "X-Request-ID"}
)

// CORSMiddleware 跨域中间件，预检请求直接返回 204
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	methods := strings.Join(orDefaultList(cfg.AllowedMethods, defaultCORSMethods), ", ")
	headers := strings.Join(orDefaultList(cfg.AllowedHeaders, defaultCORSHeaders), ", ")

	return func(c *gin.Context) {
		h := c.Writer.Header()
		if allowed := resolveAllowedOrigin(c.GetHeader("Origin"), origins, cfg.AllowCredentials); allowed != "" {
			h.Set("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				h.Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		h.Set("Access-Control-Allow-Methods", methods)
		h.Set("Access-Control-Allow-Headers", headers)
		h.Set("Access-Control-Expose-Headers", requestIDHeader+", Retry-After")
		if cfg.MaxAge > 0 {
			h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// resolveAllowedOrigin 通配且允许凭证时回显请求来源，浏览器不接受 * 搭配凭证
func resolveAllowedOrigin(origin string, allowed []string, allowCredentials bool) string {
	for _, item := range allowed {
		if item != "*" {
			continue
		}
		if allowCredentials && origin != "" {
			return origin
		}
		return "*"
	}
	if origin == "" {
		return ""
	}
	for _, item := range allowed {
		if strings.EqualFold(item, origin) {
			return origin
		}
	}
	return ""
}

func orDefaultList(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}
