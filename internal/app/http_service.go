package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/consultas-painel/pdfrg/internal/logger"
)

const (
	httpReadHeaderTimeout = 10 * time.Second
	// 上传接口携带 base64 文档，读超时放宽
	httpReadTimeout = 2 * time.Minute
	httpIdleTimeout = 2 * time.Minute
)

// HTTPService HTTP 服务封装
type HTTPService struct {
	server *http.Server
}

// NewHTTPService 创建 HTTP 服务，maxBodyBytes > 0 时限制请求体大小
func NewHTTPService(addr string, handler http.Handler, maxBodyBytes int64) *HTTPService {
	if maxBodyBytes > 0 {
		handler = http.MaxBytesHandler(handler, maxBodyBytes)
	}
	return &HTTPService{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: httpReadHeaderTimeout,
			ReadTimeout:       httpReadTimeout,
			IdleTimeout:       httpIdleTimeout,
			ErrorLog:          logger.StdLogger(),
		},
	}
}

// Name 服务名称
func (s *HTTPService) Name() string {
	return "http"
}

// Addr 监听地址
func (s *HTTPService) Addr() string {
	if s == nil || s.server == nil {
		return ""
	}
	return s.server.Addr
}

// Start 启动服务，阻塞直到服务关闭
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 优雅关闭
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
