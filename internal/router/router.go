package router

import (
	"fmt"
	"strings"

	"github.com/consultas-painel/pdfrg/internal/cache"
	"github.com/consultas-painel/pdfrg/internal/config"
	adminhandlers "github.com/consultas-painel/pdfrg/internal/http/handlers/admin"
	publichandlers "github.com/consultas-painel/pdfrg/internal/http/handlers/public"
	"github.com/consultas-painel/pdfrg/internal/logger"
	"github.com/consultas-painel/pdfrg/internal/provider"

	"github.com/gin-gonic/gin"
)

const defaultMetricsPath = "/metrics"

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "pdfrg"
	}
	redisClient := cache.Client()
	orderCreateRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:pdf_rg_order", redisPrefix),
		WindowSeconds: cfg.RateLimit.OrderCreate.WindowSeconds,
		MaxRequests:   cfg.RateLimit.OrderCreate.MaxRequests,
		FailOpen:      true,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(AccessLogMiddleware(logger.Z(), c.Metrics))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})
	if cfg.Metrics.Enabled && c.Metrics != nil {
		metricsPath := strings.TrimSpace(cfg.Metrics.Path)
		if metricsPath == "" {
			metricsPath = defaultMetricsPath
		}
		r.GET(metricsPath, gin.WrapH(c.Metrics.Handler()))
	}

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey))
		{
			user.POST("/pdf-rg/orders", RateLimitMiddleware(redisClient, orderCreateRule, KeyByUserID), publicHandler.CreatePdfRgOrder)
			user.GET("/pdf-rg/orders", publicHandler.ListMyPdfRgOrders)
			user.GET("/pdf-rg/orders/:id", publicHandler.GetMyPdfRgOrder)
			user.GET("/pdf-rg/summary", publicHandler.GetMyPdfRgSummary)

			user.GET("/wallet", publicHandler.GetMyWallet)
			user.GET("/wallet/transactions", publicHandler.GetMyWalletTransactions)
			user.GET("/consultations", publicHandler.GetMyConsultations)

			user.GET("/notifications", publicHandler.ListMyNotifications)
			user.GET("/notifications/unread-count", publicHandler.GetMyUnreadNotificationCount)
			user.POST("/notifications/:id/read", publicHandler.MarkMyNotificationRead)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey))
		{
			// PDF RG 订单管理
			authorized.GET("/pdf-rg/orders", adminHandler.GetAdminPdfRgOrders)
			authorized.GET("/pdf-rg/orders/summary", adminHandler.GetAdminPdfRgSummary)
			authorized.POST("/pdf-rg/orders", adminHandler.CreateAdminPdfRgOrder)
			authorized.GET("/pdf-rg/orders/:id", adminHandler.GetAdminPdfRgOrder)
			authorized.PUT("/pdf-rg/orders/:id/status", adminHandler.UpdateAdminPdfRgStatus)
			authorized.GET("/pdf-rg/orders/:id/logs", adminHandler.GetAdminPdfRgStatusLogs)
			authorized.DELETE("/pdf-rg/orders/:id", adminHandler.DeleteAdminPdfRgOrder)

			// 用户钱包
			authorized.GET("/wallets/:user_id", adminHandler.GetAdminUserWallet)
			authorized.GET("/wallets/:user_id/transactions", adminHandler.GetAdminUserWalletTransactions)
			authorized.POST("/wallets/:user_id/adjust", adminHandler.AdjustAdminUserWallet)
		}
	}

	return r
}
