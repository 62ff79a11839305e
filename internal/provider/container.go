package provider

import (
	"github.com/consultas-painel/pdfrg/internal/cache"
	"github.com/consultas-painel/pdfrg/internal/config"
	"github.com/consultas-painel/pdfrg/internal/logger"
	"github.com/consultas-painel/pdfrg/internal/messaging"
	"github.com/consultas-painel/pdfrg/internal/metrics"
	"github.com/consultas-painel/pdfrg/internal/models"
	"github.com/consultas-painel/pdfrg/internal/queue"
	"github.com/consultas-painel/pdfrg/internal/repository"
	"github.com/consultas-painel/pdfrg/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Publisher   messaging.Publisher
	Metrics     *metrics.Recorder

	// Repositories
	PdfRgOrderRepo     repository.PdfRgOrderRepository
	PdfRgStatusLogRepo repository.PdfRgStatusLogRepository
	WalletRepo         repository.WalletRepository
	ConsultationRepo   repository.ConsultationRepository
	NotificationRepo   repository.NotificationRepository

	// Services
	PdfRgOrderService   *service.PdfRgOrderService
	PdfRgWorkflow       *service.PdfRgWorkflow
	WalletService       *service.WalletService
	ConsultationService *service.ConsultationService
	NotificationService *service.NotificationService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	// 初始化事件总线，失败时退化为 noop
	publisher, err := messaging.NewPublisher(&cfg.Messaging)
	if err != nil {
		logger.Errorw("provider_init_publisher_failed", "driver", cfg.Messaging.Driver, "error", err)
		publisher = messaging.NoopPublisher{}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Publisher:   publisher,
		Metrics:     metrics.Default(),
	}
	c.initRepositories(models.DB)
	c.initServices()
	return c
}

// NewContainerWithDB 基于指定数据库组装容器，不建立 Redis、队列与 Kafka 连接
func NewContainerWithDB(cfg *config.Config, db *gorm.DB, publisher messaging.Publisher, recorder *metrics.Recorder) *Container {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	c := &Container{
		Config:    cfg,
		Publisher: publisher,
		Metrics:   recorder,
	}
	c.initRepositories(db)
	c.initServices()
	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.PdfRgOrderRepo = repository.NewPdfRgOrderRepository(db)
	c.PdfRgStatusLogRepo = repository.NewPdfRgStatusLogRepository(db)
	c.WalletRepo = repository.NewWalletRepository(db)
	c.ConsultationRepo = repository.NewConsultationRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
}

func (c *Container) initServices() {
	c.WalletService = service.NewWalletService(c.WalletRepo)
	c.ConsultationService = service.NewConsultationService(c.ConsultationRepo)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo, c.QueueClient, c.Publisher, c.Metrics)
	c.PdfRgOrderService = service.NewPdfRgOrderService(c.PdfRgOrderRepo, c.Config.PdfRg)
	c.PdfRgWorkflow = service.NewPdfRgWorkflow(service.PdfRgWorkflowDeps{
		Orders:        c.PdfRgOrderService,
		Wallet:        c.WalletService,
		Consultations: c.ConsultationService,
		Notifications: c.NotificationService,
		StatusLogs:    c.PdfRgStatusLogRepo,
		Publisher:     c.Publisher,
		Metrics:       c.Metrics,
		Config:        c.Config.PdfRg,
	})
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			logger.Warnw("provider_close_publisher_failed", "error", err)
		}
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
