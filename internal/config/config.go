package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/consultas-painel/pdfrg/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	UserJWT   JWTConfig       `mapstructure:"user_jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Queue     QueueConfig     `mapstructure:"queue"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	PdfRg     PdfRgConfig     `mapstructure:"pdf_rg"`
	Messaging MessagingConfig `mapstructure:"messaging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig JWT 校验配置（令牌由统一登录服务签发）
type JWTConfig struct {
	SecretKey string `mapstructure:"secret"`
}

const minSecretLength = 32

var weakSecretMarkers = []string{"change-me", "change-in-production", "your-secret-key"}

// IsWeak 密钥过短或仍为示例值
func (c JWTConfig) IsWeak() bool {
	if len(c.SecretKey) < minSecretLength {
		return true
	}
	normalized := strings.ToLower(c.SecretKey)
	for _, marker := range weakSecretMarkers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}

// WeakSecrets 返回强度不足的密钥配置项名称
func (c *Config) WeakSecrets() []string {
	var names []string
	if c.JWT.IsWeak() {
		names = append(names, "jwt")
	}
	if c.UserJWT.IsWeak() {
		names = append(names, "user_jwt")
	}
	return names
}

// IsRelease 是否为生产模式
func (c *Config) IsRelease() bool {
	return strings.EqualFold(strings.TrimSpace(c.Server.Mode), "release")
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	MaxRetry    int            `mapstructure:"max_retry"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// RateLimitConfig 下单限流配置
type RateLimitConfig struct {
	OrderCreate RateLimitRuleConfig `mapstructure:"order_create"`
}

// RateLimitRuleConfig 单条限流规则
type RateLimitRuleConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// PdfRgConfig PDF RG 业务配置
type PdfRgConfig struct {
	DefaultQRPlan          string       `mapstructure:"default_qr_plan"`
	AllowedQRPlans         []string     `mapstructure:"allowed_qr_plans"`
	AllowedDiretores       []string     `mapstructure:"allowed_diretores"`
	MaxImageBytes          int64        `mapstructure:"max_image_bytes"`
	MaxAttachments         int          `mapstructure:"max_attachments"`
	MaxAttachmentBytes     int64        `mapstructure:"max_attachment_bytes"`
	AllowedAttachmentTypes []string     `mapstructure:"allowed_attachment_types"`
	MaxDocumentBytes       int64        `mapstructure:"max_document_bytes"`
	AllowedDocumentTypes   []string     `mapstructure:"allowed_document_types"`
	AdminPageSize          int          `mapstructure:"admin_page_size"`
	SummaryCacheSeconds    int          `mapstructure:"summary_cache_seconds"`
	SummaryRefreshCron     string       `mapstructure:"summary_refresh_cron"` // 为空时不定时重建汇总
	Pricing                PdfRgPricing `mapstructure:"pricing"`
}

// PdfRgPricing 服务端计价：模块基础价加二维码有效期附加价，金额为十进制字符串
type PdfRgPricing struct {
	ModuleID     uint              `mapstructure:"module_id"` // 大于 0 时覆盖请求中的 module_id
	BasePrice    string            `mapstructure:"base_price"`
	QRPlanPrices map[string]string `mapstructure:"qr_plan_prices"`
}

// SummaryCacheTTL 状态汇总缓存时长
func (c PdfRgConfig) SummaryCacheTTL() time.Duration {
	if c.SummaryCacheSeconds <= 0 {
		return 0
	}
	return time.Duration(c.SummaryCacheSeconds) * time.Second
}

// MessagingConfig 事件总线配置
type MessagingConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Driver  string      `mapstructure:"driver"` // kafka / noop
	Kafka   KafkaConfig `mapstructure:"kafka"`
}

// KafkaConfig Kafka 配置
type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	ClientID     string        `mapstructure:"client_id"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load 从 .env 与 config.yml 加载配置
func Load() *Config {
	// .env 仅用于本地开发，缺失时忽略
	if err := godotenv.Load(); err == nil {
		logger.Infow("dotenv_loaded")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")     // 从当前目录查找
	viper.AddConfigPath("../")   // 如果从 cmd/server 运行
	viper.AddConfigPath("./etc") // etc 文件夹

	setDefaults(viper.GetViper())

	// 环境变量支持（例如 server.port -> SERVER_PORT）
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	cfg.PdfRg = cfg.PdfRg.Normalize()

	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/pdfrg.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("user_jwt.secret", "user-change-me-in-production")
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "pdfrg")
	v.SetDefault("queue.enabled", true)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.max_retry", 5)
	v.SetDefault("queue.queues", map[string]int{
		"default":  10,
		"critical": 5,
	})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Accept-Language",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("rate_limit.order_create.window_seconds", 60)
	v.SetDefault("rate_limit.order_create.max_requests", 10)
	v.SetDefault("pdf_rg.default_qr_plan", "1m")
	v.SetDefault("pdf_rg.allowed_qr_plans", []string{"1m", "3m", "6m"})
	v.SetDefault("pdf_rg.allowed_diretores", []string{"Maranhão", "Piauí", "Goiânia", "Tocantins"})
	v.SetDefault("pdf_rg.max_image_bytes", 10*1024*1024)
	v.SetDefault("pdf_rg.max_attachments", 3)
	v.SetDefault("pdf_rg.max_attachment_bytes", 15*1024*1024)
	v.SetDefault("pdf_rg.allowed_attachment_types", []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"application/pdf",
	})
	v.SetDefault("pdf_rg.max_document_bytes", 20*1024*1024)
	v.SetDefault("pdf_rg.allowed_document_types", []string{"application/pdf"})
	v.SetDefault("pdf_rg.admin_page_size", 50)
	v.SetDefault("pdf_rg.summary_cache_seconds", 30)
	v.SetDefault("pdf_rg.summary_refresh_cron", "@every 1m")
	v.SetDefault("pdf_rg.pricing.module_id", 0)
	v.SetDefault("pdf_rg.pricing.base_price", defaultPdfRgBasePrice)
	v.SetDefault("pdf_rg.pricing.qr_plan_prices", defaultPdfRgQRPlanPrices())
	v.SetDefault("messaging.enabled", false)
	v.SetDefault("messaging.driver", "noop")
	v.SetDefault("messaging.kafka.brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("messaging.kafka.topic", "pdf-rg-events")
	v.SetDefault("messaging.kafka.client_id", "pdfrg-api")
	v.SetDefault("messaging.kafka.write_timeout", 5*time.Second)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
