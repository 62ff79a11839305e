package main

import (
	"flag"
	"os"
	"syscall"

	"github.com/consultas-painel/pdfrg/internal/app"
	"github.com/consultas-painel/pdfrg/internal/config"
	"github.com/consultas-painel/pdfrg/internal/logger"
	"github.com/consultas-painel/pdfrg/internal/models"

	"github.com/gin-gonic/gin"
)

func main() {
	var (
		rawMode     string
		migrateOnly bool
	)
	flag.StringVar(&rawMode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.BoolVar(&migrateOnly, "migrate-only", false, "仅执行数据库迁移后退出")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	log := logger.S()

	mode, err := app.ParseMode(rawMode)
	if err != nil {
		log.Fatalw("invalid_mode", "mode", rawMode, "error", err)
	}

	// 令牌由登录服务签发，生产环境不允许弱密钥
	for _, name := range cfg.WeakSecrets() {
		if cfg.IsRelease() {
			log.Fatalw("weak_jwt_secret", "config", name)
		}
		log.Warnw("weak_jwt_secret", "config", name)
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Server.Mode, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		log.Fatalw("database_init_failed", "driver", cfg.Database.Driver, "error", err)
	}
	if err := models.AutoMigrate(); err != nil {
		log.Fatalw("database_migrate_failed", "error", err)
	}
	if migrateOnly {
		log.Infow("database_migrated", "driver", cfg.Database.Driver)
		return
	}

	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  log,
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		log.Fatalw("app_run_failed", "error", err)
	}
}
