package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogDirName    = "logs"
	defaultLogFilename   = "app.log"
	defaultLogMaxSizeMB  = 100
	defaultLogMaxBackups = 7
	defaultLogMaxAgeDays = 30
)

// Options 文件日志滚动配置
type Options struct {
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func (o Options) rotation(path string) *lumberjack.Logger {
	orDefault := func(v, def int) int {
		if v > 0 {
			return v
		}
		return def
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    orDefault(o.MaxSizeMB, defaultLogMaxSizeMB),
		MaxBackups: orDefault(o.MaxBackups, defaultLogMaxBackups),
		MaxAge:     orDefault(o.MaxAgeDays, defaultLogMaxAgeDays),
		Compress:   o.Compress,
	}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}

func consoleCore(level zapcore.Level) zapcore.Core {
	cfg := encoderConfig()
	cfg.EncodeLevel = zapcore.LowercaseColorLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(os.Stdout), level)
}

// buildCore 文件不可写时退回 stdout JSON，不阻断启动
func buildCore(debug bool, options Options) zapcore.Core {
	if debug {
		return consoleCore(zapcore.DebugLevel)
	}
	jsonEncoder := zapcore.NewJSONEncoder(encoderConfig())
	stdout := zapcore.NewCore(jsonEncoder, zapcore.Lock(os.Stdout), zapcore.InfoLevel)

	path, err := resolveLogFilePath(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: file output disabled: %v\n", err)
		return stdout
	}
	file := zapcore.NewCore(jsonEncoder.Clone(), zapcore.AddSync(options.rotation(path)), zapcore.InfoLevel)
	return zapcore.NewTee(file, stdout)
}

// resolveLogFilePath 确定日志文件路径并确认可写，目录缺省为工作目录下的 logs
func resolveLogFilePath(options Options) (string, error) {
	dir := strings.TrimSpace(options.Dir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve workdir: %w", err)
		}
		dir = filepath.Join(wd, defaultLogDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	name := strings.TrimSpace(options.Filename)
	if name == "" {
		name = defaultLogFilename
	}
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open log file: %w", err)
	}
	return path, f.Close()
}
