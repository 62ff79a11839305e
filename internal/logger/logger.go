package logger

import (
	"log"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// L 全局结构化日志实例，Init 之前为 nil，调用方应使用 Z()/S()
var L *zap.Logger

var (
	fallbackOnce sync.Once
	fallbackLog  *zap.Logger
)

// Init 初始化全局日志并替换 zap 全局实例
func Init(mode string, options Options) *zap.Logger {
	L = New(mode, options)
	zap.ReplaceGlobals(L)
	return L
}

// New 创建日志实例。debug 模式只输出彩色控制台，其余模式输出 JSON 到文件与 stdout。
func New(mode string, options Options) *zap.Logger {
	debug := strings.EqualFold(strings.TrimSpace(mode), "debug")
	return zap.New(buildCore(debug, options),
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.Fields(zap.String("app", "pdfrg")),
	)
}

// Sync 刷新缓冲日志
func Sync() {
	if L != nil {
		_ = L.Sync()
	}
}

// Z 返回可用的结构化日志实例
func Z() *zap.Logger {
	if L != nil {
		return L
	}
	fallbackOnce.Do(func() {
		fallbackLog = zap.New(consoleCore(zap.InfoLevel), zap.AddCaller(), zap.AddCallerSkip(1))
	})
	return fallbackLog
}

// S 返回可用的 SugaredLogger
func S() *zap.SugaredLogger {
	return Z().Sugar()
}

// SW 返回带上下文字段的 SugaredLogger
func SW(kv ...interface{}) *zap.SugaredLogger {
	return S().With(kv...)
}

// Named 返回带模块名的 SugaredLogger，空名称时返回根实例
func Named(name string) *zap.SugaredLogger {
	if name = strings.TrimSpace(name); name != "" {
		return Z().Named(name).Sugar()
	}
	return S()
}

// StdLogger 供 net/http 等只接受标准库 logger 的组件使用
func StdLogger() *log.Logger {
	return zap.NewStdLog(Z())
}

func Debugw(message string, kv ...interface{}) { S().Debugw(message, kv...) }

func Infow(message string, kv ...interface{}) { S().Infow(message, kv...) }

func Warnw(message string, kv ...interface{}) { S().Warnw(message, kv...) }

func Errorw(message string, kv ...interface{}) { S().Errorw(message, kv...) }

// MaskCPF 日志中的证件号只保留前 3 位与后 2 位
func MaskCPF(cpf string) string {
	if len(cpf) <= 5 {
		return strings.Repeat("*", len(cpf))
	}
	return cpf[:3] + strings.Repeat("*", len(cpf)-5) + cpf[len(cpf)-2:]
}
