package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局日志实例，InitLogger 之前是空操作实现
var Log = zap.NewNop()

// InitLogger 初始化日志
// debug 模式下使用开发配置（彩色、人类可读），否则输出 JSON
func InitLogger(debug bool) {
	var (
		l   *zap.Logger
		err error
	)

	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err = cfg.Build()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		l, err = cfg.Build()
	}
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	Log = l
}

// Sync 刷新缓冲的日志条目，进程退出前调用
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
