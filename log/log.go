package log

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// 默认不输出，由调用方通过SetLogger接入
func init() {
	logger.Store(zap.NewNop())
}

// 替换全局日志实例，传入nil时关闭日志
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	} else {
		l = l.WithOptions(zap.AddCallerSkip(1))
	}
	logger.Store(l)
}

func Debug(msg string, fields ...zap.Field) {
	logger.Load().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Load().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Load().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Load().Error(msg, fields...)
}
