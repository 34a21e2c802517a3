// Logging for RxCore
// 包级日志，默认静默
package rxcore

import (
	"github.com/rs/zerolog"
)

var logger = zerolog.Nop()

// SetLogger 设置rxcore内部使用的日志记录器
//
// 只记录调试级别的诊断信息：被恢复的panic、无人处理的错误、
// Subject终止和被取消的调度任务。
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "rxcore").Logger()
}

// Logger 返回当前日志记录器
func Logger() *zerolog.Logger {
	return &logger
}
