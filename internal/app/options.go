package app

import (
	"os"
	"time"

	"github.com/sellflow-next/internal/config"
	"github.com/sellflow-next/internal/logger"

	"go.uber.org/zap"
)

// 运行模式：api 只起 HTTP 接口，worker 只起队列消费者，all 同进程跑两者
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal   // 触发优雅停机的系统信号
	ShutdownTimeout time.Duration // 停机时等待子服务退出的上限
	Mode            string
}

// normalizeOptions 补齐默认参数
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	return opts
}
