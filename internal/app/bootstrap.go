package app

import (
	"errors"

	"github.com/meeplemarket/internal/config"
	"github.com/meeplemarket/internal/provider"
	"github.com/meeplemarket/internal/router"
	"github.com/meeplemarket/internal/worker"
)

// BuildRunner 按运行模式组装服务：api 起 HTTP，worker 起队列消费，all 两者同进程
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)
	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server.Host+":"+cfg.Server.Port, engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}
	return NewRunner(services...), nil
}

// Run 应用启动入口，阻塞到收到退出信号
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start",
		"addr", opts.Config.Server.Host+":"+opts.Config.Server.Port,
		"mode", opts.Mode,
	)
	return RunWithOptions(runner, opts)
}
