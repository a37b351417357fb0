package app

import (
	"context"
	"errors"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/logger"
	"github.com/mesa-next/internal/provider"
	"github.com/mesa-next/internal/router"
	"github.com/mesa-next/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, *provider.Container, error) {
	mode = normalizeOptions(Options{Mode: mode}).Mode
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}
	if !isValidMode(mode) {
		return nil, nil, errors.New("unknown mode: " + mode)
	}

	container, err := provider.NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := prepareData(context.Background(), cfg, container); err != nil {
		container.Close()
		return nil, nil, err
	}

	services, err := buildServices(cfg, mode, container)
	if err != nil {
		container.Close()
		return nil, nil, err
	}
	return NewRunner(services...), container, nil
}

// buildServices 按启动模式组装服务；会话清理与 HTTP 服务同进程运行
func buildServices(cfg *config.Config, mode string, container *provider.Container) ([]Service, error) {
	var services []Service

	if runsAPI(mode) {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server.Addr(), engine))
		services = append(services, worker.NewSessionSweeper(container.SessionService, cfg.Session.SweepInterval()))
	}

	if runsWorker(mode) {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		switch {
		case errors.Is(err, worker.ErrQueueDisabled) && mode == ModeAll:
			logger.Warnw("worker_skipped", "reason", "queue disabled")
		case err != nil:
			return nil, err
		default:
			services = append(services, workerService)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}
	return services, nil
}

// prepareData 空库写入演示数据，并保证超级管理员存在
func prepareData(ctx context.Context, cfg *config.Config, container *provider.Container) error {
	if cfg.Storage.SeedOnEmpty {
		seeded, err := container.SeedService.SeedIfEmpty(ctx)
		if err != nil {
			return err
		}
		if seeded {
			return nil
		}
	}
	return container.AuthService.EnsureSuperAdmin(ctx)
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, container, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer container.Close()

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode, "storage", opts.Config.Storage.Driver)
	return RunWithOptions(runner, opts)
}
