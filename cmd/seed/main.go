package main

import (
	"context"
	"flag"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/logger"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/provider"
	"github.com/mesa-next/internal/service"
)

func main() {
	var reset bool
	flag.BoolVar(&reset, "reset", false, "覆盖现有数据并写入演示餐厅")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	container, err := provider.NewContainer(cfg)
	if err != nil {
		stdLog.Fatalf("Failed to init container: %v", err)
	}
	defer container.Close()

	ctx := context.Background()
	if reset {
		if err := container.SeedService.Seed(ctx); err != nil {
			stdLog.Fatalf("Failed to seed demo data: %v", err)
		}
		stdLog.Printf("Demo data written, owner password: %s", service.DemoOwnerPassword)
		return
	}

	seeded, err := container.SeedService.SeedIfEmpty(ctx)
	if err != nil {
		stdLog.Fatalf("Failed to seed demo data: %v", err)
	}
	if !seeded {
		stdLog.Printf("Data already present, run with -reset to overwrite")
		return
	}
	stdLog.Printf("Demo data written, owner password: %s", service.DemoOwnerPassword)
}
