package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yaron8/ksp-telemetry/dashboard/bootstrap"
	"github.com/yaron8/ksp-telemetry/dashboard/config"
	"github.com/yaron8/ksp-telemetry/logi"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load dashboard config: %v", err))
	}

	if _, err := logi.NewLog(&logi.Config{LogDir: cfg.LogDir, LogFileName: "dashboard.log"}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap, err := bootstrap.NewBootstrap(ctx, cfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to create dashboard bootstrap: %v", err))
	}

	if err := bootstrap.Run(ctx); err != nil {
		panic(fmt.Sprintf("Dashboard stopped: %v", err))
	}
}
