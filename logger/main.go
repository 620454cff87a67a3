package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yaron8/ksp-telemetry/logger/bootstrap"
	"github.com/yaron8/ksp-telemetry/logger/config"
	"github.com/yaron8/ksp-telemetry/logger/options"
	"github.com/yaron8/ksp-telemetry/logi"
)

func main() {
	opts, err := options.NewOptions(os.Args)
	if err != nil {
		fmt.Fprint(os.Stderr, opts.Usage(err))
		os.Exit(2)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load logger config: %v", err))
	}

	if _, err := logi.NewLog(&logi.Config{LogDir: cfg.LogDir, LogFileName: "logger.log"}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap, err := bootstrap.NewBootstrap(ctx, opts, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	if cfg.Redis.Enabled() {
		fmt.Println("Storing session", bootstrap.Session(), "in Redis")
	}

	if err := bootstrap.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Logging stopped: %v\n", err)
		os.Exit(1)
	}
}
