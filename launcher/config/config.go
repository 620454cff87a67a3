package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"

	"github.com/yaron8/ksp-telemetry/kerbal"
)

type Config struct {
	LogDir string `env:"LOG_DIR"`
	KRPC   kerbal.Config
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
