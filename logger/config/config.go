package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"

	"github.com/yaron8/ksp-telemetry/dao"
	"github.com/yaron8/ksp-telemetry/kerbal"
	"github.com/yaron8/ksp-telemetry/producer"
)

// Config holds the connection and sink settings taken from the environment.
type Config struct {
	LogDir string `env:"LOG_DIR"`

	KRPC  kerbal.Config
	Redis dao.Config
	Kafka producer.Config
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
