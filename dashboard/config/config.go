package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/spf13/viper"

	"github.com/yaron8/ksp-telemetry/dao"
	"github.com/yaron8/ksp-telemetry/kerbal"
	"github.com/yaron8/ksp-telemetry/producer"
)

type Config struct {
	Port           int           `env:"DASHBOARD_PORT" envDefault:"5006"`
	UpdateInterval time.Duration `env:"DASHBOARD_UPDATE_INTERVAL" envDefault:"500ms"`
	Rollover       int           `env:"DASHBOARD_ROLLOVER" envDefault:"300"`
	CacheTTL       time.Duration `env:"DASHBOARD_CACHE_TTL" envDefault:"10s"`
	Simulate       bool          `env:"DASHBOARD_SIMULATE"`
	// ItemsFile holds log_items and plots; empty means the defaults.
	ItemsFile string `env:"DASHBOARD_ITEMS"`
	LogDir    string `env:"LOG_DIR"`

	KRPC  kerbal.Config
	Redis dao.Config
	Kafka producer.Config
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.UpdateInterval <= 0 {
		return nil, fmt.Errorf("DASHBOARD_UPDATE_INTERVAL must be positive")
	}
	return cfg, nil
}

// Plot is one line chart on the dashboard page.
type Plot struct {
	Title string `mapstructure:"title" json:"title"`
	X     string `mapstructure:"x" json:"x"`
	Y     string `mapstructure:"y" json:"y"`
}

func DefaultPlots() []Plot {
	return []Plot{
		{Title: "Pitch", X: "space_center_ut", Y: "flight_pitch"},
		{Title: "Heading", X: "space_center_ut", Y: "flight_heading"},
	}
}

// LoadPlots reads the plots list from the items file.
func LoadPlots(path string) ([]Plot, error) {
	if path == "" {
		return DefaultPlots(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read plots %s: %w", path, err)
	}

	var plots []Plot
	if err := v.UnmarshalKey("plots", &plots); err != nil {
		return nil, fmt.Errorf("failed to decode plots %s: %w", path, err)
	}
	if len(plots) == 0 {
		return DefaultPlots(), nil
	}
	for i := range plots {
		if plots[i].Title == "" {
			plots[i].Title = plots[i].Y
		}
	}
	return plots, nil
}

// CheckPlots makes sure every plotted column is logged.
func CheckPlots(plots []Plot, columns []string) error {
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	for _, p := range plots {
		for _, c := range []string{p.X, p.Y} {
			if !known[c] {
				return fmt.Errorf("plot %q uses column %q which is not logged", p.Title, c)
			}
		}
	}
	return nil
}
