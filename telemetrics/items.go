package telemetrics

import (
	"fmt"

	"github.com/spf13/viper"
)

// Item selects the attributes logged for one category.
type Item struct {
	Category   Category `mapstructure:"category"`
	Attributes []string `mapstructure:"attributes"`
}

type Items []Item

// DefaultItems is the launch-telemetry selection used when no config is given.
func DefaultItems() Items {
	return Items{
		{Category: SpaceCenter, Attributes: []string{"ut"}},
		{Category: Vessel, Attributes: []string{"met", "thrust", "mass"}},
		{Category: Flight, Attributes: []string{"mean_altitude", "speed", "dynamic_pressure",
			"lift", "drag", "angle_of_attack", "pitch", "heading"}},
		{Category: Orbit, Attributes: []string{"apoapsis_altitude", "periapsis_altitude"}},
	}
}

func (items Items) Validate() error {
	if len(items) == 0 {
		return fmt.Errorf("no log items configured")
	}
	for _, item := range items {
		if len(item.Attributes) == 0 {
			return fmt.Errorf("log item %q has no attributes", item.Category)
		}
		for _, attribute := range item.Attributes {
			if _, err := Lookup(item.Category, attribute); err != nil {
				return err
			}
		}
	}
	return nil
}

// LogConfig is the content of a log-items file.
type LogConfig struct {
	Items     Items `mapstructure:"log_items"`
	Qualified bool  `mapstructure:"qualified_header"`
}

func (c *LogConfig) HeaderStyle() HeaderStyle {
	if c.Qualified {
		return HeaderQualified
	}
	return HeaderShort
}

// LoadLogConfig reads a YAML, TOML or JSON log-items file. An empty path
// yields the default items.
func LoadLogConfig(path string) (*LogConfig, error) {
	if path == "" {
		return &LogConfig{Items: DefaultItems()}, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read log config %s: %w", path, err)
	}

	var cfg LogConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode log config %s: %w", path, err)
	}
	if len(cfg.Items) == 0 {
		cfg.Items = DefaultItems()
	}
	if err := cfg.Items.Validate(); err != nil {
		return nil, fmt.Errorf("invalid log config %s: %w", path, err)
	}
	return &cfg, nil
}
