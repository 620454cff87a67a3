package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 5006, cfg.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.UpdateInterval)
	assert.Equal(t, 300, cfg.Rollover)
	assert.Equal(t, 10*time.Second, cfg.CacheTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "ksp-telemetry", cfg.Kafka.Topic)
	assert.Equal(t, "50000", cfg.KRPC.RPCPort)
}

func TestNewConfig_Env(t *testing.T) {
	t.Setenv("DASHBOARD_PORT", "8080")
	t.Setenv("DASHBOARD_SIMULATE", "true")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("KRPC_HOST", "10.0.0.5")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Simulate)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "10.0.0.5", cfg.KRPC.Host)
}

func TestNewConfig_BadInterval(t *testing.T) {
	t.Setenv("DASHBOARD_UPDATE_INTERVAL", "0s")
	_, err := NewConfig()
	assert.Error(t, err)
}

func TestLoadPlots(t *testing.T) {
	plots, err := LoadPlots("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPlots(), plots)

	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	content := `
plots:
  - x: space_center_ut
    y: flight_mean_altitude
  - title: Speed
    x: space_center_ut
    y: flight_speed
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	plots, err = LoadPlots(path)
	require.NoError(t, err)
	require.Len(t, plots, 2)
	assert.Equal(t, Plot{Title: "flight_mean_altitude", X: "space_center_ut", Y: "flight_mean_altitude"}, plots[0])
	assert.Equal(t, "Speed", plots[1].Title)

	noPlots := filepath.Join(t.TempDir(), "items.yaml")
	require.NoError(t, os.WriteFile(noPlots, []byte("qualified_header: true\n"), 0644))
	plots, err = LoadPlots(noPlots)
	require.NoError(t, err)
	assert.Equal(t, DefaultPlots(), plots)

	_, err = LoadPlots(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCheckPlots(t *testing.T) {
	columns := []string{"space_center_ut", "flight_pitch", "flight_heading"}
	assert.NoError(t, CheckPlots(DefaultPlots(), columns))

	err := CheckPlots([]Plot{{Title: "Mach", X: "space_center_ut", Y: "flight_mach"}}, columns)
	assert.ErrorContains(t, err, "flight_mach")
}
