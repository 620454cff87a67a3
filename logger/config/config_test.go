package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Setenv("LOG_DIR", "/tmp/ksp")
	t.Setenv("KRPC_HOST", "gamebox")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_TTL", "1h")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ksp", cfg.LogDir)
	assert.Equal(t, "gamebox", cfg.KRPC.Host)
	assert.Equal(t, "50001", cfg.KRPC.StreamPort)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.BrokerList())
}

func TestNewConfig_BadValue(t *testing.T) {
	t.Setenv("REDIS_PORT", "not-a-port")

	_, err := NewConfig()
	assert.Error(t, err)
}
