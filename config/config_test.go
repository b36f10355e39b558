package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, "orders.events", cfg.Kafka.Topic)
	assert.Equal(t, "es", cfg.Server.DefaultLocale)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SESSION_TTL_SECONDS", "60")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("ELASTICSEARCH_ENABLED", "false")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := LoadEnv()

	assert.Equal(t, "9090", cfg.Server.HTTPPort)
	assert.Equal(t, time.Minute, cfg.Session.TTL())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Elastic.Enabled)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestListenAddr(t *testing.T) {
	assert.Equal(t, ":8080", ListenAddr("8080"))
	assert.Equal(t, ":8080", ListenAddr(":8080"))
	assert.Equal(t, "127.0.0.1:8080", ListenAddr("127.0.0.1:8080"))
}
