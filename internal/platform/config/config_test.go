package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"KITCHENSINK_ADDR", "MONGO_URI", "KAFKA_BROKERS", "SEED_DEFAULT_MEMBER", "MONGO_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.Mongo.URI)
	assert.Equal(t, "kitchensink", cfg.Mongo.Database)
	assert.Equal(t, 5*time.Second, cfg.Mongo.Timeout)
	assert.True(t, cfg.SeedDefaultMember)
	assert.Nil(t, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("KITCHENSINK_ADDR", ":9090")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_TIMEOUT", "2s")
	t.Setenv("SEED_DEFAULT_MEMBER", "false")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("EVENT_BUFFER_SIZE", "-4")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, 2*time.Second, cfg.Mongo.Timeout)
	assert.False(t, cfg.SeedDefaultMember)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 256, cfg.EventBufferSize, "non-positive sizes fall back to the default")
}
