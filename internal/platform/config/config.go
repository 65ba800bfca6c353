package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	platformstrings "kitchensink/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr               string
	LogLevel           string
	RequestTimeout     time.Duration
	CORSAllowedOrigins []string
	SeedDefaultMember  bool
	EventBufferSize    int

	Mongo MongoConfig
	Redis RedisConfig
	Kafka KafkaConfig
}

// MongoConfig configures the document store. An empty URI selects the
// in-memory store and sequence generator.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// RedisConfig configures the optional registration event channel.
type RedisConfig struct {
	URL          string
	Channel      string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional registration event topic.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Load reads an optional .env file and then builds the config from the
// environment. Variables already set in the environment win over .env.
func Load() Server {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:               envString("KITCHENSINK_ADDR", ":8080"),
		LogLevel:           envString("LOG_LEVEL", "info"),
		RequestTimeout:     envDuration("REQUEST_TIMEOUT", 30*time.Second),
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		SeedDefaultMember:  envBool("SEED_DEFAULT_MEMBER", true),
		EventBufferSize:    envInt("EVENT_BUFFER_SIZE", 256),
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: envString("MONGO_DATABASE", "kitchensink"),
			Timeout:  envDuration("MONGO_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			Channel:      envString("REDIS_CHANNEL", "members.registered"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: envList("KAFKA_BROKERS", nil),
			Topic:   envString("KAFKA_TOPIC", "members.registered"),
		},
	}
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func envList(key string, def []string) []string {
	list := platformstrings.SplitList(os.Getenv(key))
	if len(list) == 0 {
		return def
	}
	return list
}
