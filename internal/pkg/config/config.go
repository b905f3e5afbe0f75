package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port        string        `env:"PORT,         default=8080"`
	Env         string        `env:"ENV,          default=development"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,    default=24h"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	StoreDriver string        `env:"STORE_DRIVER, default=mongo"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
	Events EventsConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=restaurant_api"`
}

// RedisConfig configures the slot locks. An empty Addr selects in-process
// locks, which only serialise writers of a single replica.
type RedisConfig struct {
	Addr        string        `env:"REDIS_ADDR"`
	Password    string        `env:"REDIS_PASSWORD"`
	DB          int           `env:"REDIS_DB,      default=0"`
	SlotLockTTL time.Duration `env:"SLOT_LOCK_TTL, default=5s"`
}

// KafkaConfig configures event publication. Without brokers events are
// logged instead.
type KafkaConfig struct {
	Brokers     []string `env:"KAFKA_BROKERS"`
	TopicPrefix string   `env:"KAFKA_TOPIC_PREFIX, default=restaurant"`
}

type EventsConfig struct {
	Workers int `env:"EVENT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Production reports whether ENV names a production deployment.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMongo, StoreMemory, c.StoreDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Events.Workers <= 0 {
		return fmt.Errorf("EVENT_WORKERS must be positive")
	}
	return nil
}
