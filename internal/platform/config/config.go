package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config captures process configuration so main stays lean. Every knob comes
// from the environment; defaults suit local development with memory stores.
type Config struct {
	Addr string `envconfig:"CONCOURS_ADDR" default:":8080"`

	// DatabaseURL enables the Postgres-backed stores. Empty means memory
	// stores, which only makes sense for local development.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// RedisURL enables the Redis session store. Empty means sessions live in
	// the same store family as the rest of the engine.
	RedisURL string `envconfig:"REDIS_URL"`

	// KafkaBrokers enables the Kafka outbox sink. Empty means events are
	// logged instead of produced.
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	OutboxTopic  string   `envconfig:"OUTBOX_TOPIC" default:"concours.notifications"`
	OutboxBuffer int      `envconfig:"OUTBOX_BUFFER" default:"256"`

	SessionTTL           time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	SessionPurgeInterval time.Duration `envconfig:"SESSION_PURGE_INTERVAL" default:"1h"`
}

// FromEnv builds a Config from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env config: %w", err)
	}
	return cfg, nil
}
