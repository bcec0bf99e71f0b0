package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/tilenkocbek/MetaExchange/pkg/questdb"
	"github.com/tilenkocbek/MetaExchange/pkg/redis"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and, when present,
// a .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // a missing .env file is fine

	return env.Parse(cfg)
}

// Config holds the configuration for the application.
type Config struct {
	Pair              string `env:"PAIR" envDefault:"BTC-EUR"`                      // Trading pair the book is scoped to
	HTTPAddr          string `env:"HTTP_ADDR" envDefault:":8080"`                   // Listen address of the HTTP host
	OrderBookFile     string `env:"ORDER_BOOK_FILE"`                                // Optional snapshot file imported on boot
	OrderUpdateBuffer int    `env:"ORDER_UPDATE_BUFFER" envDefault:"1024"`          // Venue registry fan-out channel size
	OrderUpdateChan   string `env:"ORDER_UPDATE_CHANNEL" envDefault:"order-updates"` // Redis pub/sub channel for order updates

	Redis   RedisConfig   `envPrefix:"REDIS_"`
	Audit   AuditConfig   `envPrefix:"AUDIT_"`
	QuestDB QuestDBConfig `envPrefix:"QUESTDB_"`
}

// RedisConfig toggles and configures the Redis order-update fan-out.
type RedisConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`
	redis.Config
}

// AuditConfig toggles and configures the Kafka trade audit stream.
type AuditConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKER" envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"trades"`
}

// QuestDBConfig toggles and configures QuestDB trade persistence.
type QuestDBConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`
	questdb.Config
}
