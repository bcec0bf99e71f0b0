package redis

import "time"

// Config holds the configuration for the Redis client.
type Config struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`

	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
	MaxRetries     int           `env:"MAX_RETRIES" envDefault:"3"`
	PoolSize       int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns   int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
}

// DefaultConfig returns a default configuration for the Redis client.
func DefaultConfig() *Config {
	return &Config{
		Addr:           "localhost:6379",
		ConnectTimeout: 5 * time.Second,
		MaxRetries:     3,
		PoolSize:       10,
		MinIdleConns:   2,
	}
}
