package redis

import (
	"context"

	v9 "github.com/redis/go-redis/v9"

	"github.com/tilenkocbek/MetaExchange/pkg/errors"
	"github.com/tilenkocbek/MetaExchange/pkg/logger"
)

// Client defines the interface for the Redis client surface this service uses.
type Client interface {
	Connect(ctx context.Context) error
	Ping(ctx context.Context) error
	Publish(ctx context.Context, channel string, message any) error
	Close() error
}

type client struct {
	logger *logger.Logger
	config *Config
	rdb    *v9.Client
}

// NewClient creates a new Redis client with the provided logger and configuration.
func NewClient(log *logger.Logger, config *Config) Client {
	return &client{
		logger: log,
		config: config,
	}
}

func (c *client) Connect(ctx context.Context) error {
	if c.config == nil {
		return errors.NewErrorDetails("Redis config is nil", string(errors.RedisConfigError), "connect")
	}
	if c.config.Addr == "" {
		return errors.NewErrorDetails("Redis address is empty", string(errors.RedisConfigError), "connect")
	}
	if c.config.ConnectTimeout <= 0 {
		return errors.NewErrorDetails("Invalid Redis connect timeout", string(errors.RedisConfigError), "connect")
	}
	if c.config.PoolSize <= 0 {
		return errors.NewErrorDetails("Invalid Redis pool size", string(errors.RedisConfigError), "connect")
	}

	c.rdb = v9.NewClient(&v9.Options{
		Addr:         c.config.Addr,
		Username:     c.config.Username,
		Password:     c.config.Password,
		DB:           c.config.DB,
		DialTimeout:  c.config.ConnectTimeout,
		PoolSize:     c.config.PoolSize,
		MinIdleConns: c.config.MinIdleConns,
		MaxRetries:   c.config.MaxRetries,
	})

	pingCtx, cancel := context.WithTimeout(ctx, c.config.ConnectTimeout)
	defer cancel()

	if err := c.rdb.Ping(pingCtx).Err(); err != nil {
		return errors.NewTracer(string(errors.RedisConnectionError)).Wrap(err)
	}

	c.logger.Info("connected to redis", logger.Field{
		Key:   "addr",
		Value: c.config.Addr,
	})
	return nil
}

func (c *client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.NewTracer(string(errors.RedisConnectionError)).Wrap(err)
	}
	return nil
}

func (c *client) Publish(ctx context.Context, channel string, message any) error {
	if err := c.rdb.Publish(ctx, channel, message).Err(); err != nil {
		return errors.NewTracer(string(errors.RedisPublishError)).Wrap(err)
	}
	return nil
}

func (c *client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
