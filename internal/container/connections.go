package container

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

// RedisConnection owns the shared Redis client and closes it on shutdown.
type RedisConnection struct {
	*redis.Client
}

// Shutdown closes the client.
func (c *RedisConnection) Shutdown() error {
	return c.Close()
}

// PostgresConnection owns the shared pgx pool and closes it on shutdown.
type PostgresConnection struct {
	*pgxpool.Pool
}

// Shutdown closes the pool.
func (c *PostgresConnection) Shutdown() error {
	c.Close()

	return nil
}

// RedisPackage provides the shared Redis connection.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*RedisConnection, error) {
		opts := do.MustInvoke[*Options](i)

		return &RedisConnection{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// PostgresPackage provides the shared PostgreSQL pool. It is only invoked when DatabaseURL is set.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*PostgresConnection, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres requested but no database url is configured")
		}

		pool, err := pgxpool.New(context.Background(), opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}

		return &PostgresConnection{Pool: pool}, nil
	})
}
