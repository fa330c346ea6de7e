// Package db owns the PostgreSQL connection pool and schema migrations for the
// feedback board.
package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/NomadCrew/feedback-board/config"
	"github.com/NomadCrew/feedback-board/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DatabaseClient wraps a pgxpool.Pool together with the configuration used to
// build it, so the pool can be recreated after a fatal connection failure.
type DatabaseClient struct {
	pool   *pgxpool.Pool
	config *pgxpool.Config
	mu     sync.RWMutex
}

// NewDatabaseClient connects to PostgreSQL using cfg and verifies the
// connection with a ping.
func NewDatabaseClient(ctx context.Context, cfg *config.DatabaseConfig) (*DatabaseClient, error) {
	poolConfig, err := config.ConfigurePostgresPool(cfg)
	if err != nil {
		return nil, err
	}
	return newDatabaseClientFromConfig(ctx, poolConfig)
}

func newDatabaseClientFromConfig(ctx context.Context, poolConfig *pgxpool.Config) (*DatabaseClient, error) {
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.GetLogger().Infow("Connected to database",
		"host", poolConfig.ConnConfig.Host,
		"database", poolConfig.ConnConfig.Database)
	return &DatabaseClient{pool: pool, config: poolConfig}, nil
}

// GetPool returns the underlying pgxpool.Pool in a thread-safe manner.
func (dc *DatabaseClient) GetPool() *pgxpool.Pool {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	return dc.pool
}

// Ping checks that the database is reachable.
func (dc *DatabaseClient) Ping(ctx context.Context) error {
	pool := dc.GetPool()
	if pool == nil {
		return fmt.Errorf("database pool is closed")
	}
	return pool.Ping(ctx)
}

// RefreshPool closes the current pool and opens a new one from the stored config.
func (dc *DatabaseClient) RefreshPool(ctx context.Context) error {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.pool != nil {
		dc.pool.Close()
	}

	newPool, err := pgxpool.NewWithConfig(ctx, dc.config)
	if err != nil {
		dc.pool = nil
		return fmt.Errorf("failed to connect with new config during pool refresh: %w", err)
	}

	dc.pool = newPool
	return nil
}

// Close releases every connection in the pool.
func (dc *DatabaseClient) Close() {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	if dc.pool != nil {
		dc.pool.Close()
		dc.pool = nil
	}
}

// Stat returns pool statistics, or nil once the pool is closed.
func (dc *DatabaseClient) Stat() *pgxpool.Stat {
	pool := dc.GetPool()
	if pool == nil {
		return nil
	}
	return pool.Stat()
}
