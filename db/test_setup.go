package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupTestDB migrates the database at connectionString and returns a client
// connected to it. Intended for integration tests running against a
// disposable PostgreSQL instance.
func SetupTestDB(ctx context.Context, connectionString string) (*DatabaseClient, error) {
	if err := RunMigrations(connectionString); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse test database url: %w", err)
	}
	return newDatabaseClientFromConfig(ctx, poolConfig)
}

// CleanupTestDB removes every feedback row.
func CleanupTestDB(ctx context.Context, dc *DatabaseClient) error {
	_, err := dc.GetPool().Exec(ctx, `TRUNCATE TABLE feedback`)
	return err
}
