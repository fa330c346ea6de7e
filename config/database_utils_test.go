package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurePostgresPool(t *testing.T) {
	t.Setenv("K_SERVICE", "")

	t.Run("plain connection", func(t *testing.T) {
		cfg := &DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			User:           "user",
			Password:       "pass",
			Name:           "board",
			SSLMode:        "disable",
			MaxConnections: 20,
			ConnMaxLife:    "30m",
		}
		poolCfg, err := ConfigurePostgresPool(cfg)
		require.NoError(t, err)
		assert.Equal(t, "user", poolCfg.ConnConfig.User)
		assert.Equal(t, "board", poolCfg.ConnConfig.Database)
		assert.Equal(t, int32(20), poolCfg.MaxConns)
		assert.Equal(t, 30*time.Minute, poolCfg.MaxConnLifetime)
		assert.Nil(t, poolCfg.ConnConfig.TLSConfig)
	})

	t.Run("require ssl enables tls", func(t *testing.T) {
		cfg := &DatabaseConfig{
			Host: "db.example.com", Port: 5432, User: "u", Password: "p", Name: "board",
			SSLMode: "require", MaxConnections: 5, ConnMaxLife: "1h",
		}
		poolCfg, err := ConfigurePostgresPool(cfg)
		require.NoError(t, err)
		require.NotNil(t, poolCfg.ConnConfig.TLSConfig)
		assert.Equal(t, "db.example.com", poolCfg.ConnConfig.TLSConfig.ServerName)
	})

	t.Run("invalid lifetime falls back", func(t *testing.T) {
		cfg := &DatabaseConfig{
			Host: "localhost", Port: 5432, User: "u", Name: "board",
			MaxConnections: 5, ConnMaxLife: "forever",
		}
		poolCfg, err := ConfigurePostgresPool(cfg)
		require.NoError(t, err)
		assert.Equal(t, time.Hour, poolCfg.MaxConnLifetime)
	})

	t.Run("serverless caps pool", func(t *testing.T) {
		t.Setenv("K_SERVICE", "feedback-board")
		cfg := &DatabaseConfig{
			Host: "localhost", Port: 5432, User: "u", Name: "board",
			MaxConnections: 100, ConnMaxLife: "2h",
		}
		poolCfg, err := ConfigurePostgresPool(cfg)
		require.NoError(t, err)
		assert.Equal(t, int32(10), poolCfg.MaxConns)
		assert.Equal(t, 5*time.Minute, poolCfg.MaxConnLifetime)
	})
}

func TestConfigureRedisOptions(t *testing.T) {
	opts := ConfigureRedisOptions(&RedisConfig{Address: "localhost:6379", DB: 2, PoolSize: 3})
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Nil(t, opts.TLSConfig)

	opts = ConfigureRedisOptions(&RedisConfig{Address: "redis.internal:6380", UseTLS: true})
	assert.NotNil(t, opts.TLSConfig)
}

func TestTestRedisConnection(t *testing.T) {
	t.Run("first ping succeeds", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectPing().SetVal("PONG")

		require.NoError(t, TestRedisConnection(context.Background(), client))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelled while retrying", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectPing().SetErr(errors.New("connection refused"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		err := TestRedisConnection(ctx, client)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
