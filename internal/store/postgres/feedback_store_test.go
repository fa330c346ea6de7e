package postgres

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/NomadCrew/feedback-board/db"
	"github.com/NomadCrew/feedback-board/internal/store"
	"github.com/NomadCrew/feedback-board/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a disposable PostgreSQL container, applies migrations and
// returns a store bound to it.
func setupTestDB(t *testing.T) *FeedbackStore {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping PostgreSQL container tests in short mode")
	}
	if runtime.GOOS == "windows" {
		t.Skip("Skipping PostgreSQL container tests on Windows")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	client, err := db.SetupTestDB(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return NewFeedbackStore(client.GetPool())
}

func TestFeedbackStore_Integration(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	first, err := s.CreateFeedback(ctx, types.FeedbackFields{Name: "Ana", Message: "Great tool"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, int64(1), first.Version)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := s.CreateFeedback(ctx, types.FeedbackFields{Name: "Bob", Message: "Needs dark mode"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	t.Run("list is newest first", func(t *testing.T) {
		all, err := s.ListFeedback(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID)
		assert.Equal(t, first.ID, all[1].ID)
	})

	t.Run("update without version", func(t *testing.T) {
		updated, err := s.UpdateFeedback(ctx, first.ID, types.FeedbackFields{Name: "Ana", Message: "Updated"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Updated", updated.Message)
		assert.Equal(t, int64(2), updated.Version)
		assert.True(t, first.CreatedAt.Equal(updated.CreatedAt))
		assert.False(t, updated.UpdatedAt.Before(first.UpdatedAt))
	})

	t.Run("update with stale version conflicts", func(t *testing.T) {
		stale := int64(1)
		_, err := s.UpdateFeedback(ctx, first.ID, types.FeedbackFields{Name: "Ana", Message: "Again"}, &stale)
		assert.ErrorIs(t, err, store.ErrConflict)
	})

	t.Run("update with current version", func(t *testing.T) {
		current := int64(2)
		updated, err := s.UpdateFeedback(ctx, first.ID, types.FeedbackFields{Name: "Ana", Message: "Again"}, &current)
		require.NoError(t, err)
		assert.Equal(t, int64(3), updated.Version)
	})

	t.Run("unknown and malformed ids", func(t *testing.T) {
		_, err := s.UpdateFeedback(ctx, uuid.NewString(), types.FeedbackFields{Name: "x", Message: "y"}, nil)
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.UpdateFeedback(ctx, "not-a-uuid", types.FeedbackFields{Name: "x", Message: "y"}, nil)
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.DeleteFeedback(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete twice", func(t *testing.T) {
		deleted, err := s.DeleteFeedback(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bob", deleted.Name)

		_, err = s.DeleteFeedback(ctx, second.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)

		all, err := s.ListFeedback(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}
