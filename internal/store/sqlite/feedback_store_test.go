package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/NomadCrew/feedback-board/internal/store"
	"github.com/NomadCrew/feedback-board/logger"
	"github.com/NomadCrew/feedback-board/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func setupStore(t *testing.T) *FeedbackStore {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "feedback.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return NewFeedbackStore(db)
}

func TestFeedbackStore_CreateAndList(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	all, err := s.ListFeedback(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	first, err := s.CreateFeedback(ctx, types.FeedbackFields{Name: "Ana", Message: "Great tool"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, int64(1), first.Version)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	time.Sleep(5 * time.Millisecond)
	second, err := s.CreateFeedback(ctx, types.FeedbackFields{Name: "Bob", Message: "Needs dark mode"})
	require.NoError(t, err)

	all, err = s.ListFeedback(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
}

func TestFeedbackStore_Update(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	created, err := s.CreateFeedback(ctx, types.FeedbackFields{Name: "Ana", Message: "Great tool"})
	require.NoError(t, err)

	t.Run("last write wins without version", func(t *testing.T) {
		updated, err := s.UpdateFeedback(ctx, created.ID, types.FeedbackFields{Name: "Ana", Message: "Updated"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Updated", updated.Message)
		assert.Equal(t, int64(2), updated.Version)
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		stale := int64(1)
		_, err := s.UpdateFeedback(ctx, created.ID, types.FeedbackFields{Name: "Ana", Message: "Lost"}, &stale)
		assert.ErrorIs(t, err, store.ErrConflict)

		all, err := s.ListFeedback(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Updated", all[0].Message)
	})

	t.Run("current version applies", func(t *testing.T) {
		current := int64(2)
		updated, err := s.UpdateFeedback(ctx, created.ID, types.FeedbackFields{Name: "Ana B.", Message: "Won"}, &current)
		require.NoError(t, err)
		assert.Equal(t, "Ana B.", updated.Name)
		assert.Equal(t, int64(3), updated.Version)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.UpdateFeedback(ctx, "missing", types.FeedbackFields{Name: "x", Message: "y"}, nil)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestFeedbackStore_Delete(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	created, err := s.CreateFeedback(ctx, types.FeedbackFields{Name: "Ana", Message: "Great tool"})
	require.NoError(t, err)

	deleted, err := s.DeleteFeedback(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, "Ana", deleted.Name)

	_, err = s.DeleteFeedback(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	all, err := s.ListFeedback(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFeedbackStore_ConcurrentCreates(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateFeedback(ctx, types.FeedbackFields{Name: "Ana", Message: "hello"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := s.ListFeedback(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 10)
}
