package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NomadCrew/feedback-board/internal/store"
	"github.com/NomadCrew/feedback-board/logger"
	"github.com/NomadCrew/feedback-board/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedbackColumnNames = []string{"id", "name", "message", "created_at", "updated_at", "version"}

func init() {
	logger.IsTest = true
}

func setupMockStore(t *testing.T) (*FeedbackStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewFeedbackStore(mock), mock
}

// Helper function to create test feedback
func createTestFeedback() *types.Feedback {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &types.Feedback{
		ID:        uuid.NewString(),
		Name:      "Ana",
		Message:   "Great tool",
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

func feedbackRow(fb *types.Feedback) *pgxmock.Rows {
	return pgxmock.NewRows(feedbackColumnNames).
		AddRow(fb.ID, fb.Name, fb.Message, fb.CreatedAt, fb.UpdatedAt, fb.Version)
}

func TestFeedbackStore_ListFeedback(t *testing.T) {
	ctx := context.Background()

	t.Run("returns rows in query order", func(t *testing.T) {
		s, mock := setupMockStore(t)
		newer := createTestFeedback()
		older := createTestFeedback()
		older.Name = "Bob"
		older.CreatedAt = newer.CreatedAt.Add(-time.Hour)

		rows := pgxmock.NewRows(feedbackColumnNames).
			AddRow(newer.ID, newer.Name, newer.Message, newer.CreatedAt, newer.UpdatedAt, newer.Version).
			AddRow(older.ID, older.Name, older.Message, older.CreatedAt, older.UpdatedAt, older.Version)
		mock.ExpectQuery("SELECT (.+) FROM feedback ORDER BY created_at DESC").WillReturnRows(rows)

		got, err := s.ListFeedback(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, newer.ID, got[0].ID)
		assert.Equal(t, "Bob", got[1].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table yields empty slice", func(t *testing.T) {
		s, mock := setupMockStore(t)
		mock.ExpectQuery("SELECT (.+) FROM feedback").WillReturnRows(pgxmock.NewRows(feedbackColumnNames))

		got, err := s.ListFeedback(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("database error", func(t *testing.T) {
		s, mock := setupMockStore(t)
		mock.ExpectQuery("SELECT (.+) FROM feedback").WillReturnError(errors.New("database connection failed"))

		_, err := s.ListFeedback(ctx)
		assert.ErrorContains(t, err, "failed to list feedback")
	})
}

func TestFeedbackStore_CreateFeedback(t *testing.T) {
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		s, mock := setupMockStore(t)
		fb := createTestFeedback()
		mock.ExpectQuery("INSERT INTO feedback \\(name, message\\) VALUES").
			WithArgs("Ana", "Great tool").
			WillReturnRows(feedbackRow(fb))

		got, err := s.CreateFeedback(ctx, types.FeedbackFields{Name: "Ana", Message: "Great tool"})
		require.NoError(t, err)
		assert.Equal(t, fb.ID, got.ID)
		assert.Equal(t, int64(1), got.Version)
		assert.Equal(t, fb.CreatedAt, got.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		s, mock := setupMockStore(t)
		mock.ExpectQuery("INSERT INTO feedback").
			WithArgs("Ana", "Great tool").
			WillReturnError(errors.New("database connection failed"))

		_, err := s.CreateFeedback(ctx, types.FeedbackFields{Name: "Ana", Message: "Great tool"})
		assert.ErrorContains(t, err, "failed to create feedback")
	})
}

func TestFeedbackStore_UpdateFeedback(t *testing.T) {
	ctx := context.Background()
	fields := types.FeedbackFields{Name: "Ana", Message: "Updated"}

	t.Run("last write wins without version", func(t *testing.T) {
		s, mock := setupMockStore(t)
		fb := createTestFeedback()
		fb.Message = "Updated"
		fb.Version = 2
		mock.ExpectQuery("UPDATE feedback SET").
			WithArgs(fb.ID, "Ana", "Updated").
			WillReturnRows(feedbackRow(fb))

		got, err := s.UpdateFeedback(ctx, fb.ID, fields, nil)
		require.NoError(t, err)
		assert.Equal(t, "Updated", got.Message)
		assert.Equal(t, int64(2), got.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("matching version", func(t *testing.T) {
		s, mock := setupMockStore(t)
		fb := createTestFeedback()
		fb.Version = 4
		version := int64(3)
		mock.ExpectQuery("UPDATE feedback SET (.+) AND version = \\$4").
			WithArgs(fb.ID, "Ana", "Updated", int64(3)).
			WillReturnRows(feedbackRow(fb))

		got, err := s.UpdateFeedback(ctx, fb.ID, fields, &version)
		require.NoError(t, err)
		assert.Equal(t, int64(4), got.Version)
	})

	t.Run("unknown id", func(t *testing.T) {
		s, mock := setupMockStore(t)
		id := uuid.NewString()
		mock.ExpectQuery("UPDATE feedback SET").
			WithArgs(id, "Ana", "Updated").
			WillReturnError(pgx.ErrNoRows)

		_, err := s.UpdateFeedback(ctx, id, fields, nil)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		s, mock := setupMockStore(t)
		mock.ExpectQuery("UPDATE feedback SET").
			WithArgs("not-a-uuid", "Ana", "Updated").
			WillReturnError(&pgconn.PgError{Code: invalidTextRepresentation})

		_, err := s.UpdateFeedback(ctx, "not-a-uuid", fields, nil)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("stale version", func(t *testing.T) {
		s, mock := setupMockStore(t)
		id := uuid.NewString()
		version := int64(1)
		mock.ExpectQuery("UPDATE feedback SET").
			WithArgs(id, "Ana", "Updated", int64(1)).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		_, err := s.UpdateFeedback(ctx, id, fields, &version)
		assert.ErrorIs(t, err, store.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing entry with version", func(t *testing.T) {
		s, mock := setupMockStore(t)
		id := uuid.NewString()
		version := int64(1)
		mock.ExpectQuery("UPDATE feedback SET").
			WithArgs(id, "Ana", "Updated", int64(1)).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := s.UpdateFeedback(ctx, id, fields, &version)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		s, mock := setupMockStore(t)
		id := uuid.NewString()
		mock.ExpectQuery("UPDATE feedback SET").
			WithArgs(id, "Ana", "Updated").
			WillReturnError(errors.New("database connection failed"))

		_, err := s.UpdateFeedback(ctx, id, fields, nil)
		assert.ErrorContains(t, err, "failed to update feedback")
		assert.NotErrorIs(t, err, store.ErrNotFound)
	})
}

func TestFeedbackStore_DeleteFeedback(t *testing.T) {
	ctx := context.Background()

	t.Run("returns prior state", func(t *testing.T) {
		s, mock := setupMockStore(t)
		fb := createTestFeedback()
		mock.ExpectQuery("DELETE FROM feedback WHERE id = \\$1 RETURNING").
			WithArgs(fb.ID).
			WillReturnRows(feedbackRow(fb))

		got, err := s.DeleteFeedback(ctx, fb.ID)
		require.NoError(t, err)
		assert.Equal(t, fb.Name, got.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second delete fails", func(t *testing.T) {
		s, mock := setupMockStore(t)
		id := uuid.NewString()
		mock.ExpectQuery("DELETE FROM feedback").WithArgs(id).WillReturnError(pgx.ErrNoRows)

		_, err := s.DeleteFeedback(ctx, id)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		s, mock := setupMockStore(t)
		id := uuid.NewString()
		mock.ExpectQuery("DELETE FROM feedback").WithArgs(id).WillReturnError(errors.New("boom"))

		_, err := s.DeleteFeedback(ctx, id)
		assert.ErrorContains(t, err, "failed to delete feedback")
	})
}
