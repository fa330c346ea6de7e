package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/NomadCrew/feedback-board/internal/store"
	"github.com/NomadCrew/feedback-board/logger"
	"github.com/NomadCrew/feedback-board/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// invalidTextRepresentation is raised when an id is not a valid UUID.
const invalidTextRepresentation = "22P02"

const feedbackColumns = `id, name, message, created_at, updated_at, version`

// DBTX is the subset of *pgxpool.Pool used by the store. It is satisfied by
// pgxpool.Pool, pgx.Tx and pgxmock pools.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Ensure FeedbackStore implements store.FeedbackStore
var _ store.FeedbackStore = (*FeedbackStore)(nil)

// FeedbackStore implements store.FeedbackStore using PostgreSQL
type FeedbackStore struct {
	db DBTX
}

// NewFeedbackStore creates a new feedback store backed by a pgx pool.
func NewFeedbackStore(db DBTX) *FeedbackStore {
	return &FeedbackStore{db: db}
}

// ListFeedback returns every entry, newest first.
func (s *FeedbackStore) ListFeedback(ctx context.Context) ([]*types.Feedback, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+feedbackColumns+` FROM feedback ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	feedback := make([]*types.Feedback, 0)
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		feedback = append(feedback, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback: %w", err)
	}

	return feedback, nil
}

// CreateFeedback inserts a new feedback entry and returns the stored row.
func (s *FeedbackStore) CreateFeedback(ctx context.Context, fields types.FeedbackFields) (*types.Feedback, error) {
	row := s.db.QueryRow(ctx,
		`INSERT INTO feedback (name, message) VALUES ($1, $2) RETURNING `+feedbackColumns,
		fields.Name, fields.Message,
	)

	fb, err := scanFeedback(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	logger.GetLogger().Infow("Successfully created feedback", "feedbackID", fb.ID)
	return fb, nil
}

// UpdateFeedback replaces name and message, bumping version and updated_at.
func (s *FeedbackStore) UpdateFeedback(ctx context.Context, id string, fields types.FeedbackFields, expectedVersion *int64) (*types.Feedback, error) {
	var row pgx.Row
	if expectedVersion == nil {
		row = s.db.QueryRow(ctx,
			`UPDATE feedback SET name = $2, message = $3, version = version + 1, updated_at = NOW()
			 WHERE id = $1 RETURNING `+feedbackColumns,
			id, fields.Name, fields.Message,
		)
	} else {
		row = s.db.QueryRow(ctx,
			`UPDATE feedback SET name = $2, message = $3, version = version + 1, updated_at = NOW()
			 WHERE id = $1 AND version = $4 RETURNING `+feedbackColumns,
			id, fields.Name, fields.Message, *expectedVersion,
		)
	}

	fb, err := scanFeedback(row)
	if err == nil {
		logger.GetLogger().Infow("Feedback updated successfully", "feedbackID", id, "version", fb.Version)
		return fb, nil
	}
	if isInvalidID(err) {
		return nil, fmt.Errorf("update feedback %s: %w", id, store.ErrNotFound)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}
	if expectedVersion == nil {
		return nil, fmt.Errorf("update feedback %s: %w", id, store.ErrNotFound)
	}

	// No row matched id and version: tell a missing entry from a stale one.
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM feedback WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check feedback existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("update feedback %s: %w", id, store.ErrNotFound)
	}
	return nil, fmt.Errorf("update feedback %s at version %d: %w", id, *expectedVersion, store.ErrConflict)
}

// DeleteFeedback removes an entry and returns the deleted row.
func (s *FeedbackStore) DeleteFeedback(ctx context.Context, id string) (*types.Feedback, error) {
	row := s.db.QueryRow(ctx, `DELETE FROM feedback WHERE id = $1 RETURNING `+feedbackColumns, id)

	fb, err := scanFeedback(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, fmt.Errorf("delete feedback %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to delete feedback: %w", err)
	}

	logger.GetLogger().Infow("Successfully deleted feedback", "feedbackID", id)
	return fb, nil
}

func scanFeedback(row pgx.Row) (*types.Feedback, error) {
	var fb types.Feedback
	if err := row.Scan(&fb.ID, &fb.Name, &fb.Message, &fb.CreatedAt, &fb.UpdatedAt, &fb.Version); err != nil {
		return nil, err
	}
	return &fb, nil
}

func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}
