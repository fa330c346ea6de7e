package store

import (
	"context"

	"github.com/NomadCrew/feedback-board/types"
)

// FeedbackStore is the persistence gateway for feedback entries. It is the
// single source of truth; implementations must be safe for concurrent use.
type FeedbackStore interface {
	// ListFeedback returns every entry ordered by creation time, newest first.
	ListFeedback(ctx context.Context) ([]*types.Feedback, error)
	// CreateFeedback persists a new entry and returns it with its generated
	// id, timestamps and version.
	CreateFeedback(ctx context.Context, fields types.FeedbackFields) (*types.Feedback, error)
	// UpdateFeedback replaces name and message of an existing entry. When
	// expectedVersion is non-nil the update only applies if the stored version
	// matches, otherwise ErrConflict is returned. Unknown ids yield ErrNotFound.
	UpdateFeedback(ctx context.Context, id string, fields types.FeedbackFields, expectedVersion *int64) (*types.Feedback, error)
	// DeleteFeedback removes an entry and returns its prior state. Unknown ids
	// yield ErrNotFound.
	DeleteFeedback(ctx context.Context, id string) (*types.Feedback, error)
}
