package handlers

import (
	"context"

	"github.com/NomadCrew/feedback-board/types"
)

// FeedbackServiceInterface defines the feedback operations used by FeedbackHandler,
// allowing the handler to be tested with a mock.
type FeedbackServiceInterface interface {
	List(ctx context.Context) ([]*types.Feedback, error)
	Create(ctx context.Context, req types.FeedbackCreate) (*types.Feedback, error)
	Update(ctx context.Context, req types.FeedbackUpdate) (*types.Feedback, error)
	Delete(ctx context.Context, id string) (*types.Feedback, error)
}

// HealthServiceInterface defines the health check used by HealthHandler.
type HealthServiceInterface interface {
	CheckHealth(ctx context.Context) types.HealthCheck
}
