package mocks

import (
	"context"

	"github.com/NomadCrew/feedback-board/types"
	"github.com/stretchr/testify/mock"
)

// FeedbackStore is a mock of the store.FeedbackStore interface
type FeedbackStore struct {
	mock.Mock
}

// ListFeedback mocks the ListFeedback method
func (m *FeedbackStore) ListFeedback(ctx context.Context) ([]*types.Feedback, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Feedback), args.Error(1)
}

// CreateFeedback mocks the CreateFeedback method
func (m *FeedbackStore) CreateFeedback(ctx context.Context, fields types.FeedbackFields) (*types.Feedback, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

// UpdateFeedback mocks the UpdateFeedback method
func (m *FeedbackStore) UpdateFeedback(ctx context.Context, id string, fields types.FeedbackFields, expectedVersion *int64) (*types.Feedback, error) {
	args := m.Called(ctx, id, fields, expectedVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

// DeleteFeedback mocks the DeleteFeedback method
func (m *FeedbackStore) DeleteFeedback(ctx context.Context, id string) (*types.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}
