package handlers

import (
	"context"

	"github.com/NomadCrew/feedback-board/types"
	"github.com/stretchr/testify/mock"
)

// MockFeedbackService implements FeedbackServiceInterface for handler tests.
type MockFeedbackService struct {
	mock.Mock
}

var _ FeedbackServiceInterface = (*MockFeedbackService)(nil)

func (m *MockFeedbackService) List(ctx context.Context) ([]*types.Feedback, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Feedback), args.Error(1)
}

func (m *MockFeedbackService) Create(ctx context.Context, req types.FeedbackCreate) (*types.Feedback, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

func (m *MockFeedbackService) Update(ctx context.Context, req types.FeedbackUpdate) (*types.Feedback, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

func (m *MockFeedbackService) Delete(ctx context.Context, id string) (*types.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

// MockHealthService implements HealthServiceInterface.
type MockHealthService struct {
	mock.Mock
}

func (m *MockHealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	args := m.Called(ctx)
	return args.Get(0).(types.HealthCheck)
}
