package board

import (
	"context"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/NomadCrew/feedback-board/config"
	"github.com/NomadCrew/feedback-board/handlers"
	"github.com/NomadCrew/feedback-board/internal/store/memory"
	"github.com/NomadCrew/feedback-board/logger"
	"github.com/NomadCrew/feedback-board/pkg/feedbackclient"
	"github.com/NomadCrew/feedback-board/router"
	"github.com/NomadCrew/feedback-board/services"
	"github.com/NomadCrew/feedback-board/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

// startBoardServer runs the full HTTP stack on an in-memory store.
func startBoardServer(t *testing.T) *feedbackclient.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{Environment: config.EnvDevelopment, AllowedOrigins: []string{"*"}},
	}
	feedbackService := services.NewFeedbackService(memory.NewFeedbackStore(), nil)
	r := router.SetupRouter(router.Dependencies{
		Config:          cfg,
		FeedbackHandler: handlers.NewFeedbackHandler(feedbackService, false),
		HealthHandler:   handlers.NewHealthHandler(services.NewHealthService(nil, config.DriverMemory, nil, "test")),
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	baseURL, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return feedbackclient.New(feedbackclient.WithBaseURL(baseURL), feedbackclient.WithHTTPClient(srv.Client()))
}

// recorder collects notifications.
type recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recorder) last() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}
	}
	return r.items[len(r.items)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// mockClient is a testify mock of the API client.
type mockClient struct {
	mock.Mock
}

var _ feedbackclient.ClientInterface = (*mockClient)(nil)

func (m *mockClient) ListFeedback(ctx context.Context) ([]types.Feedback, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Feedback), args.Error(1)
}

func (m *mockClient) SubmitFeedback(ctx context.Context, req types.FeedbackCreate) (*types.Feedback, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

func (m *mockClient) UpdateFeedback(ctx context.Context, req types.FeedbackUpdate) (*types.Feedback, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}

func (m *mockClient) DeleteFeedback(ctx context.Context, id string) (*types.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Feedback), args.Error(1)
}
