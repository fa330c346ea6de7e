package services

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/NomadCrew/feedback-board/errors"
	"github.com/NomadCrew/feedback-board/internal/events"
	"github.com/NomadCrew/feedback-board/internal/store"
	"github.com/NomadCrew/feedback-board/logger"
	"github.com/NomadCrew/feedback-board/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Messages returned to clients when a request is rejected.
const (
	MsgMissingFields = "Missing fields"
	MsgMissingID     = "Missing id"
)

type feedbackMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

var (
	feedbackMetricsInstance *feedbackMetrics
	feedbackMetricsOnce     sync.Once
	metricsRegistry         = prometheus.DefaultRegisterer
)

func getFeedbackMetrics() *feedbackMetrics {
	feedbackMetricsOnce.Do(func() {
		feedbackMetricsInstance = &feedbackMetrics{
			operations: promauto.With(metricsRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "feedback_operations_total",
				Help: "Feedback board operations by kind and outcome",
			}, []string{"operation", "result"}),
			duration: promauto.With(metricsRegistry).NewHistogramVec(prometheus.HistogramOpts{
				Name:    "feedback_operation_duration_seconds",
				Help:    "Time spent in the feedback store per operation",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			}, []string{"operation"}),
		}
	})
	return feedbackMetricsInstance
}

// For testing purposes - reset metrics
func resetMetricsForTesting() {
	metricsRegistry = prometheus.NewRegistry()
	feedbackMetricsInstance = nil
	feedbackMetricsOnce = sync.Once{}
}

// FeedbackService validates requests, applies them to the store and announces
// committed mutations. Store errors are returned wrapped so callers can match
// store.ErrNotFound and store.ErrConflict.
type FeedbackService struct {
	store     store.FeedbackStore
	publisher events.Publisher
	metrics   *feedbackMetrics
	log       *zap.SugaredLogger
}

// NewFeedbackService creates a service over s. A nil publisher disables events.
func NewFeedbackService(s store.FeedbackStore, publisher events.Publisher) *FeedbackService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &FeedbackService{
		store:     s,
		publisher: publisher,
		metrics:   getFeedbackMetrics(),
		log:       logger.GetLogger().Named("feedback"),
	}
}

// List returns every entry, newest first.
func (s *FeedbackService) List(ctx context.Context) ([]*types.Feedback, error) {
	var out []*types.Feedback
	err := s.observe("list", func() error {
		var err error
		out, err = s.store.ListFeedback(ctx)
		return err
	})
	return out, err
}

// Create stores a new entry after trimming and validating its fields.
func (s *FeedbackService) Create(ctx context.Context, req types.FeedbackCreate) (*types.Feedback, error) {
	req.Normalize()
	if !req.Valid() {
		s.metrics.operations.WithLabelValues("create", "invalid").Inc()
		return nil, apperrors.ValidationFailed(MsgMissingFields, "name and message are required")
	}

	var fb *types.Feedback
	err := s.observe("create", func() error {
		var err error
		fb, err = s.store.CreateFeedback(ctx, types.FeedbackFields{Name: req.Name, Message: req.Message})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.announce(ctx, types.FeedbackCreated, fb)
	return fb, nil
}

// Update replaces name and message of an existing entry.
func (s *FeedbackService) Update(ctx context.Context, req types.FeedbackUpdate) (*types.Feedback, error) {
	req.Normalize()
	if !req.Valid() {
		s.metrics.operations.WithLabelValues("update", "invalid").Inc()
		return nil, apperrors.ValidationFailed(MsgMissingFields, "id, name and message are required")
	}

	var fb *types.Feedback
	err := s.observe("update", func() error {
		var err error
		fb, err = s.store.UpdateFeedback(ctx, req.ID, req.Fields(), req.Version)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.announce(ctx, types.FeedbackUpdated, fb)
	return fb, nil
}

// Delete removes the entry with the given id and returns its final state.
func (s *FeedbackService) Delete(ctx context.Context, id string) (*types.Feedback, error) {
	if id == "" {
		s.metrics.operations.WithLabelValues("delete", "invalid").Inc()
		return nil, apperrors.ValidationFailed(MsgMissingID, "query parameter id is required")
	}

	var fb *types.Feedback
	err := s.observe("delete", func() error {
		var err error
		fb, err = s.store.DeleteFeedback(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.announce(ctx, types.FeedbackDeleted, fb)
	return fb, nil
}

func (s *FeedbackService) observe(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	result := "ok"
	if err != nil {
		result = "error"
	}
	s.metrics.operations.WithLabelValues(operation, result).Inc()
	return err
}

// announce publishes a mutation event. Failures are logged and never undo the
// mutation that already committed.
func (s *FeedbackService) announce(ctx context.Context, eventType types.FeedbackEventType, fb *types.Feedback) {
	event := events.NewFeedbackEvent(eventType, *fb)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warnw("Failed to publish feedback event",
			"error", err,
			"eventType", eventType,
			"feedbackID", fb.ID)
	}
}
