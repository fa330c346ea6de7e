// Package events publishes feedback mutation events so other processes can
// react to changes on the board.
package events

import (
	"context"
	"time"

	"github.com/NomadCrew/feedback-board/types"
	"github.com/google/uuid"
)

// Publisher sends committed feedback mutations to subscribers.
type Publisher interface {
	Publish(ctx context.Context, event types.FeedbackEvent) error
}

// NewFeedbackEvent builds an event for a committed mutation with a fresh id
// and the current time.
func NewFeedbackEvent(eventType types.FeedbackEventType, fb types.Feedback) types.FeedbackEvent {
	return types.FeedbackEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Feedback:  fb,
		Timestamp: time.Now().UTC(),
	}
}

// NoopPublisher drops every event. Used when event publication is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, types.FeedbackEvent) error {
	return nil
}
