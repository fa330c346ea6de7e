package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/NomadCrew/feedback-board/types"
)

// MockPublisher records published events in memory for tests.
type MockPublisher struct {
	mu     sync.RWMutex
	events []types.FeedbackEvent
	err    error
}

// NewMockPublisher creates a new mock publisher for testing
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records an event, or returns the error set with FailWith.
func (m *MockPublisher) Publish(_ context.Context, event types.FeedbackEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return fmt.Errorf("mock publish: %w", m.err)
	}
	m.events = append(m.events, event)
	return nil
}

// FailWith makes every later Publish call return err. Pass nil to recover.
func (m *MockPublisher) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// GetEvents returns the recorded events in publish order.
func (m *MockPublisher) GetEvents() []types.FeedbackEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.FeedbackEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Reset clears all recorded events (for test cleanup)
func (m *MockPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
	m.err = nil
}
