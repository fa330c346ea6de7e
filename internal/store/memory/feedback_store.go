// Package memory provides a process-local store.FeedbackStore used for
// development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/NomadCrew/feedback-board/internal/store"
	"github.com/NomadCrew/feedback-board/types"
	"github.com/google/uuid"
)

var _ store.FeedbackStore = (*FeedbackStore)(nil)

// FeedbackStore keeps entries in a map guarded by a RWMutex.
type FeedbackStore struct {
	mu      sync.RWMutex
	entries map[string]*types.Feedback
	seq     map[string]uint64
	next    uint64
	now     func() time.Time
}

func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{
		entries: make(map[string]*types.Feedback),
		seq:     make(map[string]uint64),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ListFeedback returns copies of every entry, newest first. Entries created
// within the same clock tick keep insertion order reversed.
func (s *FeedbackStore) ListFeedback(_ context.Context) ([]*types.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*types.Feedback, 0, len(s.entries))
	for _, fb := range s.entries {
		cp := *fb
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return s.seq[out[i].ID] > s.seq[out[j].ID]
	})
	return out, nil
}

func (s *FeedbackStore) CreateFeedback(_ context.Context, fields types.FeedbackFields) (*types.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	fb := &types.Feedback{
		ID:        uuid.NewString(),
		Name:      fields.Name,
		Message:   fields.Message,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
	s.next++
	s.entries[fb.ID] = fb
	s.seq[fb.ID] = s.next

	cp := *fb
	return &cp, nil
}

func (s *FeedbackStore) UpdateFeedback(_ context.Context, id string, fields types.FeedbackFields, expectedVersion *int64) (*types.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fb, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("update feedback %s: %w", id, store.ErrNotFound)
	}
	if expectedVersion != nil && fb.Version != *expectedVersion {
		return nil, fmt.Errorf("update feedback %s at version %d: %w", id, *expectedVersion, store.ErrConflict)
	}

	fb.Name = fields.Name
	fb.Message = fields.Message
	fb.Version++
	fb.UpdatedAt = s.now()

	cp := *fb
	return &cp, nil
}

func (s *FeedbackStore) DeleteFeedback(_ context.Context, id string) (*types.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fb, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("delete feedback %s: %w", id, store.ErrNotFound)
	}
	delete(s.entries, id)
	delete(s.seq, id)
	return fb, nil
}
