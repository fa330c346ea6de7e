package board

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/NomadCrew/feedback-board/pkg/feedbackclient"
	"github.com/NomadCrew/feedback-board/types"
)

const (
	msgSubmitted        = "Feedback submitted successfully!"
	msgSubmitFailed     = "Failed to submit feedback"
	msgSomethingWrong   = "Something went wrong"
	defaultRedirectWait = 1500 * time.Millisecond
)

// ErrCannotSubmit is returned when the draft is incomplete or a submission is
// already in flight.
var ErrCannotSubmit = errors.New("feedback cannot be submitted right now")

// Submitter is the part of the API client the submission form needs.
type Submitter interface {
	SubmitFeedback(ctx context.Context, req types.FeedbackCreate) (*types.Feedback, error)
}

type SubmitOption func(f *SubmitForm)

// WithRedirectDelay changes how long the form waits before opening the
// management list after a successful submission.
func WithRedirectDelay(d time.Duration) SubmitOption {
	return func(f *SubmitForm) {
		f.redirectDelay = d
	}
}

type SubmitForm struct {
	client        Submitter
	notifier      Notifier
	navigator     Navigator
	redirectDelay time.Duration

	mu         sync.Mutex
	draft      Draft
	submitting bool
}

func NewSubmitForm(client Submitter, notifier Notifier, navigator Navigator, opts ...SubmitOption) *SubmitForm {
	f := &SubmitForm{
		client:        client,
		notifier:      notifier,
		navigator:     navigator,
		redirectDelay: defaultRedirectWait,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *SubmitForm) SetName(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Name = name
}

func (f *SubmitForm) SetMessage(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Message = message
}

func (f *SubmitForm) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// CanSubmit is false while a submission is in flight or a field is blank.
func (f *SubmitForm) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.submitting && f.draft.valid()
}

func (f *SubmitForm) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Submit creates the entry. On success the draft is cleared and navigation to
// the management list is scheduled; on failure the draft is kept for a retry.
func (f *SubmitForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting || !f.draft.valid() {
		f.mu.Unlock()
		return ErrCannotSubmit
	}
	f.submitting = true
	t := f.draft.trimmed()
	f.mu.Unlock()

	_, err := f.client.SubmitFeedback(ctx, types.FeedbackCreate{Name: t.Name, Message: t.Message})

	f.mu.Lock()
	f.submitting = false
	if err == nil {
		f.draft = Draft{}
	}
	f.mu.Unlock()

	if err != nil {
		failure(f.notifier, submitErrorMessage(err))
		return err
	}

	success(f.notifier, msgSubmitted)
	time.AfterFunc(f.redirectDelay, func() {
		f.navigator.Navigate(RouteManage)
	})
	return nil
}

// submitErrorMessage prefers the message the server sent back.
func submitErrorMessage(err error) string {
	if apiErr, ok := feedbackclient.AsAPIError(err); ok {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return msgSubmitFailed
	}
	return msgSomethingWrong
}
