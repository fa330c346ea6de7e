// Package feedbackclient talks to the feedback board HTTP API.
package feedbackclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/NomadCrew/feedback-board/types"
)

// ClientInterface is the subset of the API the board views depend on.
type ClientInterface interface {
	ListFeedback(ctx context.Context) ([]types.Feedback, error)
	SubmitFeedback(ctx context.Context, req types.FeedbackCreate) (*types.Feedback, error)
	UpdateFeedback(ctx context.Context, req types.FeedbackUpdate) (*types.Feedback, error)
	DeleteFeedback(ctx context.Context, id string) (*types.Feedback, error)
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

var _ ClientInterface = (*Client)(nil)

func New(funcs ...OptionFunc) *Client {
	opts := NewOptions(funcs...)
	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
	}
}

// APIError is returned for any non-2xx response. Message carries the
// server's "error" field when the body could be decoded.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected response code %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// IsNotFound reports whether the server rejected the call because the entry
// does not exist.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsConflict reports whether the entry was changed since it was read.
func (e *APIError) IsConflict() bool {
	return e.StatusCode == http.StatusConflict
}

func newAPIError(status int, body types.ErrorResponse) *APIError {
	return &APIError{
		StatusCode: status,
		Type:       body.Type,
		Message:    body.Error,
		Details:    body.Details,
	}
}
