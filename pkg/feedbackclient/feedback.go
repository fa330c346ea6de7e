package feedbackclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/NomadCrew/feedback-board/types"
	"github.com/pkg/errors"
)

const feedbackPath = "/api/feedback"

// ListFeedback returns every entry, newest first.
func (c *Client) ListFeedback(ctx context.Context) ([]types.Feedback, error) {
	var entries []types.Feedback
	if err := c.request(ctx, http.MethodGet, &url.URL{Path: feedbackPath}, nil, &entries); err != nil {
		return nil, errors.WithStack(err)
	}
	if entries == nil {
		entries = []types.Feedback{}
	}
	return entries, nil
}

func (c *Client) SubmitFeedback(ctx context.Context, req types.FeedbackCreate) (*types.Feedback, error) {
	var created types.Feedback
	if err := c.request(ctx, http.MethodPost, &url.URL{Path: feedbackPath}, req, &created); err != nil {
		return nil, errors.WithStack(err)
	}
	return &created, nil
}

// UpdateFeedback replaces name and message of req.ID. A non-nil req.Version
// makes the server reject the edit if the entry changed meanwhile.
func (c *Client) UpdateFeedback(ctx context.Context, req types.FeedbackUpdate) (*types.Feedback, error) {
	var updated types.Feedback
	if err := c.request(ctx, http.MethodPatch, &url.URL{Path: feedbackPath}, req, &updated); err != nil {
		return nil, errors.WithStack(err)
	}
	return &updated, nil
}

// DeleteFeedback removes the entry and returns its last state.
func (c *Client) DeleteFeedback(ctx context.Context, id string) (*types.Feedback, error) {
	endpoint := &url.URL{
		Path:     feedbackPath,
		RawQuery: url.Values{"id": []string{id}}.Encode(),
	}

	var deleted types.Feedback
	if err := c.request(ctx, http.MethodDelete, endpoint, nil, &deleted); err != nil {
		return nil, errors.WithStack(err)
	}
	return &deleted, nil
}

// AsAPIError extracts the APIError from err, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
