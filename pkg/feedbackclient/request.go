package feedbackclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/NomadCrew/feedback-board/logger"
	"github.com/NomadCrew/feedback-board/types"
	"github.com/pkg/errors"
)

func (c *Client) request(ctx context.Context, method string, endpoint *url.URL, payload any, result any) error {
	u := *c.baseURL
	u.Path = c.baseURL.JoinPath(endpoint.Path).Path
	u.RawQuery = endpoint.RawQuery

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errors.WithStack(err)
		}
		body = bytes.NewReader(raw)
	}

	logger.GetLogger().Debugw("Feedback API request", "method", method, "url", u.String())

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.WithStack(err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusBadRequest {
		var errBody types.ErrorResponse
		// A body that is not an ErrorResponse still yields an APIError with the status.
		_ = json.Unmarshal(raw, &errBody)
		logger.GetLogger().Debugw("Feedback API error response", "status", res.StatusCode, "error", errBody.Error)
		return newAPIError(res.StatusCode, errBody)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return errors.Wrap(err, "could not decode response")
	}
	return nil
}
