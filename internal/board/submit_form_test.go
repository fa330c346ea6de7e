package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NomadCrew/feedback-board/pkg/feedbackclient"
	"github.com/NomadCrew/feedback-board/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSubmitForm_Success(t *testing.T) {
	client := startBoardServer(t)
	notes := &recorder{}
	routes := make(chan string, 1)

	f := NewSubmitForm(client, notes, NavigatorFunc(func(route string) { routes <- route }),
		WithRedirectDelay(10*time.Millisecond))

	assert.False(t, f.CanSubmit())
	assert.ErrorIs(t, f.Submit(context.Background()), ErrCannotSubmit)

	f.SetName(" Ana ")
	f.SetMessage("Great tool")
	require.True(t, f.CanSubmit())
	require.NoError(t, f.Submit(context.Background()))

	assert.Equal(t, Draft{}, f.Draft())
	assert.Equal(t, Notification{Kind: NotificationSuccess, Message: "Feedback submitted successfully!"}, notes.last())

	select {
	case route := <-routes:
		assert.Equal(t, RouteManage, route)
	case <-time.After(time.Second):
		t.Fatal("navigation was not scheduled")
	}

	entries, err := client.ListFeedback(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Ana", entries[0].Name)
}

func TestSubmitForm_Failure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "server message",
			err:      &feedbackclient.APIError{StatusCode: 400, Message: "Missing fields"},
			expected: "Missing fields",
		},
		{
			name:     "server without message",
			err:      &feedbackclient.APIError{StatusCode: 502},
			expected: "Failed to submit feedback",
		},
		{
			name:     "network error",
			err:      errors.New("connection refused"),
			expected: "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mockClient)
			client.On("SubmitFeedback", mock.Anything, types.FeedbackCreate{Name: "Ana", Message: "Hi"}).
				Return(nil, tt.err).Once()
			notes := &recorder{}
			navigated := false

			f := NewSubmitForm(client, notes, NavigatorFunc(func(string) { navigated = true }),
				WithRedirectDelay(0))
			f.SetName("Ana")
			f.SetMessage("Hi")

			assert.Error(t, f.Submit(context.Background()))
			assert.Equal(t, Notification{Kind: NotificationError, Message: tt.expected}, notes.last())
			assert.Equal(t, Draft{Name: "Ana", Message: "Hi"}, f.Draft())
			assert.True(t, f.CanSubmit(), "retry is allowed")
			assert.False(t, navigated)
		})
	}
}

func TestSubmitForm_InFlightGuard(t *testing.T) {
	client := new(mockClient)
	release := make(chan struct{})
	started := make(chan struct{})
	client.On("SubmitFeedback", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&types.Feedback{ID: "1"}, nil).Once()

	notes := &recorder{}
	f := NewSubmitForm(client, notes, NavigatorFunc(func(string) {}), WithRedirectDelay(time.Hour))
	f.SetName("Ana")
	f.SetMessage("Hi")

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background()) }()
	<-started

	assert.True(t, f.Submitting())
	assert.False(t, f.CanSubmit())
	assert.ErrorIs(t, f.Submit(context.Background()), ErrCannotSubmit)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, f.Submitting())
	assert.Equal(t, 1, notes.count())
	client.AssertNumberOfCalls(t, "SubmitFeedback", 1)
}
