package types

import (
	"strings"
	"time"
)

// Feedback represents a feedback entry stored in the database.
type Feedback struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int64     `json:"version"`
}

// FeedbackFields holds the author-editable fields of an entry.
type FeedbackFields struct {
	Name    string
	Message string
}

// FeedbackCreate represents the request body for submitting feedback.
type FeedbackCreate struct {
	Name    string `json:"name" example:"Ana"`
	Message string `json:"message" example:"Great tool"`
}

// Normalize trims surrounding whitespace from every field.
func (r *FeedbackCreate) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Message = strings.TrimSpace(r.Message)
}

// Valid reports whether both fields are present after trimming.
func (r FeedbackCreate) Valid() bool {
	return strings.TrimSpace(r.Name) != "" && strings.TrimSpace(r.Message) != ""
}

// FeedbackUpdate represents the request body for editing an entry. Version is
// optional; when set the update only applies if the stored entry still has it.
type FeedbackUpdate struct {
	ID      string `json:"id" example:"6f1c2a0e-2f55-4f0e-9c6b-0d0b1e7d4a11"`
	Name    string `json:"name" example:"Ana"`
	Message string `json:"message" example:"Great tool, updated"`
	Version *int64 `json:"version,omitempty" example:"1"`
}

// Normalize trims surrounding whitespace from every field.
func (r *FeedbackUpdate) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Name = strings.TrimSpace(r.Name)
	r.Message = strings.TrimSpace(r.Message)
}

// Valid reports whether id, name and message are all present after trimming.
func (r FeedbackUpdate) Valid() bool {
	return strings.TrimSpace(r.ID) != "" &&
		strings.TrimSpace(r.Name) != "" &&
		strings.TrimSpace(r.Message) != ""
}

// Fields returns the editable part of the update.
func (r FeedbackUpdate) Fields() FeedbackFields {
	return FeedbackFields{Name: r.Name, Message: r.Message}
}

// FeedbackEventType enumerates mutation events published for feedback entries.
type FeedbackEventType string

const (
	FeedbackCreated FeedbackEventType = "feedback.created"
	FeedbackUpdated FeedbackEventType = "feedback.updated"
	FeedbackDeleted FeedbackEventType = "feedback.deleted"
)

// FeedbackEvent describes a committed mutation of a feedback entry.
type FeedbackEvent struct {
	ID        string            `json:"id"`
	Type      FeedbackEventType `json:"type"`
	Feedback  Feedback          `json:"feedback"`
	Timestamp time.Time         `json:"timestamp"`
}
