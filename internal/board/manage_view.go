package board

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/NomadCrew/feedback-board/pkg/feedbackclient"
	"github.com/NomadCrew/feedback-board/types"
)

const (
	msgFillAllFields = "Please fill in all fields"
	msgUpdated       = "Feedback updated successfully!"
	msgUpdateFailed  = "Failed to update feedback"
	msgEditConflict  = "Feedback was changed by someone else. Review it and save again."
	msgDeleteFailed  = "Failed to delete feedback"
	deletePromptFmt  = "Are you sure you want to delete feedback from %s?"
	deleteSuccessFmt = "Feedback from %s deleted successfully!"
)

var (
	// ErrUnknownEntry is returned for ids that are not in the loaded list.
	ErrUnknownEntry = errors.New("feedback entry is not loaded")
	// ErrNotEditing is returned by SaveEdit when no edit is in progress.
	ErrNotEditing = errors.New("no feedback entry is being edited")
	// ErrInvalidDraft is returned by SaveEdit when a draft field is blank.
	ErrInvalidDraft = errors.New("name and message are required")
)

// ManageClient is the part of the API client the management list needs.
type ManageClient interface {
	Lister
	UpdateFeedback(ctx context.Context, req types.FeedbackUpdate) (*types.Feedback, error)
	DeleteFeedback(ctx context.Context, id string) (*types.Feedback, error)
}

// Draft holds the editable fields of an entry or of the submission form.
type Draft struct {
	Name    string
	Message string
}

func (d Draft) trimmed() Draft {
	return Draft{Name: strings.TrimSpace(d.Name), Message: strings.TrimSpace(d.Message)}
}

func (d Draft) valid() bool {
	t := d.trimmed()
	return t.Name != "" && t.Message != ""
}

// ManageView lists every entry and lets the user edit one entry at a time or
// delete entries after confirmation. Server responses are merged into the
// local list by id whenever they arrive.
type ManageView struct {
	client    ManageClient
	notifier  Notifier
	confirmer Confirmer

	mu        sync.RWMutex
	entries   []types.Feedback
	loading   bool
	editingID string
	draft     Draft
}

func NewManageView(client ManageClient, notifier Notifier, confirmer Confirmer) *ManageView {
	return &ManageView{
		client:    client,
		notifier:  notifier,
		confirmer: confirmer,
		entries:   []types.Feedback{},
		loading:   true,
	}
}

func (v *ManageView) Load(ctx context.Context) error {
	entries, err := v.client.ListFeedback(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if err != nil {
		failure(v.notifier, msgLoadFailed)
		return err
	}
	v.entries = slices.Clone(entries)
	return nil
}

// Loading reports whether the initial load has not finished yet.
func (v *ManageView) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loading
}

func (v *ManageView) Entries() []types.Feedback {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.entries)
}

func (v *ManageView) CountLabel() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return CountLabel(len(v.entries))
}

// Delete asks for confirmation and removes the entry. It returns false when
// the user declined.
func (v *ManageView) Delete(ctx context.Context, id string) (bool, error) {
	v.mu.RLock()
	i := indexByID(v.entries, id)
	var name string
	if i >= 0 {
		name = v.entries[i].Name
	}
	v.mu.RUnlock()
	if i < 0 {
		return false, ErrUnknownEntry
	}

	if !v.confirmer.Confirm(fmt.Sprintf(deletePromptFmt, name)) {
		return false, nil
	}

	if _, err := v.client.DeleteFeedback(ctx, id); err != nil {
		failure(v.notifier, msgDeleteFailed)
		return false, err
	}

	v.mu.Lock()
	v.entries = slices.DeleteFunc(v.entries, func(e types.Feedback) bool { return e.ID == id })
	if v.editingID == id {
		v.editingID = ""
		v.draft = Draft{}
	}
	v.mu.Unlock()

	success(v.notifier, fmt.Sprintf(deleteSuccessFmt, name))
	return true, nil
}

// BeginEdit seeds the draft from the entry. Any previous draft is discarded.
func (v *ManageView) BeginEdit(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := indexByID(v.entries, id)
	if i < 0 {
		return ErrUnknownEntry
	}
	v.editingID = id
	v.draft = Draft{Name: v.entries[i].Name, Message: v.entries[i].Message}
	return nil
}

// Editing returns the id and draft of the entry being edited.
func (v *ManageView) Editing() (string, Draft, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.editingID, v.draft, v.editingID != ""
}

func (v *ManageView) SetDraftName(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.editingID != "" {
		v.draft.Name = name
	}
}

func (v *ManageView) SetDraftMessage(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.editingID != "" {
		v.draft.Message = message
	}
}

// SaveEdit sends the draft together with the entry's known version. On
// failure the draft stays so the user can retry.
func (v *ManageView) SaveEdit(ctx context.Context) error {
	v.mu.RLock()
	id, draft := v.editingID, v.draft
	var version *int64
	if i := indexByID(v.entries, id); i >= 0 && v.entries[i].Version > 0 {
		known := v.entries[i].Version
		version = &known
	}
	v.mu.RUnlock()

	if id == "" {
		return ErrNotEditing
	}
	if !draft.valid() {
		failure(v.notifier, msgFillAllFields)
		return ErrInvalidDraft
	}

	t := draft.trimmed()
	updated, err := v.client.UpdateFeedback(ctx, types.FeedbackUpdate{
		ID:      id,
		Name:    t.Name,
		Message: t.Message,
		Version: version,
	})
	if apiErr, ok := feedbackclient.AsAPIError(err); ok && apiErr.IsConflict() {
		failure(v.notifier, msgEditConflict)
		v.reloadAfterConflict(ctx)
		return err
	}
	if err != nil {
		failure(v.notifier, msgUpdateFailed)
		return err
	}

	v.mu.Lock()
	if i := indexByID(v.entries, id); i >= 0 {
		v.entries[i] = mergeFeedback(v.entries[i], *updated)
	}
	if v.editingID == id {
		v.editingID = ""
		v.draft = Draft{}
	}
	v.mu.Unlock()

	success(v.notifier, msgUpdated)
	return nil
}

// reloadAfterConflict refreshes the snapshot so the next SaveEdit sends the
// current version. The draft is kept.
func (v *ManageView) reloadAfterConflict(ctx context.Context) {
	entries, err := v.client.ListFeedback(ctx)
	if err != nil {
		return
	}
	v.mu.Lock()
	v.entries = slices.Clone(entries)
	v.mu.Unlock()
}

// CancelEdit leaves edit mode without contacting the server.
func (v *ManageView) CancelEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.editingID = ""
	v.draft = Draft{}
}

// mergeFeedback overlays the non-zero fields of the server copy onto local.
func mergeFeedback(local, server types.Feedback) types.Feedback {
	if server.Name != "" {
		local.Name = server.Name
	}
	if server.Message != "" {
		local.Message = server.Message
	}
	if !server.CreatedAt.IsZero() {
		local.CreatedAt = server.CreatedAt
	}
	if !server.UpdatedAt.IsZero() {
		local.UpdatedAt = server.UpdatedAt
	}
	if server.Version != 0 {
		local.Version = server.Version
	}
	return local
}
