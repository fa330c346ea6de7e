package board

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/NomadCrew/feedback-board/types"
)

// SortOption selects the order of the overview.
type SortOption string

const (
	SortNewest SortOption = "newest"
	SortOldest SortOption = "oldest"
	SortUserAZ SortOption = "user-az"
	SortUserZA SortOption = "user-za"
)

// SortOptions lists the accepted options in display order.
var SortOptions = []SortOption{SortNewest, SortOldest, SortUserAZ, SortUserZA}

// ParseSortOption validates a user supplied sort option.
func ParseSortOption(s string) (SortOption, error) {
	opt := SortOption(s)
	if !slices.Contains(SortOptions, opt) {
		return "", fmt.Errorf("unknown sort option %q", s)
	}
	return opt, nil
}

const msgLoadFailed = "Failed to load feedback"

// Lister is the part of the API client the overview needs.
type Lister interface {
	ListFeedback(ctx context.Context) ([]types.Feedback, error)
}

// PreviewEntry is one card of the overview.
type PreviewEntry struct {
	ID        string
	Name      string
	Initial   string
	Message   string
	CreatedAt time.Time
}

// ListView is the searchable, sortable overview. The loaded snapshot is never
// modified; every setter recomputes the filtered result from it.
type ListView struct {
	client   Lister
	notifier Notifier

	mu         sync.RWMutex
	snapshot   []types.Feedback
	search     string
	userFilter string
	sort       SortOption
	filtered   []types.Feedback
}

func NewListView(client Lister, notifier Notifier) *ListView {
	return &ListView{
		client:   client,
		notifier: notifier,
		sort:     SortNewest,
		snapshot: []types.Feedback{},
		filtered: []types.Feedback{},
	}
}

// Load fetches every entry once. On failure the snapshot is left empty.
func (v *ListView) Load(ctx context.Context) error {
	entries, err := v.client.ListFeedback(ctx)
	if err != nil {
		failure(v.notifier, msgLoadFailed)
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.snapshot = slices.Clone(entries)
	v.recompute()
	return nil
}

func (v *ListView) SetSearch(search string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.search = search
	v.recompute()
}

// SetUserFilter restricts the result to one author. An empty name shows everyone.
func (v *ListView) SetUserFilter(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.userFilter = name
	v.recompute()
}

func (v *ListView) SetSort(opt SortOption) error {
	if _, err := ParseSortOption(string(opt)); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sort = opt
	v.recompute()
	return nil
}

func (v *ListView) Sort() SortOption {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.sort
}

// Filtered returns a copy of the current filtered and sorted result.
func (v *ListView) Filtered() []types.Feedback {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.filtered)
}

// Preview returns the first cards of the filtered result with shortened messages.
func (v *ListView) Preview() []PreviewEntry {
	v.mu.RLock()
	defer v.mu.RUnlock()

	n := min(previewSize, len(v.filtered))
	out := make([]PreviewEntry, 0, n)
	for _, e := range v.filtered[:n] {
		out = append(out, PreviewEntry{
			ID:        e.ID,
			Name:      e.Name,
			Initial:   Initial(e.Name),
			Message:   Truncate(e.Message),
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

// UserNames returns the distinct authors of the snapshot for the user filter.
func (v *ListView) UserNames() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return distinctNames(v.snapshot)
}

func (v *ListView) Empty() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.filtered) == 0
}

func (v *ListView) CountLabel() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return CountLabel(len(v.filtered))
}

// recompute must be called with mu held for writing.
func (v *ListView) recompute() {
	needle := strings.ToLower(v.search)
	result := make([]types.Feedback, 0, len(v.snapshot))
	for _, e := range v.snapshot {
		if !matchesSearch(e, needle) {
			continue
		}
		if v.userFilter != "" && e.Name != v.userFilter {
			continue
		}
		result = append(result, e)
	}

	switch v.sort {
	case SortOldest:
		slices.SortStableFunc(result, func(a, b types.Feedback) int { return a.CreatedAt.Compare(b.CreatedAt) })
	case SortUserAZ:
		cmp := compareNames()
		slices.SortStableFunc(result, func(a, b types.Feedback) int { return cmp(a.Name, b.Name) })
	case SortUserZA:
		cmp := compareNames()
		slices.SortStableFunc(result, func(a, b types.Feedback) int { return cmp(b.Name, a.Name) })
	default:
		slices.SortStableFunc(result, func(a, b types.Feedback) int { return b.CreatedAt.Compare(a.CreatedAt) })
	}

	v.filtered = result
}
