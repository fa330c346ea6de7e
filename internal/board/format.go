package board

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/NomadCrew/feedback-board/types"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	previewSize   = 3
	previewLength = 120
)

// Truncate shortens message to previewLength runes and appends "..." when
// anything was cut.
func Truncate(message string) string {
	if utf8.RuneCountInString(message) <= previewLength {
		return message
	}
	return string([]rune(message)[:previewLength]) + "..."
}

// Initial is the upper-cased first letter of name, used as the avatar.
func Initial(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// CountLabel renders "1 submission" or "N submissions".
func CountLabel(n int) string {
	if n == 1 {
		return "1 submission"
	}
	return fmt.Sprintf("%d submissions", n)
}

// compareNames orders author names the way a reader expects, not by byte value.
func compareNames() func(a, b string) int {
	c := collate.New(language.Und)
	return c.CompareString
}

func distinctNames(entries []types.Feedback) []string {
	seen := make(map[string]struct{}, len(entries))
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Name]; ok {
			continue
		}
		seen[e.Name] = struct{}{}
		names = append(names, e.Name)
	}
	slices.SortStableFunc(names, compareNames())
	return names
}

func matchesSearch(e types.Feedback, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Name), needle) ||
		strings.Contains(strings.ToLower(e.Message), needle)
}

func indexByID(entries []types.Feedback, id string) int {
	return slices.IndexFunc(entries, func(e types.Feedback) bool { return e.ID == id })
}
