package command

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/NomadCrew/feedback-board/internal/board"
	"github.com/NomadCrew/feedback-board/types"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(s); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	default:
		return "", errors.Errorf("unknown output format %q", s)
	}
}

// entryView is the serialised shape of an entry for json and yaml output.
type entryView struct {
	ID        string `json:"id" yaml:"id"`
	Initial   string `json:"initial,omitempty" yaml:"initial,omitempty"`
	Name      string `json:"name" yaml:"name"`
	Message   string `json:"message" yaml:"message"`
	CreatedAt string `json:"createdAt" yaml:"createdAt"`
	Version   int64  `json:"version,omitempty" yaml:"version,omitempty"`
}

func fromFeedback(fb types.Feedback) entryView {
	return entryView{
		ID:        fb.ID,
		Name:      fb.Name,
		Message:   fb.Message,
		CreatedAt: fb.CreatedAt.Format(time.RFC3339),
		Version:   fb.Version,
	}
}

func fromPreview(p board.PreviewEntry) entryView {
	return entryView{
		ID:        p.ID,
		Initial:   p.Initial,
		Name:      p.Name,
		Message:   p.Message,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

type listing struct {
	Count   string      `json:"count" yaml:"count"`
	Entries []entryView `json:"entries" yaml:"entries"`
}

func writeListing(w io.Writer, format outputFormat, l listing, emptyText string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.WithStack(enc.Encode(l))
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return errors.WithStack(err)
		}
		return errors.WithStack(enc.Close())
	}

	fmt.Fprintln(w, l.Count)
	if len(l.Entries) == 0 {
		fmt.Fprintln(w, emptyText)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCREATED\tVERSION\tMESSAGE")
	for _, e := range l.Entries {
		version := "-"
		if e.Version > 0 {
			version = fmt.Sprint(e.Version)
		}
		name := e.Name
		if e.Initial != "" {
			name = fmt.Sprintf("(%s) %s", e.Initial, e.Name)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, name, e.CreatedAt, version, e.Message)
	}
	return errors.WithStack(tw.Flush())
}

func writeEntry(w io.Writer, format outputFormat, fb types.Feedback) error {
	return writeListing(w, format, listing{Count: board.CountLabel(1), Entries: []entryView{fromFeedback(fb)}}, "")
}
