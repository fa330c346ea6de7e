package command

import (
	"bufio"
	"os"

	"github.com/NomadCrew/feedback-board/internal/board"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	flagID      = "id"
	flagName    = "name"
	flagMessage = "message"
	flagYes     = "yes"
)

// stdin is swapped in tests.
var stdin = bufio.NewReader(os.Stdin)

func loadManageView(ctx *cli.Context, assumeYes bool) (*board.ManageView, error) {
	client, err := getClient(ctx)
	if err != nil {
		return nil, err
	}
	view := board.NewManageView(client,
		notifierFor(ctx),
		promptConfirmer{in: stdin, out: ctx.App.ErrWriter, assumeYes: assumeYes},
	)
	if err := view.Load(ctx.Context); err != nil {
		return nil, errors.Wrap(err, "could not load feedback")
	}
	return view, nil
}

// AllCommand prints every entry with its version, like the management page.
func AllCommand() *cli.Command {
	flags := WithCommonFlags()
	return &cli.Command{
		Name:   "all",
		Usage:  "Show every feedback entry",
		Flags:  flags,
		Before: loadConfigFile(flags),
		Action: func(ctx *cli.Context) error {
			format, err := parseFormat(ctx.String(paramOutput))
			if err != nil {
				return err
			}
			view, err := loadManageView(ctx, false)
			if err != nil {
				return err
			}

			l := listing{Count: view.CountLabel(), Entries: []entryView{}}
			for _, fb := range view.Entries() {
				l.Entries = append(l.Entries, fromFeedback(fb))
			}
			return writeListing(ctx.App.Writer, format, l, "No feedback yet.")
		},
	}
}

// EditCommand changes the name and/or message of one entry. Fields that are
// not given keep their current value.
func EditCommand() *cli.Command {
	flags := WithCommonFlags(
		&cli.StringFlag{Name: flagID, Required: true, Usage: "Entry id"},
		&cli.StringFlag{Name: flagName, Aliases: []string{"n"}, Usage: "New author name"},
		&cli.StringFlag{Name: flagMessage, Aliases: []string{"m"}, Usage: "New message"},
	)
	return &cli.Command{
		Name:   "edit",
		Usage:  "Edit a feedback entry",
		Flags:  flags,
		Before: loadConfigFile(flags),
		Action: func(ctx *cli.Context) error {
			format, err := parseFormat(ctx.String(paramOutput))
			if err != nil {
				return err
			}
			view, err := loadManageView(ctx, false)
			if err != nil {
				return err
			}

			id := ctx.String(flagID)
			if err := view.BeginEdit(id); err != nil {
				return errors.Wrapf(err, "entry %s", id)
			}
			if ctx.IsSet(flagName) {
				view.SetDraftName(ctx.String(flagName))
			}
			if ctx.IsSet(flagMessage) {
				view.SetDraftMessage(ctx.String(flagMessage))
			}
			if err := view.SaveEdit(ctx.Context); err != nil {
				return errors.WithStack(err)
			}

			for _, fb := range view.Entries() {
				if fb.ID == id {
					return writeEntry(ctx.App.Writer, format, fb)
				}
			}
			return nil
		},
	}
}

// DeleteCommand removes one entry after confirmation.
func DeleteCommand() *cli.Command {
	flags := WithCommonFlags(
		&cli.StringFlag{Name: flagID, Required: true, Usage: "Entry id"},
		&cli.BoolFlag{Name: flagYes, Aliases: []string{"y"}, Usage: "Do not ask for confirmation"},
	)
	return &cli.Command{
		Name:   "delete",
		Usage:  "Delete a feedback entry",
		Flags:  flags,
		Before: loadConfigFile(flags),
		Action: func(ctx *cli.Context) error {
			view, err := loadManageView(ctx, ctx.Bool(flagYes))
			if err != nil {
				return err
			}

			id := ctx.String(flagID)
			deleted, err := view.Delete(ctx.Context, id)
			if err != nil {
				return errors.Wrapf(err, "entry %s", id)
			}
			if !deleted {
				_, err := ctx.App.ErrWriter.Write([]byte("Cancelled.\n"))
				return errors.WithStack(err)
			}
			return nil
		},
	}
}
