package command

import (
	"github.com/NomadCrew/feedback-board/internal/board"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const (
	flagSearch  = "search"
	flagUser    = "user"
	flagSort    = "sort"
	flagPreview = "preview"
)

// ListCommand shows the searchable overview.
func ListCommand() *cli.Command {
	flags := WithCommonFlags(
		&cli.StringFlag{
			Name:    flagSearch,
			Aliases: []string{"q"},
			Usage:   "Only entries whose name or message contains this text (case-insensitive)",
		},
		&cli.StringFlag{
			Name:    flagUser,
			Aliases: []string{"u"},
			Usage:   "Only entries from this exact author",
		},
		&cli.StringFlag{
			Name:  flagSort,
			Value: string(board.SortNewest),
			Usage: "Order: newest, oldest, user-az, user-za",
		},
		&cli.BoolFlag{
			Name:  flagPreview,
			Usage: "Show only the first three entries with shortened messages",
		},
	)

	return &cli.Command{
		Name:   "list",
		Usage:  "Search, filter and sort feedback",
		Flags:  flags,
		Before: loadConfigFile(flags),
		Action: func(ctx *cli.Context) error {
			format, err := parseFormat(ctx.String(paramOutput))
			if err != nil {
				return err
			}
			sortOpt, err := board.ParseSortOption(ctx.String(flagSort))
			if err != nil {
				return errors.WithStack(err)
			}

			client, err := getClient(ctx)
			if err != nil {
				return err
			}

			view := board.NewListView(client, notifierFor(ctx))
			if err := view.Load(ctx.Context); err != nil {
				return errors.Wrap(err, "could not load feedback")
			}
			view.SetSearch(ctx.String(flagSearch))
			view.SetUserFilter(ctx.String(flagUser))
			if err := view.SetSort(sortOpt); err != nil {
				return errors.WithStack(err)
			}

			l := listing{Count: view.CountLabel()}
			if ctx.Bool(flagPreview) {
				for _, p := range view.Preview() {
					l.Entries = append(l.Entries, fromPreview(p))
				}
			} else {
				for _, fb := range view.Filtered() {
					l.Entries = append(l.Entries, fromFeedback(fb))
				}
			}
			if l.Entries == nil {
				l.Entries = []entryView{}
			}

			return writeListing(ctx.App.Writer, format, l, "No feedback matches your search.")
		},
	}
}

// UsersCommand prints the distinct authors available for --user.
func UsersCommand() *cli.Command {
	flags := WithCommonFlags()
	return &cli.Command{
		Name:   "users",
		Usage:  "List the authors that have submitted feedback",
		Flags:  flags,
		Before: loadConfigFile(flags),
		Action: func(ctx *cli.Context) error {
			client, err := getClient(ctx)
			if err != nil {
				return err
			}
			view := board.NewListView(client, notifierFor(ctx))
			if err := view.Load(ctx.Context); err != nil {
				return errors.Wrap(err, "could not load feedback")
			}
			for _, name := range view.UserNames() {
				if _, err := ctx.App.Writer.Write([]byte(name + "\n")); err != nil {
					return errors.WithStack(err)
				}
			}
			return nil
		},
	}
}
