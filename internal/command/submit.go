package command

import (
	"time"

	"github.com/NomadCrew/feedback-board/internal/board"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// SubmitCommand sends a new entry through the submission form.
func SubmitCommand() *cli.Command {
	flags := WithCommonFlags(
		&cli.StringFlag{Name: flagName, Aliases: []string{"n"}, Required: true, Usage: "Author name"},
		&cli.StringFlag{Name: flagMessage, Aliases: []string{"m"}, Required: true, Usage: "Feedback message"},
		&cli.DurationFlag{
			Name:  "redirect-delay",
			Value: 0,
			Usage: "How long to wait before showing the full list afterwards",
		},
		&cli.BoolFlag{Name: "show-all", Usage: "Print every entry after submitting"},
	)
	return &cli.Command{
		Name:   "submit",
		Usage:  "Submit new feedback",
		Flags:  flags,
		Before: loadConfigFile(flags),
		Action: func(ctx *cli.Context) error {
			client, err := getClient(ctx)
			if err != nil {
				return err
			}

			navigated := make(chan string, 1)
			form := board.NewSubmitForm(client,
				notifierFor(ctx),
				board.NavigatorFunc(func(route string) { navigated <- route }),
				board.WithRedirectDelay(ctx.Duration("redirect-delay")),
			)
			form.SetName(ctx.String(flagName))
			form.SetMessage(ctx.String(flagMessage))

			if !form.CanSubmit() {
				return errors.New("name and message must not be blank")
			}
			if err := form.Submit(ctx.Context); err != nil {
				return errors.WithStack(err)
			}

			if !ctx.Bool("show-all") {
				return nil
			}

			select {
			case route := <-navigated:
				if route != board.RouteManage {
					return nil
				}
			case <-time.After(ctx.Duration("redirect-delay") + 5*time.Second):
				return nil
			case <-ctx.Context.Done():
				return ctx.Context.Err()
			}

			return AllCommand().Action(ctx)
		},
	}
}
