package command

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/NomadCrew/feedback-board/internal/board"
	"github.com/NomadCrew/feedback-board/pkg/feedbackclient"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
)

const (
	paramDebug  = "debug"
	paramConfig = "config"
	paramServer = "server"
	paramOutput = "output"
)

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    paramConfig,
			Aliases: []string{"c"},
			EnvVars: []string{"FEEDBACKCTL_CONFIG"},
			Usage:   "YAML file providing default flag values",
		},
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    paramServer,
			Aliases: []string{"s"},
			Value:   "http://localhost:8080",
			EnvVars: []string{"FEEDBACKCTL_SERVER"},
			Usage:   "Feedback board base url",
		}),
		altsrc.NewStringFlag(&cli.StringFlag{
			Name:    paramOutput,
			Aliases: []string{"o"},
			Value:   string(formatTable),
			Usage:   "Output format (table, json, yaml)",
		}),
	}
}

// WithCommonFlags prepends the server, config and output flags.
func WithCommonFlags(flags ...cli.Flag) []cli.Flag {
	return append(commonFlags(), flags...)
}

// loadConfigFile fills flags not given on the command line from the --config
// YAML file, when one is set.
func loadConfigFile(flags []cli.Flag) cli.BeforeFunc {
	return altsrc.InitInputSourceWithContext(flags, altsrc.NewYamlSourceFromFlagFunc(paramConfig))
}

func getClient(ctx *cli.Context) (*feedbackclient.Client, error) {
	serverURL, err := url.Parse(ctx.String(paramServer))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if serverURL.Scheme == "" || serverURL.Host == "" {
		return nil, errors.Errorf("invalid server url %q", ctx.String(paramServer))
	}
	return feedbackclient.New(feedbackclient.WithBaseURL(serverURL)), nil
}

// notifierFor keeps machine-readable output clean: with json or yaml output,
// notifications become log entries instead of terminal lines.
func notifierFor(ctx *cli.Context) board.Notifier {
	switch outputFormat(ctx.String(paramOutput)) {
	case formatJSON, formatYAML:
		return board.NewLogNotifier(nil)
	default:
		return terminalNotifier{w: ctx.App.ErrWriter}
	}
}

// terminalNotifier prints notifications the way the web pages show toasts.
type terminalNotifier struct {
	w io.Writer
}

func (n terminalNotifier) Notify(notification board.Notification) {
	prefix := "ok"
	if notification.Kind == board.NotificationError {
		prefix = "!!"
	}
	fmt.Fprintf(n.w, "%s %s\n", prefix, notification.Message)
}

// promptConfirmer asks on the terminal unless assumeYes is set.
type promptConfirmer struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func (c promptConfirmer) Confirm(prompt string) bool {
	if c.assumeYes {
		return true
	}
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	answer, err := c.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
