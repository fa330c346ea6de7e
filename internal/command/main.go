// Package command implements the feedbackctl terminal client.
package command

import (
	"fmt"
	"os"
	"sort"

	"github.com/NomadCrew/feedback-board/logger"
	"github.com/urfave/cli/v2"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

func Main(name string, usage string, commands ...*cli.Command) {
	app := NewApp(name, usage, commands...)
	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

// NewApp builds the cli.App so tests can run commands against custom
// writers and arguments.
func NewApp(name string, usage string, commands ...*cli.Command) *cli.App {
	app := &cli.App{
		Name:     name,
		Usage:    usage,
		Commands: commands,
		Version:  Version,
		Before: func(ctx *cli.Context) error {
			if ctx.Bool(paramDebug) {
				if err := os.Setenv("LOG_LEVEL", "debug"); err != nil {
					return err
				}
			} else if os.Getenv("LOG_LEVEL") == "" {
				if err := os.Setenv("LOG_LEVEL", "warn"); err != nil {
					return err
				}
			}
			logger.InitLogger()
			return nil
		},
		After: func(*cli.Context) error {
			_ = logger.Close()
			return nil
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    paramDebug,
				Value:   false,
				EnvVars: []string{"FEEDBACKCTL_DEBUG"},
				Usage:   "Toggle debug logging",
			},
		},
	}

	app.ExitErrHandler = func(ctx *cli.Context, err error) {
		if err == nil {
			return
		}
		if ctx.Bool(paramDebug) {
			fmt.Fprintf(ctx.App.ErrWriter, "error: %+v\n", err)
			return
		}
		fmt.Fprintf(ctx.App.ErrWriter, "error: %s\n", err)
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))

	return app
}
