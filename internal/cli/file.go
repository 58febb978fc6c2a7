package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/suykerbuyk/logvault/internal/pipeline"
)

func cmdFile(a *app) *cli.Command {
	var text string

	return &cli.Command{
		Name:      "file",
		Usage:     "classify one log and write it under the root",
		ArgsUsage: "[path|-]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "text",
				Aliases:     []string{"t"},
				Usage:       "log text to file instead of a path or stdin",
				Destination: &text,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			input, err := a.readInput(c.Args().First(), text, c.IsSet("text"))
			if err != nil {
				return err
			}

			// Empty input is reported before a missing credential.
			g, genErr := a.generator(ctx)
			out, id, err := a.run(ctx, g, input)
			if errors.Is(err, pipeline.ErrNoGenerator) && genErr != nil {
				return genErr
			}
			if err != nil {
				return err
			}

			a.report(out, id)
			return nil
		},
	}
}

func (a *app) readInput(arg, text string, textSet bool) (string, error) {
	if textSet {
		return text, nil
	}

	if arg == "" || arg == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", goerr.Wrap(err, "read stdin")
		}
		return string(data), nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return "", goerr.Wrap(err, "read log file", goerr.V("path", arg))
	}
	return string(data), nil
}
