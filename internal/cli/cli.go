// Package cli wires the lv commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/suykerbuyk/logvault/internal/logging"
)

// Run executes the lv command line.
func Run(ctx context.Context, args []string, version string) error {
	cmd := Root(version)
	if err := cmd.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run lv", "error", err)
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("lv:"), err)
		return err
	}
	return nil
}

// Root returns the lv command tree bound to the process streams.
func Root(version string) *cli.Command {
	return newCommand(version, os.Stdin, os.Stdout, os.Stderr)
}

func newCommand(version string, stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	var flags globalFlags

	return &cli.Command{
		Name:      "lv",
		Usage:     "file pasted logs into a project-organized Markdown archive",
		Version:   version,
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     flags.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := a.load(flags); err != nil {
				return ctx, err
			}
			logging.Default().Debug("starting lv",
				"root", a.cfg.RootPath,
				"provider", a.cfg.Classifier.Provider,
				"model", a.cfg.Classifier.Model,
			)
			return logging.With(ctx, logging.Default()), nil
		},
		Commands: []*cli.Command{
			cmdFile(a),
			cmdWatch(a),
			cmdModels(a),
			cmdIndex(a),
			cmdRaw(a),
			cmdStats(a),
			cmdTrends(a),
			cmdCheck(a),
			cmdInit(a),
			cmdVersion(a, version),
		},
	}
}
