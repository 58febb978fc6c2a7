package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/suykerbuyk/logvault/internal/classify"
	"github.com/suykerbuyk/logvault/internal/config"
	"github.com/suykerbuyk/logvault/internal/logging"
	"github.com/suykerbuyk/logvault/internal/pipeline"
	"github.com/suykerbuyk/logvault/internal/watch"
)

func cmdWatch(a *app) *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "file every log dropped into an inbox directory",
		ArgsUsage: "<inbox>",
		Action: func(ctx context.Context, c *cli.Command) error {
			dir := c.Args().First()
			if dir == "" {
				return goerr.New("usage: lv watch <inbox>")
			}

			g, err := a.generator(ctx)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := &watch.Watcher{
				Dir:    config.ExpandHome(dir),
				Settle: a.cfg.Watch.Settle(),
				Handle: func(ctx context.Context, path string) error {
					return a.fileInbox(ctx, g, path)
				},
			}
			return w.Run(ctx)
		},
	}
}

func (a *app) fileInbox(ctx context.Context, g classify.Generator, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return goerr.Wrap(err, "read inbox file", goerr.V("path", path))
	}

	out, id, err := a.run(ctx, g, string(data))
	if errors.Is(err, pipeline.ErrEmptyInput) {
		logging.From(ctx).Debug("skip empty inbox file", "path", path)
		return err
	}
	if err != nil {
		return err
	}

	a.report(out, id)
	return nil
}
