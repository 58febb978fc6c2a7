package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/suykerbuyk/logvault/internal/index"
	"github.com/suykerbuyk/logvault/internal/stats"
)

func cmdStats(a *app) *cli.Command {
	var project string

	return &cli.Command{
		Name:  "stats",
		Usage: "summarize filed logs by project, category, tag and month",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "project",
				Aliases:     []string{"p"},
				Usage:       "only count logs of this project",
				Destination: &project,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			idx, err := index.Load(a.cfg.StateDir())
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, stats.Format(stats.Compute(idx.Entries, project), project))
			return nil
		},
	}
}
