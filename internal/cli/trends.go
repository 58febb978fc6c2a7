package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/suykerbuyk/logvault/internal/index"
	"github.com/suykerbuyk/logvault/internal/trends"
)

func cmdTrends(a *app) *cli.Command {
	var (
		project string
		weeks   int
	)

	return &cli.Command{
		Name:  "trends",
		Usage: "show weekly log volume, fallback rate and tagging",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "project",
				Aliases:     []string{"p"},
				Usage:       "only count logs of this project",
				Destination: &project,
			},
			&cli.IntFlag{
				Name:        "weeks",
				Aliases:     []string{"w"},
				Usage:       "number of weeks to display",
				Value:       12,
				Destination: &weeks,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			idx, err := index.Load(a.cfg.StateDir())
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, trends.Format(trends.Compute(idx.Entries, project, weeks)))
			return nil
		},
	}
}
