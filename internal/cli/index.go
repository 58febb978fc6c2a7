package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/suykerbuyk/logvault/internal/index"
)

func cmdIndex(a *app) *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "maintain and show the index of filed logs",
		Commands: []*cli.Command{
			cmdIndexRebuild(a),
			cmdIndexList(a),
			cmdIndexRelated(a),
		},
	}
}

func cmdIndexRebuild(a *app) *cli.Command {
	return &cli.Command{
		Name:  "rebuild",
		Usage: "rescan the root and rewrite the index",
		Action: func(ctx context.Context, c *cli.Command) error {
			idx, count, err := index.Rebuild(a.cfg.RootPath, a.cfg.StateDir())
			if err != nil {
				return err
			}
			if err := idx.Save(); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "rebuilt index: %d logs (%s)\n", count, idx.Path())
			return nil
		},
	}
}

func cmdIndexList(a *app) *cli.Command {
	var project string

	return &cli.Command{
		Name:  "list",
		Usage: "list filed logs, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "project",
				Aliases:     []string{"p"},
				Usage:       "only list logs of this project",
				Destination: &project,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			idx, err := index.Load(a.cfg.StateDir())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, e := range idx.Sorted() {
				if project != "" && !strings.EqualFold(e.Project, project) {
					continue
				}
				kind := e.Category
				if e.Fallback {
					kind = color.YellowString("fallback")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.CreatedAt.Format("2006-01-02 15:04"), e.Project, kind, e.Title, e.ID)
			}
			return tw.Flush()
		},
	}
}

func cmdIndexRelated(a *app) *cli.Command {
	return &cli.Command{
		Name:      "related",
		Usage:     "show logs related to one entry",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			if id == "" {
				return goerr.New("usage: lv index related <id>")
			}

			idx, err := index.Load(a.cfg.StateDir())
			if err != nil {
				return err
			}
			if _, ok := idx.Get(id); !ok {
				return goerr.New("no such index entry", goerr.V("id", id))
			}

			for _, r := range idx.Related(id) {
				fmt.Fprintf(a.stdout, "%3d  %s  %s\n", r.Score, r.Entry.Path, r.Entry.ID)
			}
			return nil
		},
	}
}
