package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/suykerbuyk/logvault/internal/config"
	"github.com/suykerbuyk/logvault/internal/scaffold"
)

func cmdInit(a *app) *cli.Command {
	var gitInit bool
	var noConfig bool

	return &cli.Command{
		Name:      "init",
		Usage:     "create the root layout and a default config",
		ArgsUsage: "[root]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "git",
				Usage:       "run git init in the root",
				Destination: &gitInit,
			},
			&cli.BoolFlag{
				Name:        "no-config",
				Usage:       "do not write config.toml",
				Destination: &noConfig,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			root := a.cfg.RootPath
			if arg := c.Args().First(); arg != "" {
				root = config.ExpandHome(arg)
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return err
			}

			created, err := scaffold.Init(root, scaffold.Options{GitInit: gitInit})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "root: %s\n", root)
			for _, rel := range created {
				fmt.Fprintf(a.stdout, "  created %s\n", rel)
			}

			if noConfig {
				return nil
			}
			path, action, err := config.WriteDefault(root)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "config: %s %s\n", action, config.CompressHome(path))
			return nil
		},
	}
}
