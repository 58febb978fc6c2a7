package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func cmdVersion(a *app, version string) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the version",
		Action: func(ctx context.Context, c *cli.Command) error {
			fmt.Fprintf(a.stdout, "lv %s (logvault)\n", version)
			return nil
		},
	}
}
