package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/suykerbuyk/logvault/internal/check"
)

func cmdCheck(a *app) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "report configuration and root health",
		Action: func(ctx context.Context, c *cli.Command) error {
			report := check.Run(a.cfg, a.cfgPath)
			fmt.Fprint(a.stdout, report.Format())
			if report.HasFailures() {
				return goerr.New("check found failures")
			}
			return nil
		},
	}
}
