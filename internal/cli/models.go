package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/suykerbuyk/logvault/internal/classify"
	"github.com/suykerbuyk/logvault/internal/logging"
)

func cmdModels(a *app) *cli.Command {
	var configOnly bool

	return &cli.Command{
		Name:  "models",
		Usage: "list classification models (the selected one is marked)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "config-only",
				Usage:       "list classifier.models without querying the API",
				Destination: &configOnly,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			models := a.cfg.Classifier.Models
			if !configOnly {
				if listed := a.listModels(ctx); len(listed) > 0 {
					models = listed
				}
			}

			for _, m := range models {
				marker := "  "
				if m == a.cfg.Classifier.Model {
					marker = "* "
				}
				fmt.Fprintln(a.stdout, marker+m)
			}
			return nil
		},
	}
}

// listModels asks the Gemini API which models can generate content. It
// returns nil for other providers or when the call fails.
func (a *app) listModels(ctx context.Context) []string {
	cc := a.cfg.Classifier
	provider := strings.ToLower(strings.TrimSpace(cc.Provider))
	if provider != "" && provider != "gemini" {
		return nil
	}

	key := cc.APIKey()
	if key == "" {
		return nil
	}

	logger := logging.From(ctx)
	g, err := classify.NewGemini(ctx, key, cc.Model, cc.BaseURL)
	if err != nil {
		logger.Warn("create Gemini client", "error", err.Error())
		return nil
	}

	models, err := g.Models(ctx)
	if err != nil {
		logger.Warn("list models, using configured list", "error", err.Error())
		return nil
	}
	return models
}
