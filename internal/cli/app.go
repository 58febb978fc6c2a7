package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/suykerbuyk/logvault/internal/classify"
	"github.com/suykerbuyk/logvault/internal/config"
	"github.com/suykerbuyk/logvault/internal/logging"
	"github.com/suykerbuyk/logvault/internal/pipeline"
)

type globalFlags struct {
	root      string
	model     string
	provider  string
	logLevel  string
	logFormat string
	noColor   bool
}

func (g *globalFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "root",
			Aliases:     []string{"r"},
			Usage:       "directory logs are filed under (overrides root_path)",
			Sources:     cli.EnvVars("LOGVAULT_ROOT"),
			Destination: &g.root,
		},
		&cli.StringFlag{
			Name:        "model",
			Aliases:     []string{"m"},
			Usage:       "classification model",
			Sources:     cli.EnvVars("LOGVAULT_MODEL"),
			Destination: &g.model,
		},
		&cli.StringFlag{
			Name:        "provider",
			Usage:       "classifier backend: gemini, vertex or openai",
			Sources:     cli.EnvVars("LOGVAULT_PROVIDER"),
			Destination: &g.provider,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "debug, info, warn or error",
			Sources:     cli.EnvVars("LOGVAULT_LOG_LEVEL"),
			Destination: &g.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "console or json",
			Sources:     cli.EnvVars("LOGVAULT_LOG_FORMAT"),
			Destination: &g.logFormat,
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "disable colored output",
			Sources:     cli.EnvVars("LOGVAULT_NO_COLOR"),
			Destination: &g.noColor,
		},
	}
}

// app carries the loaded configuration and IO streams shared by commands.
type app struct {
	cfg     config.Config
	cfgPath string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (a *app) load(g globalFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if g.root != "" {
		cfg.RootPath = config.ExpandHome(g.root)
	}
	if g.model != "" {
		cfg.Classifier.Model = g.model
	}
	if g.provider != "" {
		cfg.Classifier.Provider = g.provider
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	if g.noColor {
		color.NoColor = true
	}

	if err := logging.Configure(a.stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	a.cfg = cfg
	a.cfgPath = config.Path()
	return nil
}

// generator builds the configured classifier. A missing credential is
// reported as pipeline.ErrNoGenerator.
func (a *app) generator(ctx context.Context) (classify.Generator, error) {
	cc := a.cfg.Classifier
	key := cc.APIKey()
	if classify.NeedsAPIKey(cc.Provider) && key == "" {
		return nil, goerr.Wrap(pipeline.ErrNoGenerator, "API key is not set",
			goerr.V("env", cc.APIKeyEnv),
			goerr.V("provider", cc.Provider))
	}

	g, err := classify.New(ctx, cc, key)
	if err != nil {
		return nil, goerr.Wrap(fmt.Errorf("%w: %w", pipeline.ErrNoGenerator, err), "configure classifier")
	}
	return g, nil
}

// run files one log with g and records it in the index.
func (a *app) run(ctx context.Context, g classify.Generator, text string) (*pipeline.Outcome, string, error) {
	rec := &recorder{cfg: a.cfg}
	out, err := pipeline.Run(ctx, pipeline.Deps{
		Root:      a.cfg.RootPath,
		Generator: g,
		Timeout:   a.cfg.Classifier.Timeout(),
		OnFiled:   rec.record,
	}, text)
	if err != nil {
		return nil, "", err
	}
	return out, rec.id, nil
}

func (a *app) report(out *pipeline.Outcome, id string) {
	if !out.ViaFallback() {
		fmt.Fprintf(a.stdout, "%s %s (%s)\n", color.GreenString("created:"), out.Path, out.Classification.Title)
	} else {
		fmt.Fprintf(a.stdout, "%s %s (%s)\n", color.YellowString("fallback:"), out.Path, reason(out))
		fmt.Fprintln(a.stderr, "classification failed; the original text was saved unchanged")
	}
	if id != "" {
		fmt.Fprintf(a.stdout, "id: %s\n", id)
	}
}

func reason(out *pipeline.Outcome) string {
	msg := out.FailedStage.String() + " failed"
	if out.Kind != pipeline.KindNone {
		msg += ": " + string(out.Kind) + " error"
	}
	if out.Cause != nil {
		// First line of the cause only; bodies from the service can be long.
		cause, _, _ := strings.Cut(out.Cause.Error(), "\n")
		msg += ": " + cause
	}
	return msg
}
