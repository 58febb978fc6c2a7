package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/suykerbuyk/logvault/internal/config"
)

// ErrService marks an authentication, network, quota or transport failure
// of the generation service.
var ErrService = goerr.New("generation service call failed")

// ErrUnknownProvider is returned by New for an unsupported provider name.
var ErrUnknownProvider = goerr.New("unknown classifier provider")

// Generator performs one synchronous text-generation call.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Classify sends the classification prompt for text to g exactly once and
// returns the untrusted raw response.
func Classify(ctx context.Context, g Generator, text string) (string, error) {
	raw, err := g.Generate(ctx, BuildPrompt(text))
	if err != nil {
		if errors.Is(err, ErrService) {
			return "", err
		}
		return "", serviceError(err, "generate classification")
	}
	return raw, nil
}

// New returns the Generator for cfg.Provider. apiKey is the resolved
// credential; the vertex provider authenticates with application default
// credentials instead.
func New(ctx context.Context, cfg config.ClassifierConfig, apiKey string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini":
		return NewGemini(ctx, apiKey, cfg.Model, cfg.BaseURL)
	case "vertex":
		return NewVertex(ctx, cfg.ProjectID, cfg.Location, cfg.Model)
	case "openai":
		return &OpenAI{BaseURL: cfg.BaseURL, Model: cfg.Model, APIKey: apiKey}, nil
	}
	return nil, goerr.Wrap(ErrUnknownProvider, "select classifier", goerr.V("provider", cfg.Provider))
}

// NeedsAPIKey reports whether provider authenticates with an API key.
func NeedsAPIKey(provider string) bool {
	return strings.ToLower(strings.TrimSpace(provider)) != "vertex"
}

func serviceError(err error, msg string, values ...goerr.Option) error {
	return goerr.Wrap(fmt.Errorf("%w: %w", ErrService, err), msg, values...)
}
