package classify

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// Gemini calls the Gemini API with an API key.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini API generator. baseURL overrides the service
// endpoint and is empty in normal use.
func NewGemini(ctx context.Context, apiKey, model, baseURL string) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}

	return &Gemini{client: client, model: model}, nil
}

// Generate sends prompt as a single user turn.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", serviceError(err, "Gemini generateContent", goerr.V("model", g.model))
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", goerr.Wrap(ErrService, "Gemini returned no text", goerr.V("model", g.model))
	}
	return text, nil
}

// Models returns the identifiers of models that support generateContent,
// without the "models/" prefix.
func (g *Gemini) Models(ctx context.Context) ([]string, error) {
	var models []*genai.Model
	for m, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, serviceError(err, "list Gemini models")
		}
		models = append(models, m)
	}
	return generateContentModels(models), nil
}

func generateContentModels(models []*genai.Model) []string {
	var names []string
	for _, m := range models {
		if m == nil {
			continue
		}
		for _, action := range m.SupportedActions {
			if action == "generateContent" {
				names = append(names, strings.TrimPrefix(m.Name, "models/"))
				break
			}
		}
	}
	return names
}
