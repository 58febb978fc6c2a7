package classify

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
)

// Vertex calls Gemini on Vertex AI through a gollem client.
type Vertex struct {
	client gollem.LLMClient
}

// NewVertex creates a Vertex AI generator using application default
// credentials for projectID in location.
func NewVertex(ctx context.Context, projectID, location, model string) (*Vertex, error) {
	if projectID == "" {
		return nil, goerr.New("vertex provider requires classifier.project_id")
	}

	var opts []gemini.Option
	if model != "" {
		opts = append(opts, gemini.WithModel(model))
	}

	client, err := gemini.New(ctx, projectID, location, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client",
			goerr.V("project_id", projectID),
			goerr.V("location", location))
	}

	return NewVertexWithClient(client), nil
}

// NewVertexWithClient wraps an existing gollem client.
func NewVertexWithClient(client gollem.LLMClient) *Vertex {
	return &Vertex{client: client}
}

// Generate opens a JSON session and sends prompt once.
func (v *Vertex) Generate(ctx context.Context, prompt string) (string, error) {
	session, err := v.client.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
	)
	if err != nil {
		return "", serviceError(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", serviceError(err, "failed to generate content from LLM")
	}

	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.Wrap(ErrService, "LLM returned no text")
	}

	return strings.Join(resp.Texts, ""), nil
}
