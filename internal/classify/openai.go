package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	BaseURL    string
	Model      string
	APIKey     string `masq:"secret"`
	HTTPClient *http.Client
}

// Generate posts the prompt as a single user message and returns the
// assistant content of the first choice.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: o.Model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
		ResponseFormat: &respFormat{
			Type: "json_object",
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", goerr.Wrap(err, "marshal request")
	}

	url := strings.TrimRight(o.BaseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", serviceError(err, "create request", goerr.V("url", url))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	client := o.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", serviceError(err, "http request", goerr.V("url", url))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", serviceError(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", goerr.Wrap(ErrService, "API error",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(respBody)))
	}

	return parseChatResponse(respBody)
}

func parseChatResponse(body []byte) (string, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", serviceError(err, "unmarshal response")
	}

	if resp.Error != nil {
		return "", goerr.Wrap(ErrService, "API error", goerr.V("message", resp.Error.Message))
	}

	if len(resp.Choices) == 0 {
		return "", goerr.Wrap(ErrService, "empty choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}
