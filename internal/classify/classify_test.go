package classify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/suykerbuyk/logvault/internal/config"
)

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func TestBuildPrompt_EmbedsTextVerbatim(t *testing.T) {
	text := "line one\n{{INPUT}} literal marker\n" + strings.Repeat("長い入力", 10000) + "\n```json\n{}\n```"
	prompt := BuildPrompt(text)

	if !strings.Contains(prompt, text) {
		t.Fatal("prompt does not contain the full input text")
	}
	if strings.Count(prompt, text) != 1 {
		t.Error("input should be embedded exactly once")
	}
	if strings.Contains(prompt, "[...truncated]") {
		t.Error("input must never be truncated")
	}
}

func TestBuildPrompt_NamesAllKeys(t *testing.T) {
	prompt := BuildPrompt("hello")
	for _, k := range ResponseKeys {
		if !strings.Contains(prompt, `"`+k+`"`) {
			t.Errorf("prompt missing key %q", k)
		}
	}
	if !strings.Contains(prompt, "JSON object only") {
		t.Error("prompt should demand JSON only")
	}
	if strings.Contains(prompt, inputMarker) {
		t.Error("marker left in prompt")
	}
}

func TestClassify_SingleCall(t *testing.T) {
	g := &fakeGenerator{response: `{"title":"T"}`}
	raw, err := Classify(context.Background(), g, "Fix null pointer in login flow")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if raw != `{"title":"T"}` {
		t.Errorf("raw = %q", raw)
	}
	if len(g.prompts) != 1 {
		t.Fatalf("calls = %d, want 1", len(g.prompts))
	}
	if !strings.Contains(g.prompts[0], "Fix null pointer in login flow") {
		t.Error("prompt missing input text")
	}
}

func TestClassify_WrapsErrors(t *testing.T) {
	cause := errors.New("connection reset by peer")
	g := &fakeGenerator{err: cause}

	_, err := Classify(context.Background(), g, "text")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrService) {
		t.Errorf("error = %v, want ErrService", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error = %v, should keep the cause", err)
	}
	if len(g.prompts) != 1 {
		t.Errorf("calls = %d, no retries expected", len(g.prompts))
	}
}

func TestClassify_KeepsContextCause(t *testing.T) {
	g := &fakeGenerator{err: context.DeadlineExceeded}
	_, err := Classify(context.Background(), g, "text")
	if !errors.Is(err, ErrService) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v", err)
	}
}

func TestNew_Providers(t *testing.T) {
	ctx := context.Background()

	g, err := New(ctx, config.ClassifierConfig{Provider: "openai", Model: "m", BaseURL: "http://localhost"}, "k")
	if err != nil {
		t.Fatalf("openai: %v", err)
	}
	o, ok := g.(*OpenAI)
	if !ok {
		t.Fatalf("openai provider returned %T", g)
	}
	if o.Model != "m" || o.APIKey != "k" || o.BaseURL != "http://localhost" {
		t.Errorf("openai config = %+v", o)
	}

	g, err = New(ctx, config.ClassifierConfig{Provider: "Gemini", Model: "gemini-2.0-flash"}, "test-key")
	if err != nil {
		t.Fatalf("gemini: %v", err)
	}
	if _, ok := g.(*Gemini); !ok {
		t.Errorf("gemini provider returned %T", g)
	}

	if _, err := New(ctx, config.ClassifierConfig{Provider: "vertex"}, ""); err == nil {
		t.Error("vertex without project_id should fail")
	}

	_, err = New(ctx, config.ClassifierConfig{Provider: "carrier-pigeon"}, "k")
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("unknown provider error = %v", err)
	}
}

func TestNeedsAPIKey(t *testing.T) {
	tests := []struct {
		provider string
		want     bool
	}{
		{"gemini", true},
		{"", true},
		{"openai", true},
		{"vertex", false},
		{" Vertex ", false},
	}
	for _, tt := range tests {
		if got := NeedsAPIKey(tt.provider); got != tt.want {
			t.Errorf("NeedsAPIKey(%q) = %v, want %v", tt.provider, got, tt.want)
		}
	}
}
