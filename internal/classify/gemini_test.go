package classify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func TestGemini_MockServer(t *testing.T) {
	var gotPath, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"title\":\"T\"}"}]}}]}`))
	}))
	defer server.Close()

	g, err := NewGemini(context.Background(), "test-key", "gemini-2.0-flash", server.URL)
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}

	raw, err := Classify(context.Background(), g, "Fix null pointer in login flow")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if raw != `{"title":"T"}` {
		t.Errorf("raw = %q", raw)
	}
	if !strings.Contains(gotPath, "gemini-2.0-flash:generateContent") {
		t.Errorf("path = %q", gotPath)
	}
	if !strings.Contains(gotBody, "Fix null pointer in login flow") {
		t.Errorf("request body missing input: %s", gotBody)
	}
}

func TestGemini_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	g, err := NewGemini(context.Background(), "bad-key", "gemini-2.0-flash", server.URL)
	if err != nil {
		t.Fatalf("NewGemini: %v", err)
	}

	_, err = g.Generate(context.Background(), "prompt")
	if !errors.Is(err, ErrService) {
		t.Errorf("error = %v, want ErrService", err)
	}
}

func TestGenerateContentModels(t *testing.T) {
	models := []*genai.Model{
		{Name: "models/gemini-2.0-flash", SupportedActions: []string{"generateContent", "countTokens"}},
		{Name: "models/text-embedding-004", SupportedActions: []string{"embedContent"}},
		nil,
		{Name: "models/gemini-1.5-pro", SupportedActions: []string{"countTokens", "generateContent"}},
		{Name: "tunedModels/custom", SupportedActions: []string{"generateContent"}},
	}

	got := generateContentModels(models)
	want := []string{"gemini-2.0-flash", "gemini-1.5-pro", "tunedModels/custom"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("generateContentModels = %v, want %v", got, want)
	}
}
