package classify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseChatResponse(t *testing.T) {
	resp := chatResponse{
		Choices: []chatChoice{
			{Message: chatMessage{Role: "assistant", Content: `{"project_name":"Auth_Service"}`}},
		},
	}
	body, _ := json.Marshal(resp)

	got, err := parseChatResponse(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"project_name":"Auth_Service"}` {
		t.Errorf("content = %q", got)
	}
}

func TestParseChatResponse_EmptyChoices(t *testing.T) {
	body, _ := json.Marshal(chatResponse{Choices: []chatChoice{}})
	_, err := parseChatResponse(body)
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
	if !errors.Is(err, ErrService) {
		t.Errorf("wrong error kind: %v", err)
	}
}

func TestParseChatResponse_APIError(t *testing.T) {
	_, err := parseChatResponse([]byte(`{"error":{"message":"invalid api key","type":"auth"}}`))
	if !errors.Is(err, ErrService) {
		t.Errorf("error = %v, want ErrService", err)
	}
}

func TestParseChatResponse_ContentIsUntrusted(t *testing.T) {
	// Non-JSON assistant content is returned as-is; parsing is not this layer's job.
	body, _ := json.Marshal(chatResponse{Choices: []chatChoice{{Message: chatMessage{Content: "Sorry, I cannot help."}}}})
	got, err := parseChatResponse(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Sorry, I cannot help." {
		t.Errorf("content = %q", got)
	}
}

func TestOpenAI_MockServer(t *testing.T) {
	canned := chatResponse{
		Choices: []chatChoice{
			{Message: chatMessage{Role: "assistant", Content: `{"title":"Null_Pointer_Login"}`}},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s, want POST", r.Method)
		}
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key-123" {
			t.Errorf("auth: got %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content-type: got %q", r.Header.Get("Content-Type"))
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model: got %q", req.Model)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Error("missing response_format")
		}
		if len(req.Messages) != 1 || !strings.Contains(req.Messages[0].Content, "Fix null pointer") {
			t.Errorf("messages: got %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(canned)
	}))
	defer server.Close()

	o := &OpenAI{BaseURL: server.URL + "/v1/", Model: "test-model", APIKey: "test-key-123"}

	raw, err := Classify(context.Background(), o, "Fix null pointer in login flow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != `{"title":"Null_Pointer_Login"}` {
		t.Errorf("raw = %q", raw)
	}
}

func TestOpenAI_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	o := &OpenAI{BaseURL: server.URL, Model: "test-model", APIKey: "test-key"}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := o.Generate(ctx, "test")
	if !errors.Is(err, ErrService) {
		t.Fatalf("expected ErrService timeout, got %v", err)
	}
}

func TestOpenAI_ServerErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"rate limit", http.StatusTooManyRequests, `{"error":{"message":"rate limit exceeded"}}`},
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`},
		{"server error", http.StatusInternalServerError, `oops`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			o := &OpenAI{BaseURL: server.URL, Model: "test-model", APIKey: "test-key"}
			_, err := o.Generate(context.Background(), "test")
			if !errors.Is(err, ErrService) {
				t.Errorf("error = %v, want ErrService", err)
			}
			if calls != 1 {
				t.Errorf("calls = %d, want exactly 1", calls)
			}
		})
	}
}

func TestOpenAI_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	o := &OpenAI{BaseURL: url, Model: "m", APIKey: "k"}
	_, err := o.Generate(context.Background(), "test")
	if !errors.Is(err, ErrService) {
		t.Errorf("error = %v, want ErrService", err)
	}
}
