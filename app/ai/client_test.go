package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FirstTop/wb-reviews-agent/app/review"
)

func TestGenerateReply(t *testing.T) {
	var gotRequest chatRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotRequest)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"choices": [
				{"message": {"content": "  Спасибо за ваш отзыв!  "}}
			]
		}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "openai/gpt-4o-mini", "test-key", nil)

	text, err := client.GenerateReply(context.Background(), review.GenerationRequest{
		Text: "Отличный товар", Rating: 5,
	})
	if err != nil {
		t.Fatalf("GenerateReply failed: %v", err)
	}

	if text != "Спасибо за ваш отзыв!" {
		t.Errorf("Expected trimmed completion, got %q", text)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer auth, got %q", gotAuth)
	}
	if gotRequest.Model != "openai/gpt-4o-mini" {
		t.Errorf("Unexpected model: %s", gotRequest.Model)
	}
	if gotRequest.Temperature != 0.7 || gotRequest.MaxTokens != 300 {
		t.Errorf("Unexpected sampling params: %+v", gotRequest)
	}
	if len(gotRequest.Messages) != 2 || gotRequest.Messages[0].Role != "system" {
		t.Errorf("Expected system plus user messages, got %+v", gotRequest.Messages)
	}
}

func TestGenerateReplyMisconfigured(t *testing.T) {
	client := NewClient("", "", "", nil)
	if _, err := client.GenerateReply(context.Background(), review.GenerationRequest{}); err == nil {
		t.Error("Expected error for missing configuration")
	}
}

func TestGenerateReplyAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error": "rate limited"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "m", "k", nil)
	if _, err := client.GenerateReply(context.Background(), review.GenerationRequest{}); err == nil {
		t.Error("Expected error for non-2xx response")
	}
}

func TestGenerateReplyEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices": []}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "m", "k", nil)
	if _, err := client.GenerateReply(context.Background(), review.GenerationRequest{}); err == nil {
		t.Error("Expected error for empty choices")
	}
}

func TestGenerateReplyEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices": [{"message": {"content": "   "}}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "m", "k", nil)
	if _, err := client.GenerateReply(context.Background(), review.GenerationRequest{}); err == nil {
		t.Error("Expected error for blank completion")
	}
}
