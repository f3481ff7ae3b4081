package wb

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchReviews(t *testing.T) {
	var gotPath, gotAuth, gotDateFrom string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotDateFrom = r.URL.Query().Get("dateFrom")

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"data": {
				"feedbacks": [
					{
						"id": "fb-1",
						"productId": 123456,
						"nmId": "654321",
						"supplierArticle": "SKU-1",
						"rating": 2,
						"text": "Пришёл брак",
						"cons": "Сломан",
						"author": "Иван",
						"date": "2025-07-10T09:30:00Z"
					}
				]
			}
		}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-agent")

	since := time.Date(2025, 7, 10, 8, 0, 0, 0, time.UTC)
	raws, err := client.FetchReviews(context.Background(), since)
	if err != nil {
		t.Fatalf("FetchReviews failed: %v", err)
	}

	if gotPath != "/api/v1/feedbacks" {
		t.Errorf("Expected path /api/v1/feedbacks, got %s", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer auth, got %q", gotAuth)
	}
	if gotDateFrom != since.Format(time.RFC3339) {
		t.Errorf("Expected dateFrom %s, got %s", since.Format(time.RFC3339), gotDateFrom)
	}

	if len(raws) != 1 {
		t.Fatalf("Expected 1 review, got %d", len(raws))
	}
	raw := raws[0]
	if raw.WBReviewID != "fb-1" || raw.Rating != 2 || raw.Author != "Иван" {
		t.Errorf("Unexpected payload: %+v", raw)
	}
	if raw.ProductID != "123456" {
		t.Errorf("Expected numeric productId as string, got %q", raw.ProductID)
	}
	if raw.NmID != "654321" {
		t.Errorf("Expected nmId 654321, got %q", raw.NmID)
	}
	if raw.Date == nil || !raw.Date.Equal(time.Date(2025, 7, 10, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("Unexpected date: %v", raw.Date)
	}
}

func TestFetchReviewsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error": "invalid token"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", "")
	if _, err := client.FetchReviews(context.Background(), time.Now()); err == nil {
		t.Error("Expected error for non-200 response")
	}
}

func TestDecodeFeedbacks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare array", `[{"id": "a"}, {"id": "b"}]`, 2},
		{"data array", `{"data": [{"id": "a"}]}`, 1},
		{"nested feedbacks", `{"data": {"feedbacks": [{"id": "a"}]}}`, 1},
		{"empty nested", `{"data": {"feedbacks": []}}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feedbacks, err := decodeFeedbacks([]byte(tt.body))
			if err != nil {
				t.Fatalf("decodeFeedbacks failed: %v", err)
			}
			if len(feedbacks) != tt.want {
				t.Errorf("Expected %d feedbacks, got %d", tt.want, len(feedbacks))
			}
		})
	}

	if _, err := decodeFeedbacks([]byte(`{"unexpected": true}`)); err == nil {
		t.Error("Expected error for unknown response shape")
	}
}

func TestRawString(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"abc"`, "abc"},
		{`123`, "123"},
		{``, ""},
	}

	for _, tt := range tests {
		if got := rawString(json.RawMessage(tt.raw)); got != tt.want {
			t.Errorf("rawString(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []string{
		"2025-07-10T09:30:00Z",
		"2025-07-10T09:30:00",
		"2025-07-10 09:30:00",
	}

	for _, value := range tests {
		parsed, err := parseDate(value)
		if err != nil {
			t.Errorf("parseDate(%q) failed: %v", value, err)
			continue
		}
		if parsed.Year() != 2025 || parsed.Hour() != 9 {
			t.Errorf("parseDate(%q) = %v", value, parsed)
		}
	}

	if _, err := parseDate("not a date"); err == nil {
		t.Error("Expected error for unparseable date")
	}
}

func TestPublishReply(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "")
	if err := client.PublishReply(context.Background(), "fb-1", "Спасибо за отзыв!"); err != nil {
		t.Fatalf("PublishReply failed: %v", err)
	}

	if gotPath != "/api/v1/feedbacks/fb-1/answer" {
		t.Errorf("Expected answer path, got %s", gotPath)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("Expected POST, got %s", gotMethod)
	}
	if gotBody["text"] != "Спасибо за отзыв!" {
		t.Errorf("Unexpected body: %v", gotBody)
	}
}

func TestPublishReplyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error": "answer already exists"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "")
	if err := client.PublishReply(context.Background(), "fb-1", "текст"); err == nil {
		t.Error("Expected error for 400 response")
	}
}
