package wb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/FirstTop/wb-reviews-agent/app/review"
)

var _ review.Source = (*Client)(nil)
var _ review.Publisher = (*Client)(nil)

// Client talks to the Wildberries supplier API: it lists feedbacks and
// posts answers to them.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, userAgent string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// feedback mirrors the marketplace payload. Unknown fields are ignored.
type feedback struct {
	ID              string          `json:"id"`
	ProductID       json.RawMessage `json:"productId"`
	NmID            json.RawMessage `json:"nmId"`
	SupplierArticle string          `json:"supplierArticle"`
	Rating          int             `json:"rating"`
	Text            string          `json:"text"`
	Pros            string          `json:"pros"`
	Cons            string          `json:"cons"`
	Author          string          `json:"author"`
	Date            string          `json:"date"`
}

// FetchReviews lists feedbacks authored after the given instant and
// converts them to canonical payloads.
func (c *Client) FetchReviews(ctx context.Context, since time.Time) ([]review.RawReview, error) {
	endpoint := fmt.Sprintf("%s/api/v1/feedbacks?dateFrom=%s", c.baseURL, since.UTC().Format(time.RFC3339))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feedbacks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("wildberries error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	feedbacks, err := decodeFeedbacks(body)
	if err != nil {
		return nil, err
	}

	raws := make([]review.RawReview, 0, len(feedbacks))
	for _, fb := range feedbacks {
		raws = append(raws, parseFeedback(fb))
	}

	return raws, nil
}

// decodeFeedbacks tolerates the envelope variants the API is known to
// return: a bare array, {"data": [...]} and {"data": {"feedbacks": [...]}}.
func decodeFeedbacks(body []byte) ([]feedback, error) {
	var direct []feedback
	if err := json.Unmarshal(body, &direct); err == nil {
		return direct, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Data) == 0 {
		return nil, fmt.Errorf("unexpected feedbacks response shape")
	}

	var fromData []feedback
	if err := json.Unmarshal(envelope.Data, &fromData); err == nil {
		return fromData, nil
	}

	var nested struct {
		Feedbacks []feedback `json:"feedbacks"`
	}
	if err := json.Unmarshal(envelope.Data, &nested); err != nil {
		return nil, fmt.Errorf("unexpected feedbacks response shape: %w", err)
	}

	return nested.Feedbacks, nil
}

func parseFeedback(fb feedback) review.RawReview {
	raw := review.RawReview{
		WBReviewID:      fb.ID,
		ProductID:       rawString(fb.ProductID),
		NmID:            rawString(fb.NmID),
		SupplierArticle: fb.SupplierArticle,
		Rating:          fb.Rating,
		Text:            fb.Text,
		Pros:            fb.Pros,
		Cons:            fb.Cons,
		Author:          fb.Author,
	}

	if fb.Date != "" {
		if t, err := parseDate(fb.Date); err == nil {
			raw.Date = &t
		}
	}

	return raw
}

// rawString accepts identifiers the API serves either as strings or as
// bare numbers.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return strings.Trim(string(raw), `"`)
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

// PublishReply posts an answer to a feedback. Any non-2xx status is a
// failure.
func (c *Client) PublishReply(ctx context.Context, wbReviewID, text string) error {
	endpoint := fmt.Sprintf("%s/api/v1/feedbacks/%s/answer", c.baseURL, wbReviewID)

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("marshal answer payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post answer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("wildberries error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}
