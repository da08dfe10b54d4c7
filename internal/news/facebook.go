package news

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultGraphURL = "https://graph.facebook.com"

// FacebookPublisher posts text to a Facebook page feed via the Graph API.
type FacebookPublisher struct {
	baseURL     string
	pageID      string
	accessToken string
	httpClient  *http.Client
}

// NewFacebookPublisher creates a publisher for the given page. baseURL is
// overridable for tests; empty means the real Graph API.
func NewFacebookPublisher(baseURL, pageID, accessToken string) *FacebookPublisher {
	if baseURL == "" {
		baseURL = defaultGraphURL
	}
	return &FacebookPublisher{
		baseURL:     baseURL,
		pageID:      pageID,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Publish posts text to the page feed and returns the created post's ID.
func (p *FacebookPublisher) Publish(ctx context.Context, text string) (string, error) {
	if p.pageID == "" || p.accessToken == "" {
		return "", fmt.Errorf("publish: facebook page id and access token are required")
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("message", text); err != nil {
		return "", fmt.Errorf("publish: build form: %w", err)
	}
	if err := form.WriteField("formatting", "MARKDOWN"); err != nil {
		return "", fmt.Errorf("publish: build form: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("publish: build form: %w", err)
	}

	url := fmt.Sprintf("%s/%s/feed?access_token=%s", p.baseURL, p.pageID, p.accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("publish: create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("publish: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("publish: graph API returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("publish: decode response: %w", err)
	}
	return out.ID, nil
}
