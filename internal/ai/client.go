// Package ai provides a client for OpenAI-compatible model services:
// chat completions (whole and streamed), embeddings, and image generation.
package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Roles used in chat messages. The assistant side of a stored conversation is
// tagged "system" to match the wire format expected by the UI.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is a role-tagged chat turn sent to or received from the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config configures the model service client. BaseURL may point at a local
// OpenAI-compatible server during development.
type Config struct {
	BaseURL        string
	APIKey         string
	ChatModel      string
	SummaryModel   string
	EmbeddingModel string
	ImageModel     string
	ImageSize      string
	Temperature    float64
	Timeout        time.Duration
}

// Client talks to an OpenAI-compatible API over HTTP. Non-streaming calls go
// through a client with the configured timeout; streams use a client without
// one, since http.Client.Timeout covers the whole body read and would cut off
// long generations. Streams are bounded by the request context instead.
type Client struct {
	cfg          Config
	httpClient   *http.Client
	streamClient *http.Client
}

// NewClient creates a client for the service described by cfg.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:          cfg,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		streamClient: &http.Client{},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Chat sends messages to model and returns the generated text.
func (c *Client) Chat(ctx context.Context, model string, messages []Message) (string, error) {
	body := chatRequest{Model: model, Messages: messages, Temperature: c.cfg.Temperature}
	var out chatResponse
	if err := c.post(ctx, "/chat/completions", body, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return out.Choices[0].Message.Content, nil
}

type chatStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// ChatStream sends messages to model and delivers generated text fragments to
// fn as they arrive. It returns the full concatenated answer once the stream
// completes. A non-nil error from fn, or a canceled context, stops the stream;
// in that case no final answer is returned.
func (c *Client) ChatStream(ctx context.Context, model string, messages []Message, fn func(delta string) error) (string, error) {
	body := chatRequest{Model: model, Messages: messages, Temperature: c.cfg.Temperature, Stream: true}
	req, err := c.newRequest(ctx, "/chat/completions", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp)
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			break
		}
		var chunk chatStreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return "", fmt.Errorf("chat stream: decode chunk: %w", err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if err := fn(delta); err != nil {
			return "", fmt.Errorf("chat stream: consumer: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("chat stream: read: %w", err)
	}
	return full.String(), nil
}

// ChatModel returns the configured conversational model name.
func (c *Client) ChatModel() string { return c.cfg.ChatModel }

// SummaryModel returns the configured summarization model name.
func (c *Client) SummaryModel() string { return c.cfg.SummaryModel }

func (c *Client) newRequest(ctx context.Context, path string, body interface{}) (*http.Request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	return req, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, path, body)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("model service returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
}
