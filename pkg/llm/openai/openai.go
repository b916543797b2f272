// Package openai implements the hosted-API llm.Client over the
// OpenAI-compatible chat completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/datapilotco/datapilot/pkg/llm"
)

const providerName = "openai"

// DefaultBaseURL is the hosted endpoint used when no base URL is configured.
const DefaultBaseURL = "https://api.openai.com"

// Config holds the settings for a hosted OpenAI-compatible backend.
type Config struct {
	BaseURL string // empty uses DefaultBaseURL
	APIKey  string
	Model   string // e.g. "gpt-4o-mini"
	Timeout time.Duration
}

// Client calls the chat completions API. It implements llm.Client.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration
	client  *http.Client
}

// New creates a Client from cfg. APIKey is required.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("api key is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   model,
		timeout: timeout,
		client:  &http.Client{},
	}, nil
}

// Name implements llm.Client.
func (c *Client) Name() string {
	return providerName
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate implements llm.Client. It makes a single chat completion call
// with a low temperature suited to SQL generation.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.1,
	})
	if err != nil {
		return "", llm.NewError(providerName, llm.KindMalformed, fmt.Errorf("marshal request: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", llm.NewError(providerName, llm.KindMalformed, fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", llm.WrapTransportError(providerName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", llm.WrapTransportError(providerName, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", llm.ErrorFromStatus(providerName, resp.StatusCode, body)
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", llm.NewError(providerName, llm.KindMalformed, fmt.Errorf("unmarshal response: %w", err))
	}

	if result.Error != nil {
		return "", llm.NewError(providerName, llm.KindMalformed, errors.New(result.Error.Message))
	}

	if len(result.Choices) == 0 {
		return "", llm.NewError(providerName, llm.KindMalformed, errors.New("no choices in response"))
	}

	return result.Choices[0].Message.Content, nil
}
