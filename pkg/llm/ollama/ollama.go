// Package ollama implements the local-server llm.Client over the Ollama
// chat API. No credentials are required; the server is assumed to be
// reachable on the local network.
package ollama

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

const providerName = "ollama"

// DefaultBaseURL is the local server endpoint used when no base URL is
// configured.
const DefaultBaseURL = "http://localhost:11434"

// Config holds the settings for a local Ollama server.
type Config struct {
	BaseURL string // empty uses DefaultBaseURL
	Model   string // e.g. "llama3.2"
	Timeout time.Duration
}

// Client calls the Ollama chat API. It implements llm.Client.
type Client struct {
	baseURL string
	model   string
	timeout time.Duration
	client  *http.Client
}

// New creates a Client from cfg. All fields have defaults.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "llama3.2"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		timeout: timeout,
		client:  &http.Client{},
	}, nil
}

// Name implements llm.Client.
func (c *Client) Name() string {
	return providerName
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
	Error   string      `json:"error"`
}

// Generate implements llm.Client.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options:  map[string]any{"temperature": 0.1},
	})
	if err != nil {
		return "", llm.NewError(providerName, llm.KindMalformed, fmt.Errorf("marshal request: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", llm.NewError(providerName, llm.KindMalformed, fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

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

	if result.Error != "" {
		return "", llm.NewError(providerName, llm.KindMalformed, errors.New(result.Error))
	}

	return result.Message.Content, nil
}
