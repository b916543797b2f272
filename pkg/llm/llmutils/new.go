// Package llmutils constructs the configured llm.Client.
package llmutils

import (
	"fmt"
	"time"

	"github.com/datapilotco/datapilot/pkg/llm"
	"github.com/datapilotco/datapilot/pkg/llm/ollama"
	"github.com/datapilotco/datapilot/pkg/llm/openai"
)

type NewClientOpts struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// NewClient returns the llm.Client for the configured provider.
func NewClient(o *NewClientOpts) (llm.Client, error) {
	switch o.Provider {
	case "openai":
		return openai.New(openai.Config{
			BaseURL: o.BaseURL,
			APIKey:  o.APIKey,
			Model:   o.Model,
			Timeout: o.Timeout,
		})
	case "ollama":
		return ollama.New(ollama.Config{
			BaseURL: o.BaseURL,
			Model:   o.Model,
			Timeout: o.Timeout,
		})
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", o.Provider)
	}
}
