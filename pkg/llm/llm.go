// Package llm defines the provider-agnostic text generation client used by
// the assistant pipelines. Concrete backends live in subpackages (openai,
// ollama) and are selected once at startup; callers only ever see Client.
package llm

import "context"

// Request is a single generation request. System carries instructions that
// frame the task; Prompt carries the task itself.
type Request struct {
	System string
	Prompt string
}

// Client is the interface all model backends implement.
// Implementations make exactly one outbound call per Generate: no retries,
// no caching, no streaming. Failures are normalized to *Error.
type Client interface {
	// Name returns the canonical provider name (e.g. "openai", "ollama").
	Name() string

	// Generate sends the request and returns the model's text output.
	Generate(ctx context.Context, req Request) (string, error)
}
