package assistant

import (
	"fmt"

	"github.com/datapilotco/datapilot/pkg/utils"
)

// ValidationError reports request input rejected before any LLM or
// database work.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UpstreamLLMError wraps a failed model call.
type UpstreamLLMError struct {
	Provider string
	Err      error
}

func (e *UpstreamLLMError) Error() string {
	return fmt.Sprintf("llm call to %s failed: %v", e.Provider, e.Err)
}

func (e *UpstreamLLMError) Unwrap() error {
	return e.Err
}

// ResponseParseError means no SQL statement could be extracted from the
// model output.
type ResponseParseError struct {
	Raw string
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("could not extract SQL from model response: %q", utils.Truncate(e.Raw, 128))
}
