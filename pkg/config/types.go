// Package config defines the persistent datapilot configuration and the
// precedence chain used to resolve it (flags > env > config.toml > defaults).
package config

// Config represents the datapilot configuration stored as config.toml.
// The TOML layout uses sections for logical grouping. Settings are read
// once at process start; there is no hot reload.
type Config struct {
	Version  int            `toml:"version"`
	LLM      LLMConfig      `toml:"llm"`
	Database DatabaseConfig `toml:"database"`
	API      APIConfig      `toml:"api"`
}

// LLMConfig holds the model backend settings. Exactly one backend is active
// per process, selected by Provider.
type LLMConfig struct {
	// Provider is "openai" (hosted API) or "ollama" (local model server).
	Provider string `toml:"provider,omitempty"`

	// Model is the model name passed to the backend
	// (e.g. "gpt-4o-mini", "llama3.2").
	Model string `toml:"model,omitempty"`

	// APIKey is the credential for hosted providers. Ignored by ollama.
	APIKey string `toml:"api_key,omitempty"`

	// BaseURL is the backend endpoint
	// (e.g. "https://api.openai.com", "http://localhost:11434").
	// Empty selects the active provider's default endpoint.
	BaseURL string `toml:"base_url,omitempty"`

	// TimeoutSeconds bounds each generation call.
	TimeoutSeconds uint `toml:"timeout_seconds,omitempty"`
}

// DatabaseConfig holds sample database settings.
type DatabaseConfig struct {
	// Path to the SQLite database file.
	Path string `toml:"path,omitempty"`

	// QueryTimeoutMs bounds each SQL execution.
	QueryTimeoutMs uint `toml:"query_timeout_ms,omitempty"`

	// MaxRows is appended as a LIMIT to generated SQL that has none.
	MaxRows uint `toml:"max_rows,omitempty"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}
