package config

const (
	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0

	defaultProvider       = "ollama"
	defaultModel          = "llama3.2"
	defaultTimeoutSeconds = 30

	defaultDatabasePath   = "datapilot.db"
	defaultQueryTimeoutMs = 5000
	defaultMaxRows        = 100

	defaultAPIListen = ":8080"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		// BaseURL is left empty so each provider resolves its own
		// endpoint (openai.DefaultBaseURL, ollama.DefaultBaseURL).
		LLM: LLMConfig{
			Provider:       defaultProvider,
			Model:          defaultModel,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Database: DatabaseConfig{
			Path:           defaultDatabasePath,
			QueryTimeoutMs: defaultQueryTimeoutMs,
			MaxRows:        defaultMaxRows,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
	}
}
