package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ProviderOpenAI selects the hosted OpenAI-compatible backend.
const ProviderOpenAI = "openai"

// ProviderOllama selects a locally addressable Ollama server.
const ProviderOllama = "ollama"

// Load reads a Config from the TOML file at path. A missing file returns
// NewDefaultConfig() so callers always receive a fully-populated Config.
// Fields explicitly set in the file override the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

// Save persists the configuration as TOML to path.
func Save(cfg *Config, path string) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}
	if path == "" {
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ParseConfigTOML parses raw TOML bytes into a Config.
// Returns an error if the version field is present and not equal to CurrentV.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return cfg, nil
}

// Validate checks that the config can actually drive the service.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LLM.Provider) {
	case ProviderOpenAI:
		if c.LLM.APIKey == "" {
			return errors.New("llm.api_key is required for the openai provider")
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("unknown llm.provider %q (available: %s, %s)", c.LLM.Provider, ProviderOpenAI, ProviderOllama)
	}

	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	if c.API.Listen == "" {
		return errors.New("api.listen is required")
	}

	return nil
}

// LLMTimeout returns the generation call timeout as a duration.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// QueryTimeout returns the SQL execution timeout as a duration.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.Database.QueryTimeoutMs) * time.Millisecond
}

// applyDefaults fills zero-value fields in cfg with values from NewDefaultConfig().
func applyDefaults(cfg *Config) {
	defaults := NewDefaultConfig()

	if cfg.Version == 0 {
		cfg.Version = defaults.Version
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = defaults.LLM.Provider
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaults.LLM.Model
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = defaults.LLM.TimeoutSeconds
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = defaults.Database.Path
	}
	if cfg.Database.QueryTimeoutMs == 0 {
		cfg.Database.QueryTimeoutMs = defaults.Database.QueryTimeoutMs
	}
	if cfg.Database.MaxRows == 0 {
		cfg.Database.MaxRows = defaults.Database.MaxRows
	}

	if cfg.API.Listen == "" {
		cfg.API.Listen = defaults.API.Listen
	}
}

// PresetConfig returns a Config with sane defaults for the named provider
// preset. Supported presets: "openai", "ollama".
func PresetConfig(name string) (*Config, error) {
	switch strings.ToLower(name) {
	case ProviderOpenAI:
		cfg := NewDefaultConfig()
		cfg.LLM.Provider = ProviderOpenAI
		cfg.LLM.Model = "gpt-4o-mini"
		cfg.LLM.BaseURL = "https://api.openai.com"
		return cfg, nil

	case ProviderOllama:
		return NewDefaultConfig(), nil

	default:
		return nil, fmt.Errorf("unknown preset: %q (available: %s, %s)", name, ProviderOpenAI, ProviderOllama)
	}
}
