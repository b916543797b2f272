package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads config.toml from configDir
// (or the current directory when empty), and binds environment variables
// with the DATAPILOT_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound by the command via BindPFlag)
//  2. Environment variables (DATAPILOT_LLM_PROVIDER, DATAPILOT_API_LISTEN, ...)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	} else {
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("DATAPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// FromViper materializes a Config from the resolved viper state.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		LLM: LLMConfig{
			Provider:       v.GetString("llm.provider"),
			Model:          v.GetString("llm.model"),
			APIKey:         v.GetString("llm.api_key"),
			BaseURL:        v.GetString("llm.base_url"),
			TimeoutSeconds: v.GetUint("llm.timeout_seconds"),
		},
		Database: DatabaseConfig{
			Path:           v.GetString("database.path"),
			QueryTimeoutMs: v.GetUint("database.query_timeout_ms"),
			MaxRows:        v.GetUint("database.max_rows"),
		},
		API: APIConfig{
			Listen: v.GetString("api.listen"),
		},
	}
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.timeout_seconds", d.LLM.TimeoutSeconds)

	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.query_timeout_ms", d.Database.QueryTimeoutMs)
	v.SetDefault("database.max_rows", d.Database.MaxRows)

	v.SetDefault("api.listen", d.API.Listen)
}
