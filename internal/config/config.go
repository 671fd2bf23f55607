// Package config holds the process-wide provider configuration. It is
// loaded once at startup through viper and mutated only by the setup
// command.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// Provider kinds.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config holds the provider configuration persisted to the config file.
type Config struct {
	Provider       string `toml:"provider" mapstructure:"provider"`
	OllamaHost     string `toml:"ollama_host" mapstructure:"ollama_host"`
	OpenAIAPIBase  string `toml:"openai_api_base" mapstructure:"openai_api_base"`
	OpenAIAPIKey   string `toml:"openai_api_key" mapstructure:"openai_api_key"`
	Model          string `toml:"model" mapstructure:"model"`
	RenderMarkdown bool   `toml:"render_markdown" mapstructure:"render_markdown"`
}

// NewDefaultConfig returns a Config with default values, used when no
// config file exists yet.
func NewDefaultConfig() *Config {
	return &Config{
		Provider:      ProviderOllama,
		OllamaHost:    "http://localhost:11434",
		OpenAIAPIBase: "https://api.openai.com/v1",
		OpenAIAPIKey:  "$OPENAI_API_KEY", // resolved from the environment
		Model:         "gemma3:1b",
	}
}

// Load unmarshals the configuration from viper. Defaults registered at
// startup cover the file-absent case.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// APIKey returns the OpenAI API key with $VAR / ${VAR} references resolved
// from the environment. An unset variable resolves to the empty string.
func (c *Config) APIKey() string {
	return ExpandEnv(c.OpenAIAPIKey)
}

// ExpandEnv resolves a leading $VAR or ${VAR} reference. Plain values are
// returned unchanged.
func ExpandEnv(value string) string {
	if len(value) < 2 || value[0] != '$' {
		return value
	}
	name := value[1:]
	if len(name) > 1 && name[0] == '{' && name[len(name)-1] == '}' {
		name = name[1 : len(name)-1]
	}
	return os.Getenv(name)
}

// Dir returns the directory holding the config file and session history.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mdllama"), nil
}

// File returns the config file path.
func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryDir returns the directory where session transcripts are stored.
func HistoryDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

// Save writes the configuration to path as TOML, creating the parent
// directory if needed. An existing file is overwritten; only the setup
// command calls this.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
