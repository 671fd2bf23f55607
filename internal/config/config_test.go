package config

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTOML(t *testing.T, path string) *Config {
	t.Helper()
	cfg := &Config{}
	_, err := toml.DecodeFile(path, cfg)
	require.NoError(t, err)
	return cfg
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaHost)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAIAPIBase)
	assert.Equal(t, "$OPENAI_API_KEY", cfg.OpenAIAPIKey)
	assert.NotEmpty(t, cfg.Model)
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("MDLLAMA_TEST_KEY", "sk-secret")

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"plain value", "sk-plain", "sk-plain"},
		{"dollar reference", "$MDLLAMA_TEST_KEY", "sk-secret"},
		{"braced reference", "${MDLLAMA_TEST_KEY}", "sk-secret"},
		{"unset variable", "$MDLLAMA_TEST_UNSET", ""},
		{"empty", "", ""},
		{"lone dollar", "$", "$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandEnv(tt.value))
		})
	}
}

func TestAPIKeyResolvesEnvReference(t *testing.T) {
	t.Setenv("MDLLAMA_TEST_KEY", "sk-secret")

	cfg := &Config{OpenAIAPIKey: "$MDLLAMA_TEST_KEY"}
	assert.Equal(t, "sk-secret", cfg.APIKey())

	cfg.OpenAIAPIKey = "sk-literal"
	assert.Equal(t, "sk-literal", cfg.APIKey())
}

func TestSaveWritesTOML(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/nested/config.toml"

	cfg := NewDefaultConfig()
	cfg.Model = "llama3:8b"
	assert.NoError(t, cfg.Save(path))

	// Round-trip through the TOML file.
	loaded := loadTOML(t, path)
	assert.Equal(t, "llama3:8b", loaded.Model)
	assert.Equal(t, ProviderOllama, loaded.Provider)
}
