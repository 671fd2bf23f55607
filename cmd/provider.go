package cmd

import (
	"fmt"

	"github.com/QinCai-rui/mdllama/internal/config"
	"github.com/QinCai-rui/mdllama/internal/history"
	"github.com/QinCai-rui/mdllama/internal/provider"
)

// newClient creates a provider client based on the configuration.
func newClient(cfg *config.Config) (provider.Client, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return provider.NewOllama(cfg.OllamaHost), nil
	case config.ProviderOpenAI:
		return provider.NewOpenAI(cfg.APIKey(), cfg.OpenAIAPIBase), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// newModelManager returns the model-management interface for backends that
// have one; only the local Ollama daemon manages model storage.
func newModelManager(cfg *config.Config) (provider.ModelManager, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	mgr, ok := client.(provider.ModelManager)
	if !ok {
		return nil, fmt.Errorf("model management requires the ollama provider (current: %s)", cfg.Provider)
	}
	return mgr, nil
}

// newHistoryStore opens the session history store at its default location.
func newHistoryStore() (*history.Store, error) {
	dir, err := config.HistoryDir()
	if err != nil {
		return nil, err
	}
	return history.NewStore(dir), nil
}
