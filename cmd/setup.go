/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/QinCai-rui/mdllama/internal/config"
	"github.com/QinCai-rui/mdllama/internal/provider"
)

var (
	setupProvider      string
	setupOllamaHost    string
	setupOpenAIAPIBase string
	setupOpenAIAPIKey  string
	setupModel         string
	setupSkipCheck     bool
)

// setupCmd represents the setup command
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the backend and write the config file",
	Long: `Write the configuration file with the selected provider settings.

The backend is contacted once to verify the settings before they are
written; pass --skip-check to write without verifying. The API key may
be given as a $VAR reference to keep the secret out of the file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		printer := newPrinter()

		if setupProvider != "" {
			cfg.Provider = setupProvider
		}
		if setupOllamaHost != "" {
			cfg.OllamaHost = setupOllamaHost
		}
		if setupOpenAIAPIBase != "" {
			cfg.OpenAIAPIBase = setupOpenAIAPIBase
		}
		if setupOpenAIAPIKey != "" {
			cfg.OpenAIAPIKey = setupOpenAIAPIKey
		}
		if setupModel != "" {
			cfg.Model = setupModel
		}

		if cfg.Provider != config.ProviderOllama && cfg.Provider != config.ProviderOpenAI {
			return fmt.Errorf("unknown provider %q (want %q or %q)", cfg.Provider, config.ProviderOllama, config.ProviderOpenAI)
		}

		if !setupSkipCheck {
			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			if _, err := client.ListModels(cmd.Context()); err != nil {
				return fmt.Errorf("verifying %s backend: %s: %w", cfg.Provider, provider.Kind(err), err)
			}
			printer.Successf("Connected to %s backend", cfg.Provider)
		}

		path, err := config.File()
		if err != nil {
			return err
		}
		if err := cfg.Save(path); err != nil {
			return err
		}

		printer.Successf("Configuration written to %s", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().StringVar(&setupProvider, "set-provider", "", "Provider to configure (ollama or openai)")
	setupCmd.Flags().StringVar(&setupOllamaHost, "ollama-host", "", "Base URL of the Ollama daemon")
	setupCmd.Flags().StringVar(&setupOpenAIAPIBase, "api-base", "", "Base URL of the OpenAI-compatible API")
	setupCmd.Flags().StringVar(&setupOpenAIAPIKey, "api-key", "", "API key, or a $VAR environment reference")
	setupCmd.Flags().StringVar(&setupModel, "model", "", "Default model")
	setupCmd.Flags().BoolVar(&setupSkipCheck, "skip-check", false, "Write the config without contacting the backend")
}
