/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/QinCai-rui/mdllama/internal/config"
	"github.com/QinCai-rui/mdllama/internal/output"
	"github.com/QinCai-rui/mdllama/internal/version"
)

var (
	cfgFile       string
	verbose       bool
	providerFlag  string
	openAIAPIBase string
	noColor       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mdllama",
	Short: "A command-line client for Ollama and OpenAI-compatible APIs",
	Long: `mdllama is a command-line client for chatting with large language models
through Ollama and OpenAI-compatible HTTP endpoints.

It supports streaming responses, Markdown rendering, conversation context,
file attachments, and local session history.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/mdllama/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "backend provider (ollama or openai)")
	rootCmd.PersistentFlags().StringVar(&openAIAPIBase, "openai-api-base", "", "base URL of an OpenAI-compatible endpoint")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("MDLLAMA")
	viper.AutomaticEnv()

	defaults := config.NewDefaultConfig()
	viper.SetDefault("provider", defaults.Provider)
	viper.SetDefault("ollama_host", defaults.OllamaHost)
	viper.SetDefault("openai_api_base", defaults.OpenAIAPIBase)
	viper.SetDefault("openai_api_key", defaults.OpenAIAPIKey)
	viper.SetDefault("model", defaults.Model)
	viper.SetDefault("render_markdown", defaults.RenderMarkdown)

	viper.BindEnv("provider", "MDLLAMA_PROVIDER")
	viper.BindEnv("ollama_host", "MDLLAMA_OLLAMA_HOST", "OLLAMA_HOST")
	viper.BindEnv("openai_api_base", "MDLLAMA_OPENAI_API_BASE")
	viper.BindEnv("openai_api_key", "MDLLAMA_OPENAI_API_KEY")
	viper.BindEnv("model", "MDLLAMA_MODEL")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := config.Dir()
		cobra.CheckErr(err)
		viper.AddConfigPath(dir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	// A missing config file means "use defaults", not an error.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	}

	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		fmt.Fprintln(os.Stderr, "Provider:", viper.GetString("provider"))
		fmt.Fprintln(os.Stderr, "Model:", viper.GetString("model"))
	}
}

// loadConfig loads the configuration and applies global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if providerFlag != "" {
		cfg.Provider = providerFlag
	}
	if openAIAPIBase != "" {
		cfg.OpenAIAPIBase = openAIAPIBase
	}
	if cfg.Provider != config.ProviderOllama && cfg.Provider != config.ProviderOpenAI {
		return nil, fmt.Errorf("unsupported provider %q (expected ollama or openai)", cfg.Provider)
	}
	return cfg, nil
}

// colorsEnabled honors the --no-color flag and the NO_COLOR convention.
func colorsEnabled() bool {
	if noColor {
		return false
	}
	_, set := os.LookupEnv("NO_COLOR")
	return !set
}

func newPrinter() *output.Printer {
	return output.NewPrinter(os.Stdout, os.Stderr, colorsEnabled())
}
