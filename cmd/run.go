/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/QinCai-rui/mdllama/internal/chat"
	"github.com/QinCai-rui/mdllama/internal/config"
)

var (
	runModel          string
	runSystem         string
	runTemperature    float64
	runMaxTokens      int
	runKeepContext    bool
	runSave           bool
	runRenderMarkdown bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive chat session",
	Long: `Start an interactive multi-turn chat session with the configured backend.

Inside the session the following commands are available:

  exit, quit       end the session
  clear            reset the conversation
  file:<path>      attach a file to the next message
  system:<prompt>  set the system prompt
  temp:<value>     set the sampling temperature
  model:[name]     switch model, interactively when no name is given
  models           list available models
  """              start or end a multiline message`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		printer := newPrinter()

		client, err := newClient(cfg)
		if err != nil {
			return err
		}
		store, err := newHistoryStore()
		if err != nil {
			return err
		}

		var conv *chat.Conversation
		if runKeepContext {
			conv, err = store.LoadContext()
			if err != nil {
				return err
			}
		}

		model := cfg.Model
		if runModel != "" {
			model = runModel
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          printer.UserPrompt(),
			InterruptPrompt: "^C",
		})
		if err != nil {
			return err
		}
		defer rl.Close()

		loop := chat.NewLoop(chat.Options{
			Client:         client,
			Printer:        printer,
			Reader:         chat.NewReadlineSource(rl),
			Saver:          store,
			Conversation:   conv,
			Model:          model,
			SystemPrompt:   runSystem,
			Temperature:    runTemperature,
			MaxTokens:      runMaxTokens,
			Save:           runSave,
			StreamFallback: cfg.Provider == config.ProviderOpenAI,
			RenderMarkdown: runRenderMarkdown || cfg.RenderMarkdown,
		})

		if err := loop.Run(cmd.Context()); err != nil {
			return err
		}
		if runKeepContext {
			return store.SaveContext(loop.Conversation())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runModel, "model", "m", viper.GetString("model"), "Model to use for the session")
	runCmd.Flags().StringVar(&runSystem, "system", "", "System prompt to use")
	runCmd.Flags().Float64VarP(&runTemperature, "temperature", "t", 0.7, "Temperature for sampling")
	runCmd.Flags().IntVar(&runMaxTokens, "max-tokens", 0, "Maximum number of tokens to generate")
	runCmd.Flags().BoolVarP(&runKeepContext, "context", "c", false, "Continue the persistent conversation context")
	runCmd.Flags().BoolVar(&runSave, "save", false, "Save the conversation to session history on exit")
	runCmd.Flags().BoolVarP(&runRenderMarkdown, "render-markdown", "r", false, "Render responses as Markdown")
}
