/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/QinCai-rui/mdllama/internal/chat"
	"github.com/QinCai-rui/mdllama/internal/config"
	"github.com/QinCai-rui/mdllama/internal/provider"
)

var (
	chatModel          string
	chatStream         bool
	chatSystem         string
	chatTemperature    float64
	chatMaxTokens      int
	chatFiles          []string
	chatKeepContext    bool
	chatSave           bool
	chatRenderMarkdown bool
	chatPromptFile     string
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Generate a single chat completion",
	Long: `Send one prompt to the configured backend and print the response.

The prompt is taken from the argument, from --prompt-file, or from stdin.
With --context the conversation is continued from (and saved back to) the
persistent context, so separate invocations form one conversation.

For an interactive multi-turn session, use 'mdllama run' instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		printer := newPrinter()

		prompt, err := resolvePrompt(args)
		if err != nil {
			return err
		}

		store, err := newHistoryStore()
		if err != nil {
			return err
		}

		conv := chat.NewConversation()
		if chatKeepContext {
			conv, err = store.LoadContext()
			if err != nil {
				return err
			}
		}
		if chatTemperature != 0 {
			conv.Temperature = chatTemperature
		}
		if chatMaxTokens != 0 {
			conv.MaxTokens = chatMaxTokens
		}
		if chatSystem != "" {
			conv.SetSystem(chatSystem)
		}

		for _, path := range chatFiles {
			attachment, err := chat.ReadAttachment(path)
			if err != nil {
				return err
			}
			prompt += attachment
		}

		client, err := newClient(cfg)
		if err != nil {
			return err
		}

		model := cfg.Model
		if chatModel != "" {
			model = chatModel
		}

		conv.Append(chat.RoleUser, prompt)
		req := conv.Request(model)

		render := chatRenderMarkdown || cfg.RenderMarkdown

		var full string
		if chatStream {
			full, err = streamCompletion(cmd, cfg, client, req, printer.Chunk)
			if err == nil {
				printer.Println()
				if render {
					printer.Markdown(full)
				}
			}
		} else {
			full, err = client.Complete(cmd.Context(), req)
			if err == nil {
				printer.Response(full, render)
			}
		}
		if err != nil {
			return fmt.Errorf("%s: %w", provider.Kind(err), err)
		}

		conv.Append(chat.RoleAssistant, full)

		if chatKeepContext {
			if err := store.SaveContext(conv); err != nil {
				return err
			}
		}
		if chatSave {
			id, err := store.Save(conv, model)
			if err != nil {
				return err
			}
			printer.Successf("History saved to session %s", id)
		}
		return nil
	},
}

// streamCompletion streams one completion; OpenAI-compatible backends fall
// back once to a non-streaming request when the stream fails before any
// output.
func streamCompletion(cmd *cobra.Command, cfg *config.Config, client provider.Client, req provider.CompletionRequest, fn provider.StreamFunc) (string, error) {
	if cfg.Provider == config.ProviderOpenAI {
		return provider.StreamWithFallback(cmd.Context(), client, req, fn)
	}

	var sb strings.Builder
	err := client.Stream(cmd.Context(), req, func(chunk string) {
		sb.WriteString(chunk)
		fn(chunk)
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// resolvePrompt picks the prompt from the argument, the prompt file, or
// stdin, in that order.
func resolvePrompt(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if chatPromptFile != "" {
		data, err := os.ReadFile(chatPromptFile)
		if err != nil {
			return "", fmt.Errorf("reading prompt file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading from stdin: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("no prompt provided: pass an argument, --prompt-file, or pipe content")
	}
	return prompt, nil
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&chatModel, "model", "m", viper.GetString("model"), "Model to use for the completion")
	chatCmd.Flags().BoolVarP(&chatStream, "stream", "s", false, "Stream the response")
	chatCmd.Flags().StringVar(&chatSystem, "system", "", "System prompt to use")
	chatCmd.Flags().Float64VarP(&chatTemperature, "temperature", "t", 0.7, "Temperature for sampling")
	chatCmd.Flags().IntVar(&chatMaxTokens, "max-tokens", 0, "Maximum number of tokens to generate")
	chatCmd.Flags().StringArrayVarP(&chatFiles, "file", "f", nil, "Path to file(s) to include as context")
	chatCmd.Flags().BoolVarP(&chatKeepContext, "context", "c", false, "Continue the persistent conversation context")
	chatCmd.Flags().BoolVar(&chatSave, "save", false, "Save the conversation to session history")
	chatCmd.Flags().BoolVarP(&chatRenderMarkdown, "render-markdown", "r", false, "Render the response as Markdown")
	chatCmd.Flags().StringVar(&chatPromptFile, "prompt-file", "", "Path to a file containing the prompt")
}
