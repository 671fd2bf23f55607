/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/QinCai-rui/mdllama/internal/provider"
)

// rmCmd represents the rm command
var rmCmd = &cobra.Command{
	Use:   "rm <model>",
	Short: "Remove a model from the local Ollama daemon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		printer := newPrinter()
		mgr, err := newModelManager(cfg)
		if err != nil {
			return err
		}

		name := args[0]
		if err := mgr.Remove(cmd.Context(), name); err != nil {
			return fmt.Errorf("%s: %w", provider.Kind(err), err)
		}

		printer.Successf("Removed %s", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
