/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/QinCai-rui/mdllama/internal/provider"
)

// pullCmd represents the pull command
var pullCmd = &cobra.Command{
	Use:   "pull <model>",
	Short: "Download a model to the local Ollama daemon",
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
		printer.Infof("Pulling %s...", name)

		var last string
		err = mgr.Pull(cmd.Context(), name, func(status string) {
			// The daemon repeats status lines while a layer downloads.
			if status == last {
				return
			}
			last = status
			printer.Printf("%s\n", status)
		})
		if err != nil {
			return fmt.Errorf("%s: %w", provider.Kind(err), err)
		}

		printer.Successf("Pulled %s", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
}
