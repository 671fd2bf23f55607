/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/QinCai-rui/mdllama/internal/provider"
)

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available on the active provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newClient(cfg)
		if err != nil {
			return err
		}

		models, err := client.ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s: %w", provider.Kind(err), err)
		}
		if len(models) == 0 {
			fmt.Println("No models available.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSIZE\tMODIFIED")
		for _, m := range models {
			fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, formatSize(m.Size), formatTime(m.ModifiedAt))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
