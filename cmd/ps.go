/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/QinCai-rui/mdllama/internal/provider"
)

// psCmd represents the ps command
var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List models currently loaded by the Ollama daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		mgr, err := newModelManager(cfg)
		if err != nil {
			return err
		}

		running, err := mgr.Running(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s: %w", provider.Kind(err), err)
		}
		if len(running) == 0 {
			fmt.Println("No models are currently running.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSIZE\tUNTIL")
		for _, m := range running {
			fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, formatSize(m.Size), formatUntil(m.ExpiresAt))
		}
		return w.Flush()
	},
}

// formatUntil renders how long a loaded model stays resident.
func formatUntil(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Until(t)
	if d <= 0 {
		return "stopping"
	}
	return d.Round(time.Second).String()
}

func init() {
	rootCmd.AddCommand(psCmd)
}
