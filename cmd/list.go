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

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List locally installed Ollama models",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newClient(cfg)
		if err != nil {
			return err
		}
		if _, ok := client.(provider.ModelManager); !ok {
			return fmt.Errorf("listing local models requires the ollama provider (current: %s)", cfg.Provider)
		}

		models, err := client.ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s: %w", provider.Kind(err), err)
		}
		if len(models) == 0 {
			fmt.Println("No models installed.")
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

// formatSize renders a byte count with a binary unit suffix.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func init() {
	rootCmd.AddCommand(listCmd)
}
