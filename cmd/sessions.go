/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/QinCai-rui/mdllama/internal/chat"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved chat sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newHistoryStore()
		if err != nil {
			return err
		}

		records, err := store.List()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No saved sessions.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tMODEL\tMESSAGES")
		for _, r := range records {
			if r.Corrupt {
				fmt.Fprintf(w, "%s\t-\t-\t(corrupted)\n", r.ID)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", r.ID, formatTime(r.CreatedAt), r.Model, r.MessageCount)
		}
		return w.Flush()
	},
}

// loadSessionCmd represents the load-session command
var loadSessionCmd = &cobra.Command{
	Use:   "load-session <id>",
	Short: "Load a saved session into the conversation context",
	Long: `Print the transcript of a saved session and make it the persistent
conversation context, so that 'chat --context' and 'run --context'
continue from it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := newPrinter()
		store, err := newHistoryStore()
		if err != nil {
			return err
		}

		conv, err := store.Load(args[0])
		if err != nil {
			return err
		}

		for _, m := range conv.Messages {
			switch m.Role {
			case chat.RoleSystem:
				printer.Infof("[system] %s", m.Content)
			case chat.RoleUser:
				printer.Commandf(">>> %s", m.Content)
			default:
				printer.Printf("%s\n", m.Content)
			}
		}

		if err := store.SaveContext(conv); err != nil {
			return err
		}
		printer.Successf("Session %s loaded into context (%d messages)", args[0], conv.Len())
		return nil
	},
}

// clearContextCmd represents the clear-context command
var clearContextCmd = &cobra.Command{
	Use:   "clear-context",
	Short: "Clear the persistent conversation context",
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := newPrinter()
		store, err := newHistoryStore()
		if err != nil {
			return err
		}
		if err := store.ClearContext(); err != nil {
			return err
		}
		printer.Successf("Context cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(loadSessionCmd)
	rootCmd.AddCommand(clearContextCmd)
}
