/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/QinCai-rui/mdllama/internal/release"
	"github.com/QinCai-rui/mdllama/internal/version"
)

// checkReleaseCmd represents the check-release command
var checkReleaseCmd = &cobra.Command{
	Use:   "check-release",
	Short: "Check GitHub for a newer release",
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := newPrinter()
		checker := release.NewChecker()

		stable, pre, err := checker.Latest(cmd.Context())
		if err != nil {
			return err
		}

		current := version.Short()
		printer.Infof("Current version: %s", current)

		if stable == nil && pre == nil {
			printer.Infof("No releases found for %s", release.Repo)
			return nil
		}

		if stable != nil {
			if stable.Version() == current {
				printer.Successf("You are on the latest stable release (%s)", stable.Version())
			} else {
				printer.Infof("Latest stable release: %s (%s)", stable.Version(), stable.HTMLURL)
			}
		}
		if pre != nil {
			printer.Infof("Latest pre-release: %s (%s)", pre.Version(), pre.HTMLURL)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkReleaseCmd)
}
