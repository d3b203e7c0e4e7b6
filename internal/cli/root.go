// Package cli implements the Stagecraft command-line interface using Cobra.
// Each subcommand maps to a daemon capability (serve, status, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stagecraft",
	Short: "Stagecraft — Gamification backend for the mobile app",
	Long: `Stagecraft is the gamification and referral backend.
It tracks stage progression, achievement unlocks, stage-gated resources,
and the referral-to-discount conversion workflow.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
