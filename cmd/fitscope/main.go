// Package main provides the fitscope CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "fitscope",
		Short: "Compatibility scoring for SaaS integration stacks",
		Long: `Fitscope scores how well business apps fit candidate external systems,
builds per-tenant integration graphs, and surfaces operational risk.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newScoreCmd(),
		newMatrixCmd(),
		newGraphCmd(),
		newRisksCmd(),
		newCatalogCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
