package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fitscope/fitscope/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Work with catalog files",
	}
	cmd.AddCommand(newCatalogValidateCmd())
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	var (
		catalogDir string
		statePath  string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate catalog and state files against their schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(catalogDir)
			if err != nil {
				return fmt.Errorf("catalog invalid: %w", err)
			}
			fmt.Fprintf(os.Stdout, "Catalog OK: %d apps, %d systems\n", len(cat.Apps), len(cat.Systems))

			if statePath != "" {
				state, err := catalog.LoadState(statePath)
				if err != nil {
					return fmt.Errorf("state invalid: %w", err)
				}
				fmt.Fprintf(os.Stdout, "State OK: tenant %s, %d instances, %d workflow runs\n",
					state.TenantID, len(state.Instances), len(state.WorkflowRuns))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogDir, "catalog", "catalog", "Directory holding apps.yaml and systems.yaml")
	cmd.Flags().StringVar(&statePath, "state", "", "Tenant state YAML file (optional)")

	return cmd
}
