package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fitscope/fitscope/pkg/render"
	"github.com/fitscope/fitscope/pkg/scoring"
)

func newScoreCmd() *cobra.Command {
	var (
		catalogDir string
		statePath  string
		configPath string
		tenantFlag string
		appKey     string
		system     string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one app against one external system",
		Long:  `Computes the weighted compatibility score for a single app/system pair from a local catalog and optional tenant state file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadLocalEnv(catalogDir, statePath, configPath, tenantFlag)
			if err != nil {
				return err
			}

			score, err := env.engine.ComputeFit(cmd.Context(), env.tenantID, appKey, system)
			if err != nil {
				return err
			}

			if asJSON {
				renderer := &render.JSONRenderer{}
				return renderer.RenderScore(os.Stdout, score)
			}
			renderer := &render.TerminalRenderer{}
			return renderer.RenderScore(os.Stdout, score)
		},
	}

	addLocalFlags(cmd, &catalogDir, &statePath, &configPath, &tenantFlag)
	cmd.Flags().StringVar(&appKey, "app", "", "App key to score (required)")
	cmd.Flags().StringVar(&system, "system", "", "External system slug (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	_ = cmd.MarkFlagRequired("app")
	_ = cmd.MarkFlagRequired("system")

	return cmd
}

func newMatrixCmd() *cobra.Command {
	var (
		catalogDir string
		statePath  string
		configPath string
		tenantFlag string
		appKey     string
		provider   string
		minScore   int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Score one app against every cataloged system",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadLocalEnv(catalogDir, statePath, configPath, tenantFlag)
			if err != nil {
				return err
			}

			if minScore < 0 || minScore > 100 {
				return fmt.Errorf("--min-score must be in [0,100], got %d", minScore)
			}
			filters := &scoring.MatrixFilters{Provider: provider, MinScore: minScore}
			if filters.MinScore == 0 {
				filters.MinScore = env.cfg.Matrix.MinScore
			}

			rows, err := env.engine.ComputeMatrix(cmd.Context(), env.tenantID, appKey, filters)
			if err != nil {
				return err
			}

			scores := make([]scoring.CompatibilityScore, len(rows))
			for i, row := range rows {
				scores[i] = *row
			}

			if asJSON {
				renderer := &render.JSONRenderer{}
				return renderer.RenderMatrix(os.Stdout, appKey, scores)
			}
			renderer := &render.TerminalRenderer{}
			return renderer.RenderMatrix(os.Stdout, appKey, scores)
		},
	}

	addLocalFlags(cmd, &catalogDir, &statePath, &configPath, &tenantFlag)
	cmd.Flags().StringVar(&appKey, "app", "", "App key to score (required)")
	cmd.Flags().StringVar(&provider, "provider", "", "Keep only systems integrating with this provider")
	cmd.Flags().IntVar(&minScore, "min-score", 0, "Drop systems scoring below this threshold")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	_ = cmd.MarkFlagRequired("app")

	return cmd
}

func addLocalFlags(cmd *cobra.Command, catalogDir, statePath, configPath, tenantFlag *string) {
	cmd.Flags().StringVar(catalogDir, "catalog", "catalog", "Directory holding apps.yaml and systems.yaml")
	cmd.Flags().StringVar(statePath, "state", "", "Tenant state YAML file (optional)")
	cmd.Flags().StringVar(configPath, "config", "", "Config file (default: nearest .fitscope/config.yaml)")
	cmd.Flags().StringVar(tenantFlag, "tenant", "", "Tenant id (default: from state file)")
}
