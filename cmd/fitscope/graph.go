package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fitscope/fitscope/pkg/intgraph"
	"github.com/fitscope/fitscope/pkg/render"
)

func newGraphCmd() *cobra.Command {
	var (
		catalogDir      string
		statePath       string
		configPath      string
		tenantFlag      string
		noRecs          bool
		includeInactive bool
		focus           string
		depth           int
		outPath         string
		asJSON          bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Build the tenant integration graph",
		Long:  `Builds the integration graph for a tenant from a local catalog and state file, optionally restricted to the neighborhood of one node.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadLocalEnv(catalogDir, statePath, configPath, tenantFlag)
			if err != nil {
				return err
			}

			builder := intgraph.NewBuilder(env.gw)
			g, err := builder.Build(cmd.Context(), env.tenantID, intgraph.Options{
				IncludeRecommendations: !noRecs,
				IncludeInactive:        includeInactive,
			})
			if err != nil {
				return err
			}

			if outPath != "" {
				if err := intgraph.SaveGraph(outPath, g); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Graph saved: %s\n", outPath)
			}

			if focus != "" {
				view := intgraph.Neighborhood(g, focus, depth)
				if view == nil {
					return fmt.Errorf("node %q not in graph", focus)
				}
				// Render the neighborhood as a standalone graph.
				// Stats stay zero; they would be misleading for a partial view.
				g = &intgraph.Graph{
					TenantID: g.TenantID,
					Nodes:    view.Nodes,
					Edges:    view.Edges,
				}
			}

			if asJSON {
				renderer := &render.JSONRenderer{}
				return renderer.RenderGraph(os.Stdout, g)
			}
			renderer := &render.TerminalRenderer{}
			return renderer.RenderGraph(os.Stdout, g)
		},
	}

	addLocalFlags(cmd, &catalogDir, &statePath, &configPath, &tenantFlag)
	cmd.Flags().BoolVar(&noRecs, "no-recommendations", false, "Skip recommendation nodes")
	cmd.Flags().BoolVar(&includeInactive, "include-inactive", false, "Include disabled system instances")
	cmd.Flags().StringVar(&focus, "focus", "", "Restrict output to the neighborhood of this node id")
	cmd.Flags().IntVar(&depth, "depth", 1, "Neighborhood depth when --focus is set")
	cmd.Flags().StringVar(&outPath, "out", "", "Also write the full graph JSON to this path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")

	return cmd
}

func newRisksCmd() *cobra.Command {
	var (
		catalogDir string
		statePath  string
		configPath string
		tenantFlag string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "risks",
		Short: "Extract risk signals from the integration graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadLocalEnv(catalogDir, statePath, configPath, tenantFlag)
			if err != nil {
				return err
			}

			builder := intgraph.NewBuilder(env.gw)
			g, err := builder.Build(cmd.Context(), env.tenantID, intgraph.Options{IncludeRecommendations: true})
			if err != nil {
				return err
			}

			signals := intgraph.ExtractRiskSignals(g)

			if asJSON {
				renderer := &render.JSONRenderer{}
				return renderer.RenderRisks(os.Stdout, signals)
			}
			renderer := &render.TerminalRenderer{}
			return renderer.RenderRisks(os.Stdout, signals)
		},
	}

	addLocalFlags(cmd, &catalogDir, &statePath, &configPath, &tenantFlag)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")

	return cmd
}
