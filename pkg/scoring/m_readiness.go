package scoring

import (
	"sort"

	"github.com/fitscope/fitscope/pkg/compat"
)

// ReadinessCalculator scores how wired-up the tenant already is for each
// (requirement category, provider) pair the app declares. Three independent
// signals are checked per pair: an active workflow adapter, a declared MCP
// reference on the system, and an active secret for the provider.
type ReadinessCalculator struct {
	Weight         float64
	WorkflowSignal float64
	MCPSignal      float64
	SecretSignal   float64
}

func (c *ReadinessCalculator) Key() string  { return "integration_readiness" }
func (c *ReadinessCalculator) Name() string { return "Integration readiness" }

func (c *ReadinessCalculator) Evaluate(in Inputs) Component {
	comp := Component{Key: c.Key(), Weight: c.Weight}

	// Categories are a map; iterate in sorted order so identical inputs
	// always produce identical detail ordering.
	categories := make([]string, 0, len(in.App.IntegrationRequirements))
	for category := range in.App.IntegrationRequirements {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var sum float64
	var pairs int

	for _, category := range categories {
		for _, provider := range in.App.IntegrationRequirements[category] {
			pairs++

			hasWorkflow := false
			for _, ti := range in.Integrations {
				if compat.ContainsFold(ti.AdapterID, provider) {
					hasWorkflow = true
					break
				}
			}

			hasMCPRef := false
			for _, si := range in.System.Integrations {
				if si.Type == "mcp" && compat.ContainsFold(si.Name, provider) {
					hasMCPRef = true
					break
				}
			}

			hasActiveSecret := in.SecretProviders[provider]

			var pairScore float64
			if hasWorkflow {
				pairScore += c.WorkflowSignal
			}
			if hasMCPRef {
				pairScore += c.MCPSignal
			}
			if hasActiveSecret {
				pairScore += c.SecretSignal
			}
			sum += pairScore

			comp.Details = append(comp.Details, Detail{
				Kind:            DetailIntegrationPair,
				Name:            provider,
				Category:        category,
				Available:       hasWorkflow,
				HasWorkflow:     hasWorkflow,
				HasMCPRef:       hasMCPRef,
				HasActiveSecret: hasActiveSecret,
				Score:           pairScore,
			})
		}
	}

	if pairs == 0 {
		return comp
	}

	maxSignal := c.WorkflowSignal + c.MCPSignal + c.SecretSignal
	comp.Score = roundScore(sum / (float64(pairs) * maxSignal))
	return comp
}
