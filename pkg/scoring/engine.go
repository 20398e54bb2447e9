package scoring

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/fitscope/fitscope/pkg/compat"
)

// Calculator is the interface all scoring dimensions implement.
type Calculator interface {
	// Key returns the machine-readable calculator identifier.
	Key() string
	// Name returns the human-readable calculator name.
	Name() string
	// Evaluate computes the dimension's component for the given inputs.
	Evaluate(in Inputs) Component
}

// Inputs holds the fetched records a calculator evaluates. All fields are
// read-only to calculators.
type Inputs struct {
	App             *compat.AppDefinition
	System          *compat.ExternalSystem
	Integrations    []compat.TenantIntegration
	SecretProviders map[string]bool
}

// Engine runs all configured calculators and aggregates a CompatibilityScore.
type Engine struct {
	gw                compat.Gateway
	weights           Weights
	calculators       []Calculator
	matrixConcurrency int
}

// NewEngine creates a scoring engine with default weights and the standard
// calculator set.
func NewEngine(gw compat.Gateway) *Engine {
	w := Defaults()
	return NewEngineWithConfig(gw, w, DefaultComplianceChecklist())
}

// NewEngineWithConfig creates a scoring engine with explicit weights and
// compliance checklist.
func NewEngineWithConfig(gw compat.Gateway, w Weights, checklist []ComplianceCheck) *Engine {
	return &Engine{
		gw:                gw,
		weights:           w,
		calculators:       DefaultCalculators(w, checklist),
		matrixConcurrency: DefaultMatrixConcurrency,
	}
}

// WithMatrixConcurrency overrides the matrix fan-out bound. Values < 1 keep
// the current bound.
func (e *Engine) WithMatrixConcurrency(n int) *Engine {
	if n >= 1 {
		e.matrixConcurrency = n
	}
	return e
}

// ComputeFit fetches the referenced app, system, and tenant state, runs all
// calculators, and aggregates the weighted total with explanations,
// recommendations, and badges. Unknown app keys and system slugs fail with
// a *compat.NotFoundError; nothing is retried.
func (e *Engine) ComputeFit(ctx context.Context, tenantID, appKey, systemSlug string) (*CompatibilityScore, error) {
	app, err := e.gw.GetApp(ctx, appKey)
	if err != nil {
		return nil, err
	}
	system, err := e.gw.GetSystem(ctx, systemSlug)
	if err != nil {
		return nil, err
	}
	integrations, err := e.gw.ListActiveIntegrations(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list active integrations: %w", err)
	}
	secretProviders, err := e.gw.ListActiveSecretProviders(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list active secret providers: %w", err)
	}

	in := Inputs{
		App:             app,
		System:          system,
		Integrations:    integrations,
		SecretProviders: secretProviders,
	}

	result := &CompatibilityScore{
		AppKey:     app.Key,
		SystemSlug: system.Slug,
		SystemName: system.Name,
	}

	var total float64
	for _, calc := range e.calculators {
		comp := calc.Evaluate(in)
		total += float64(comp.Score) * comp.Weight

		switch comp.Key {
		case "capability_match":
			result.Breakdown.CapabilityMatch = comp
		case "integration_readiness":
			result.Breakdown.IntegrationReadiness = comp
		case "compliance":
			result.Breakdown.Compliance = comp
		case "ecosystem_maturity":
			result.Breakdown.EcosystemMaturity = comp
		}
	}
	result.TotalScore = roundInt(total)

	result.Explain = e.explain(result.Breakdown)
	result.Recommendations = e.recommend(result.Breakdown)
	result.Badges = e.badges(result.Breakdown)

	return result, nil
}

// explain generates the human-readable summary lines from the breakdown.
func (e *Engine) explain(b Breakdown) []string {
	var explain []string

	var missingCaps []string
	for _, d := range b.CapabilityMatch.Details {
		if !d.Available {
			missingCaps = append(missingCaps, d.Name)
		}
	}
	if len(missingCaps) > 0 {
		explain = append(explain, "Missing capabilities: "+strings.Join(missingCaps, ", "))
	} else {
		explain = append(explain, "All required capabilities are supported")
	}

	if gaps := workflowGaps(b.IntegrationReadiness.Details); len(gaps) > 0 {
		explain = append(explain, "Missing workflows for: "+strings.Join(gaps, ", "))
	}

	var missingCompliance []string
	for _, d := range b.Compliance.Details {
		if !d.Available {
			missingCompliance = append(missingCompliance, d.Name)
		}
	}
	if len(missingCompliance) > 0 {
		explain = append(explain, "Missing compliance: "+strings.Join(missingCompliance, ", "))
	}

	return explain
}

// recommend generates actionable suggestions from the readiness details.
// MCP-reference suggestions are suppressed once the gap count exceeds the
// configured cap, so near-duplicate suggestions do not drown the real ones.
func (e *Engine) recommend(b Breakdown) []string {
	var recs []string

	seenWorkflow := make(map[string]bool)
	seenSecret := make(map[string]bool)
	var mcpGaps []string
	seenMCP := make(map[string]bool)

	for _, d := range b.IntegrationReadiness.Details {
		if !d.HasWorkflow && !seenWorkflow[d.Name] {
			seenWorkflow[d.Name] = true
			recs = append(recs, "Create workflow mapping for "+d.Name)
		}
		if d.HasWorkflow && !d.HasActiveSecret && !seenSecret[d.Name] {
			seenSecret[d.Name] = true
			recs = append(recs, "Activate secret for "+d.Name)
		}
		if !d.HasMCPRef && !seenMCP[d.Name] {
			seenMCP[d.Name] = true
			mcpGaps = append(mcpGaps, d.Name)
		}
	}

	if len(mcpGaps) <= e.weights.MCPGapSuggestionCap {
		for _, provider := range mcpGaps {
			recs = append(recs, "Add MCP reference for "+provider)
		}
	}

	return recs
}

func (e *Engine) badges(b Breakdown) []string {
	var badges []string

	if b.CapabilityMatch.Score < e.weights.LimitedCapabilityBelow {
		badges = append(badges, "Limited capabilities")
	}
	if len(workflowGaps(b.IntegrationReadiness.Details)) > 0 {
		badges = append(badges, "Missing workflows")
	}
	if anySecretGap(b.IntegrationReadiness.Details) {
		badges = append(badges, "No active secrets")
	}
	if b.Compliance.Score < 100 {
		badges = append(badges, "Incomplete compliance")
	}

	return badges
}

// workflowGaps returns the distinct providers lacking a workflow, in
// detail order.
func workflowGaps(details []Detail) []string {
	seen := make(map[string]bool)
	var gaps []string
	for _, d := range details {
		if !d.HasWorkflow && !seen[d.Name] {
			seen[d.Name] = true
			gaps = append(gaps, d.Name)
		}
	}
	return gaps
}

func anySecretGap(details []Detail) bool {
	for _, d := range details {
		if !d.HasActiveSecret {
			return true
		}
	}
	return false
}

// roundScore converts a 0..1 fraction to a rounded 0-100 integer.
func roundScore(fraction float64) int {
	return roundInt(fraction * 100)
}

func roundInt(x float64) int {
	return int(math.Round(x))
}
