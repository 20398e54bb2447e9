package scoring

import "github.com/fitscope/fitscope/pkg/compat"

// Weights holds all tunable scoring parameters.
type Weights struct {
	// Dimension weights. Must sum to 1.0.
	CapabilityWeight float64
	ReadinessWeight  float64
	ComplianceWeight float64
	MaturityWeight   float64

	// Readiness signal weights. An active workflow is the strongest signal,
	// a declared MCP reference a weaker "could integrate" signal, an active
	// credential alone the weakest (it proves nothing is wired yet).
	ReadinessWorkflowSignal float64
	ReadinessMCPSignal      float64
	ReadinessSecretSignal   float64

	// Maturity ladder thresholds and contributions.
	MaturityIntegrationsHigh    int
	MaturityIntegrationsLow     int
	MaturityMCPHigh             int
	MaturityMCPLow              int
	MaturityHighContribution    float64
	MaturityLowContribution     float64

	// Recommendation and badge thresholds.
	MCPGapSuggestionCap    int // suppress "Add MCP reference" noise above this many gaps
	LimitedCapabilityBelow int // "Limited capabilities" badge threshold
}

// Defaults returns the default scoring weights.
func Defaults() Weights {
	return Weights{
		CapabilityWeight: 0.40,
		ReadinessWeight:  0.30,
		ComplianceWeight: 0.20,
		MaturityWeight:   0.10,

		ReadinessWorkflowSignal: 1.0,
		ReadinessMCPSignal:      0.5,
		ReadinessSecretSignal:   0.1,

		MaturityIntegrationsHigh: 3,
		MaturityIntegrationsLow:  1,
		MaturityMCPHigh:          2,
		MaturityMCPLow:           1,
		MaturityHighContribution: 0.5,
		MaturityLowContribution:  0.25,

		MCPGapSuggestionCap:    2,
		LimitedCapabilityBelow: 50,
	}
}

// MaxPairSignal is the maximum attainable per-pair readiness signal sum,
// used as the normalization denominator.
func (w Weights) MaxPairSignal() float64 {
	return w.ReadinessWorkflowSignal + w.ReadinessMCPSignal + w.ReadinessSecretSignal
}

// ComplianceCheck is one entry in the compliance checklist.
type ComplianceCheck struct {
	Requirement string
	Check       func(system *compat.ExternalSystem) bool
}

// DefaultComplianceChecklist returns the standard checklist. The list is
// deliberately closed today (GDPR and SAF-T NO); it is modeled as data so
// growing compliance catalogs do not require calculator changes.
func DefaultComplianceChecklist() []ComplianceCheck {
	return []ComplianceCheck{
		{Requirement: "GDPR", Check: hasCompliance("GDPR")},
		{Requirement: "SAF-T NO", Check: hasCompliance("SAF-T NO")},
	}
}

// ComplianceChecklistFor builds a checklist from a list of requirement
// names, each checked against the system's declared compliances.
func ComplianceChecklistFor(requirements []string) []ComplianceCheck {
	checks := make([]ComplianceCheck, 0, len(requirements))
	for _, req := range requirements {
		checks = append(checks, ComplianceCheck{Requirement: req, Check: hasCompliance(req)})
	}
	return checks
}

func hasCompliance(requirement string) func(*compat.ExternalSystem) bool {
	return func(system *compat.ExternalSystem) bool {
		for _, c := range system.Compliances {
			if c == requirement {
				return true
			}
		}
		return false
	}
}
