package intgraph

// Severity ranks a risk signal.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// RiskSignal is one actionable finding derived from a built graph.
type RiskSignal struct {
	NodeID      string   `json:"node_id"`
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	Remediation string   `json:"remediation"`
}

// ExtractRiskSignals reports findings over a built graph: one signal per
// missing secret, per idle system, and per orphan workflow. The graph is
// not modified.
func ExtractRiskSignals(g *Graph) []RiskSignal {
	signals := []RiskSignal{}
	for _, n := range g.Nodes {
		switch {
		case n.Type == NodeSecret && n.Status == StatusMissing:
			signals = append(signals, RiskSignal{
				NodeID:      n.ID,
				Type:        "missing_secret",
				Severity:    SeverityHigh,
				Message:     "No active credential found for " + n.Label,
				Remediation: "Activate a secret for this provider so its integrations can authenticate.",
			})
		case n.Type == NodeSystem && n.Status == StatusIdle:
			signals = append(signals, RiskSignal{
				NodeID:      n.ID,
				Type:        "idle_system",
				Severity:    SeverityMedium,
				Message:     n.Label + " is configured but no workflow is exercising it",
				Remediation: "Create a workflow mapping for this system or disable the instance.",
			})
		case n.Type == NodeWorkflow && n.Status == StatusOrphan:
			signals = append(signals, RiskSignal{
				NodeID:      n.ID,
				Type:        "orphan_workflow",
				Severity:    SeverityMedium,
				Message:     "Workflow " + n.Label + " does not match any configured system",
				Remediation: "Rename the workflow to reference a system slug or remove it.",
			})
		}
	}
	return signals
}
