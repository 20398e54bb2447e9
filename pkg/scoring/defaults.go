package scoring

// DefaultCalculators returns the standard calculator set for the given
// weights and compliance checklist.
func DefaultCalculators(w Weights, checklist []ComplianceCheck) []Calculator {
	return []Calculator{
		&CapabilityCalculator{
			Weight: w.CapabilityWeight,
		},
		&ReadinessCalculator{
			Weight:         w.ReadinessWeight,
			WorkflowSignal: w.ReadinessWorkflowSignal,
			MCPSignal:      w.ReadinessMCPSignal,
			SecretSignal:   w.ReadinessSecretSignal,
		},
		&ComplianceCalculator{
			Weight:    w.ComplianceWeight,
			Checklist: checklist,
		},
		&MaturityCalculator{
			Weight:           w.MaturityWeight,
			IntegrationsHigh: w.MaturityIntegrationsHigh,
			IntegrationsLow:  w.MaturityIntegrationsLow,
			MCPHigh:          w.MaturityMCPHigh,
			MCPLow:           w.MaturityMCPLow,
			HighContribution: w.MaturityHighContribution,
			LowContribution:  w.MaturityLowContribution,
		},
	}
}
