package scoring

// MaturityCalculator scores the breadth of the system's declared integration
// ecosystem. The ladder is deliberately non-linear: a handful of declared
// integrations says more than the exact count.
type MaturityCalculator struct {
	Weight           float64
	IntegrationsHigh int
	IntegrationsLow  int
	MCPHigh          int
	MCPLow           int
	HighContribution float64
	LowContribution  float64
}

func (c *MaturityCalculator) Key() string  { return "ecosystem_maturity" }
func (c *MaturityCalculator) Name() string { return "Ecosystem maturity" }

func (c *MaturityCalculator) Evaluate(in Inputs) Component {
	comp := Component{Key: c.Key(), Weight: c.Weight}

	total := len(in.System.Integrations)
	mcp := 0
	for _, si := range in.System.Integrations {
		if si.Type == "mcp" {
			mcp++
		}
	}

	integContribution := c.ladder(total, c.IntegrationsHigh, c.IntegrationsLow)
	mcpContribution := c.ladder(mcp, c.MCPHigh, c.MCPLow)

	comp.Details = append(comp.Details,
		Detail{
			Kind:      DetailMaturitySignal,
			Name:      "integration_count",
			Available: integContribution > 0,
			Score:     integContribution,
		},
		Detail{
			Kind:      DetailMaturitySignal,
			Name:      "mcp_count",
			Available: mcpContribution > 0,
			Score:     mcpContribution,
		},
	)

	sum := integContribution + mcpContribution
	score := roundScore(sum)
	if score > 100 {
		score = 100
	}
	comp.Score = score
	return comp
}

func (c *MaturityCalculator) ladder(count, high, low int) float64 {
	switch {
	case count >= high:
		return c.HighContribution
	case count >= low:
		return c.LowContribution
	default:
		return 0
	}
}
