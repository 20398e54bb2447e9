package scoring

// ComplianceCalculator scores the system against a fixed checklist of named
// compliance requirements. Each entry contributes a binary 0 or 1 to the mean.
type ComplianceCalculator struct {
	Weight    float64
	Checklist []ComplianceCheck
}

func (c *ComplianceCalculator) Key() string  { return "compliance" }
func (c *ComplianceCalculator) Name() string { return "Compliance match" }

func (c *ComplianceCalculator) Evaluate(in Inputs) Component {
	comp := Component{Key: c.Key(), Weight: c.Weight}

	if len(c.Checklist) == 0 {
		return comp
	}

	var sum float64
	for _, check := range c.Checklist {
		met := check.Check(in.System)

		score := 0.0
		if met {
			score = 1.0
		}
		sum += score

		comp.Details = append(comp.Details, Detail{
			Kind:      DetailCompliance,
			Name:      check.Requirement,
			Available: met,
			Score:     score,
		})
	}

	comp.Score = roundScore(sum / float64(len(c.Checklist)))
	return comp
}
