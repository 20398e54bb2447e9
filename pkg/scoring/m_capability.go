package scoring

import "github.com/fitscope/fitscope/pkg/compat"

// CapabilityCalculator scores how many of the app's required capabilities
// the external system's modules cover. A capability is available when any
// module name contains it as a case-insensitive substring; each contributes
// a binary 0 or 1 to the mean.
type CapabilityCalculator struct {
	Weight float64
}

func (c *CapabilityCalculator) Key() string  { return "capability_match" }
func (c *CapabilityCalculator) Name() string { return "Capability match" }

func (c *CapabilityCalculator) Evaluate(in Inputs) Component {
	comp := Component{Key: c.Key(), Weight: c.Weight}

	// No declared capabilities means no credit, not a skipped dimension.
	if len(in.App.Capabilities) == 0 {
		return comp
	}

	var sum float64
	for _, capability := range in.App.Capabilities {
		available := compat.AnyContainsFold(in.System.Modules, capability)

		score := 0.0
		readWrite := ReadWriteNone
		if available {
			score = 1.0
			readWrite = ReadWriteFull
		}
		sum += score

		comp.Details = append(comp.Details, Detail{
			Kind:      DetailCapability,
			Name:      capability,
			Available: available,
			ReadWrite: readWrite,
			Score:     score,
		})
	}

	comp.Score = roundScore(sum / float64(len(in.App.Capabilities)))
	return comp
}
