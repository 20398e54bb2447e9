// Package scoring implements the Fitscope compatibility scoring engine.
// It evaluates how well a platform app fits an external system and produces
// explainable, evidence-backed scores.
package scoring

// CompatibilityScore is the complete output of one fit computation.
// Immutable once computed; computed fresh on every call, never cached here.
type CompatibilityScore struct {
	AppKey          string    `json:"app_key"`
	SystemSlug      string    `json:"system_slug"`
	SystemName      string    `json:"system_name"`
	TotalScore      int       `json:"total_score"` // 0-100
	Breakdown       Breakdown `json:"breakdown"`
	Explain         []string  `json:"explain"`
	Recommendations []string  `json:"recommendations"`
	Badges          []string  `json:"badges"`
}

// Breakdown holds the four weighted sub-scores.
type Breakdown struct {
	CapabilityMatch      Component `json:"capability_match"`
	IntegrationReadiness Component `json:"integration_readiness"`
	Compliance           Component `json:"compliance"`
	EcosystemMaturity    Component `json:"ecosystem_maturity"`
}

// Components returns the breakdown entries in evaluation order.
func (b Breakdown) Components() []Component {
	return []Component{b.CapabilityMatch, b.IntegrationReadiness, b.Compliance, b.EcosystemMaturity}
}

// Component is the output of a single calculator.
type Component struct {
	Key     string   `json:"key"`    // machine key: "capability_match"
	Score   int      `json:"score"`  // 0-100
	Weight  float64  `json:"weight"` // share of the total score
	Details []Detail `json:"details"`
}

// Detail is a single piece of evidence backing a component score.
// Fields are populated per detail kind; unused fields are omitted.
type Detail struct {
	Kind            DetailKind `json:"kind"`
	Name            string     `json:"name"`               // capability, provider, requirement, or signal name
	Category        string     `json:"category,omitempty"` // readiness requirement category
	Available       bool       `json:"available"`
	ReadWrite       string     `json:"read_write,omitempty"` // "full" or "none"
	HasWorkflow     bool       `json:"has_workflow,omitempty"`
	HasMCPRef       bool       `json:"has_mcp_ref,omitempty"`
	HasActiveSecret bool       `json:"has_active_secret,omitempty"`
	Score           float64    `json:"score"`
}

// DetailKind classifies what kind of evidence a Detail is.
type DetailKind string

const (
	DetailCapability      DetailKind = "CAPABILITY"
	DetailIntegrationPair DetailKind = "INTEGRATION_PAIR"
	DetailCompliance      DetailKind = "COMPLIANCE"
	DetailMaturitySignal  DetailKind = "MATURITY_SIGNAL"
)

// Read/write access levels reported per capability. The model has no
// partial-access representation.
const (
	ReadWriteFull = "full"
	ReadWriteNone = "none"
)
