// Package intgraph builds the tenant integration topology graph: apps,
// systems, providers, workflows, secrets, and recommendations, with
// heuristic risk annotation.
package intgraph

import "time"

// NodeType classifies a graph node.
type NodeType string

const (
	NodeApp            NodeType = "app"
	NodeSystem         NodeType = "system"
	NodeProvider       NodeType = "provider"
	NodeWorkflow       NodeType = "workflow"
	NodeSecret         NodeType = "secret"
	NodeRecommendation NodeType = "recommendation"
)

// NodeStatus describes the health of a node.
type NodeStatus string

const (
	StatusOK          NodeStatus = "ok"
	StatusMissing     NodeStatus = "missing"
	StatusRisk        NodeStatus = "risk"
	StatusRecommended NodeStatus = "recommended"
	StatusOrphan      NodeStatus = "orphan"
	StatusIdle        NodeStatus = "idle"
)

// EdgeType classifies a graph edge.
type EdgeType string

const (
	EdgeActivation     EdgeType = "activation"
	EdgeCapability     EdgeType = "capability"
	EdgeWorkflow       EdgeType = "workflow"
	EdgeSecret         EdgeType = "secret"
	EdgeRecommendation EdgeType = "recommendation"
	EdgeProvider       EdgeType = "provider"
)

// EdgeStatus describes the health of an edge.
type EdgeStatus string

const (
	EdgeOK          EdgeStatus = "ok"
	EdgeMissing     EdgeStatus = "missing"
	EdgeDegraded    EdgeStatus = "degraded"
	EdgeRecommended EdgeStatus = "recommended"
	EdgeDisabled    EdgeStatus = "disabled"
)

// Node is one entity in the integration graph. Node ids are deterministic
// functions of entity identifiers, so rebuilding from identical data yields
// an isomorphic graph.
type Node struct {
	ID       string            `json:"id"`
	Label    string            `json:"label"`
	Type     NodeType          `json:"type"`
	Status   NodeStatus        `json:"status"`
	Badges   []string          `json:"badges,omitempty"`
	Soft     bool              `json:"soft,omitempty"` // not yet activated, shown faded
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Edge connects two nodes. From and To always reference node ids present
// in the same graph.
type Edge struct {
	ID     string     `json:"id"`
	From   string     `json:"from"`
	To     string     `json:"to"`
	Type   EdgeType   `json:"type"`
	Status EdgeStatus `json:"status"`
}

// Stats summarizes a built graph.
type Stats struct {
	NodesByType     map[NodeType]int `json:"nodes_by_type"`
	EdgeCount       int              `json:"edge_count"`
	MissingSecrets  int              `json:"missing_secrets"`
	OrphanWorkflows int              `json:"orphan_workflows"`
	UnusedSystems   int              `json:"unused_systems"`
}

// Graph is the complete build output. Immutable once built; the risk
// annotation pass derives a new graph rather than mutating this one.
type Graph struct {
	TenantID    string    `json:"tenant_id"`
	Nodes       []Node    `json:"nodes"`
	Edges       []Edge    `json:"edges"`
	Stats       Stats     `json:"stats"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Node id prefixes. Composite ids look like "APP:procure-flow".
const (
	prefixApp            = "APP:"
	prefixSystem         = "SYSTEM:"
	prefixProvider       = "PROVIDER:"
	prefixWorkflow       = "WORKFLOW:"
	prefixSecret         = "SECRET:"
	prefixRecommendation = "RECOMMENDATION:"
)

// AppNodeID returns the deterministic node id for an app key.
func AppNodeID(key string) string { return prefixApp + key }

// SystemNodeID returns the deterministic node id for a system slug.
func SystemNodeID(slug string) string { return prefixSystem + slug }

// ProviderNodeID returns the deterministic node id for a provider key.
func ProviderNodeID(provider string) string { return prefixProvider + provider }

// WorkflowNodeID returns the deterministic node id for a workflow key.
func WorkflowNodeID(key string) string { return prefixWorkflow + key }

// SecretNodeID returns the deterministic node id for a provider secret.
func SecretNodeID(provider string) string { return prefixSecret + provider }

// RecommendationNodeID returns the deterministic node id for a recommended system.
func RecommendationNodeID(slug string) string { return prefixRecommendation + slug }

// edgeID builds a stable edge id for deduplication and referencing.
func edgeID(from, to string, typ EdgeType) string {
	return from + "->" + to + ":" + string(typ)
}

// NodeByID returns the node with the given id, or nil.
func (g *Graph) NodeByID(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// HasBadge reports whether the node carries the given badge.
func (n *Node) HasBadge(badge string) bool {
	for _, b := range n.Badges {
		if b == badge {
			return true
		}
	}
	return false
}
