package intgraph

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/fitscope/fitscope/pkg/compat"
)

// RecommendationFloor is the minimum score for a recommendation to surface
// as a soft node in the graph.
const RecommendationFloor = 60

// recentRunWindow bounds how many workflow runs are considered when
// deriving workflow health.
const recentRunWindow = 200

// Options controls optional graph content.
type Options struct {
	// IncludeRecommendations adds soft nodes for top pending
	// recommendations not yet activated.
	IncludeRecommendations bool
	// IncludeInactive keeps disabled system instances in the graph
	// instead of dropping them.
	IncludeInactive bool
}

// Builder assembles integration graphs for a tenant from gateway data.
type Builder struct {
	gw compat.Gateway
}

// NewBuilder returns a Builder reading through gw.
func NewBuilder(gw compat.Gateway) *Builder {
	return &Builder{gw: gw}
}

// sources holds the raw fetches a build needs. Apps and instances are
// required; workflow runs and recommendations are best-effort.
type sources struct {
	apps      []compat.AppDefinition
	instances []compat.SystemInstance
	runs      []compat.WorkflowRun
	secrets   map[string]bool
	recs      []compat.Recommendation
}

// fetch issues the independent gateway reads concurrently. A failed app,
// instance, or secret fetch aborts the build; failed workflow-run or
// recommendation fetches are logged and yield empty sets.
func (b *Builder) fetch(ctx context.Context, tenantID string, opts Options) (*sources, error) {
	src := &sources{}
	errs := make(chan error, 3)

	go func() {
		apps, err := b.gw.ListApps(ctx, tenantID)
		if err != nil {
			errs <- fmt.Errorf("listing apps: %w", err)
			return
		}
		src.apps = apps
		errs <- nil
	}()
	go func() {
		instances, err := b.gw.ListSystemInstances(ctx, tenantID)
		if err != nil {
			errs <- fmt.Errorf("listing system instances: %w", err)
			return
		}
		src.instances = instances
		errs <- nil
	}()
	go func() {
		secrets, err := b.gw.ListActiveSecretProviders(ctx, tenantID)
		if err != nil {
			errs <- fmt.Errorf("listing secret providers: %w", err)
			return
		}
		src.secrets = secrets
		errs <- nil
	}()

	var firstErr error
	for i := 0; i < 3; i++ {
		if err := <-errs; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if src.secrets == nil {
		src.secrets = map[string]bool{}
	}

	runs, err := b.gw.ListRecentWorkflowRuns(ctx, tenantID, recentRunWindow)
	if err != nil {
		log.Printf("intgraph: skipping workflow runs for tenant %s: %v", tenantID, err)
	} else {
		src.runs = runs
	}

	if opts.IncludeRecommendations {
		recs, err := b.gw.ListTopRecommendations(ctx, tenantID, RecommendationFloor)
		if err != nil {
			log.Printf("intgraph: skipping recommendations for tenant %s: %v", tenantID, err)
		} else {
			src.recs = recs
		}
	}

	return src, nil
}

// Build produces the integration graph for a tenant.
func (b *Builder) Build(ctx context.Context, tenantID string, opts Options) (*Graph, error) {
	src, err := b.fetch(ctx, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("building graph for tenant %s: %w", tenantID, err)
	}

	g := &Graph{
		TenantID:    tenantID,
		GeneratedAt: time.Now().UTC(),
	}
	seen := map[string]bool{}

	addNode := func(n Node) {
		if seen[n.ID] {
			return
		}
		seen[n.ID] = true
		g.Nodes = append(g.Nodes, n)
	}
	addEdge := func(from, to string, typ EdgeType, status EdgeStatus) {
		id := edgeID(from, to, typ)
		if seen[id] {
			return
		}
		seen[id] = true
		g.Edges = append(g.Edges, Edge{ID: id, From: from, To: to, Type: typ, Status: status})
	}

	// App nodes.
	for _, app := range src.apps {
		addNode(Node{
			ID:     AppNodeID(app.Key),
			Label:  app.Name,
			Type:   NodeApp,
			Status: StatusOK,
		})
	}

	// System nodes. Disabled instances are dropped unless asked for.
	systems := make([]compat.SystemInstance, 0, len(src.instances))
	for _, inst := range src.instances {
		if inst.ConfigurationState == "disabled" && !opts.IncludeInactive {
			continue
		}
		systems = append(systems, inst)
	}
	activeSlugs := map[string]bool{}
	for _, inst := range systems {
		status := StatusIdle
		if inst.Active() {
			status = StatusOK
			activeSlugs[inst.SystemSlug] = true
		}
		var badges []string
		if inst.MCPEnabled {
			badges = append(badges, "MCP")
		}
		addNode(Node{
			ID:     SystemNodeID(inst.SystemSlug),
			Label:  inst.SystemName,
			Type:   NodeSystem,
			Status: status,
			Badges: badges,
			Metadata: map[string]string{
				"vendor": inst.Vendor,
				"state":  inst.ConfigurationState,
			},
		})
	}

	// Provider nodes and system->provider edges.
	providers := make([]string, 0, len(systems))
	providerSeen := map[string]bool{}
	for _, inst := range systems {
		if inst.Vendor == "" {
			continue
		}
		if !providerSeen[inst.Vendor] {
			providerSeen[inst.Vendor] = true
			providers = append(providers, inst.Vendor)
			addNode(Node{
				ID:     ProviderNodeID(inst.Vendor),
				Label:  inst.Vendor,
				Type:   NodeProvider,
				Status: StatusOK,
			})
		}
		addEdge(SystemNodeID(inst.SystemSlug), ProviderNodeID(inst.Vendor), EdgeProvider, EdgeOK)
	}

	// Activation edges. True app<->system ownership is not modeled in the
	// tenant data, so every system hangs off the first app. Documented
	// limitation until an association table exists.
	if len(src.apps) > 0 {
		appID := AppNodeID(src.apps[0].Key)
		for _, inst := range systems {
			status := EdgeDegraded
			if inst.Active() {
				status = EdgeOK
			}
			addEdge(appID, SystemNodeID(inst.SystemSlug), EdgeActivation, status)
		}
	}

	// Workflow nodes, deduplicated by key keeping the newest run.
	latest := map[string]compat.WorkflowRun{}
	keys := []string{}
	for _, run := range src.runs {
		prev, ok := latest[run.WorkflowKey]
		if !ok {
			latest[run.WorkflowKey] = run
			keys = append(keys, run.WorkflowKey)
			continue
		}
		if run.StartedAt.After(prev.StartedAt) {
			latest[run.WorkflowKey] = run
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		run := latest[key]
		status := StatusRisk
		if run.Status == "success" {
			status = StatusOK
		}
		nodeID := WorkflowNodeID(key)
		connected := false
		for _, inst := range systems {
			if compat.ContainsFold(key, inst.SystemSlug) {
				connected = true
			}
		}
		node := Node{
			ID:     nodeID,
			Label:  key,
			Type:   NodeWorkflow,
			Status: status,
			Metadata: map[string]string{
				"last_status": run.Status,
			},
		}
		if !connected {
			node.Status = StatusOrphan
			node.Badges = append(node.Badges, "orphan")
		}
		addNode(node)
		for _, inst := range systems {
			if compat.ContainsFold(key, inst.SystemSlug) {
				addEdge(nodeID, SystemNodeID(inst.SystemSlug), EdgeWorkflow, edgeStatusFor(status))
			}
		}
	}

	// Secret nodes per distinct provider, backed by the active-secret
	// records rather than any placeholder.
	for _, provider := range providers {
		present := src.secrets[provider]
		status := StatusMissing
		edgeStatus := EdgeMissing
		if present {
			status = StatusOK
			edgeStatus = EdgeOK
		}
		addNode(Node{
			ID:     SecretNodeID(provider),
			Label:  provider + " credentials",
			Type:   NodeSecret,
			Status: status,
		})
		addEdge(SecretNodeID(provider), ProviderNodeID(provider), EdgeSecret, edgeStatus)
	}

	// Soft recommendation nodes for systems worth activating.
	if opts.IncludeRecommendations {
		for _, rec := range src.recs {
			if activeSlugs[rec.SystemSlug] {
				continue
			}
			// Nothing enforces that a stored recommendation's app still
			// belongs to the tenant; without an app node there is nowhere
			// to hang the edge, so drop the recommendation.
			if !seen[AppNodeID(rec.AppKey)] {
				continue
			}
			addNode(Node{
				ID:     RecommendationNodeID(rec.SystemSlug),
				Label:  rec.SystemName,
				Type:   NodeRecommendation,
				Status: StatusRecommended,
				Soft:   true,
				Metadata: map[string]string{
					"score": fmt.Sprintf("%d", rec.Score),
				},
			})
			addEdge(AppNodeID(rec.AppKey), RecommendationNodeID(rec.SystemSlug), EdgeRecommendation, EdgeRecommended)
		}
	}

	annotated := annotateRisk(g)
	annotated.Stats = computeStats(annotated)
	return annotated, nil
}

func edgeStatusFor(s NodeStatus) EdgeStatus {
	if s == StatusOK {
		return EdgeOK
	}
	return EdgeDegraded
}

// annotateRisk derives a new graph in which healthy systems that no
// workflow feeds are downgraded to idle with an "unused" badge. The
// input graph is left untouched.
func annotateRisk(g *Graph) *Graph {
	fed := map[string]bool{}
	for _, e := range g.Edges {
		if e.Type == EdgeWorkflow {
			fed[e.To] = true
		}
	}

	out := &Graph{
		TenantID:    g.TenantID,
		Nodes:       make([]Node, len(g.Nodes)),
		Edges:       append([]Edge(nil), g.Edges...),
		GeneratedAt: g.GeneratedAt,
	}
	for i, n := range g.Nodes {
		if n.Type == NodeSystem && n.Status == StatusOK && !fed[n.ID] {
			n.Status = StatusIdle
			n.Badges = append(append([]string(nil), n.Badges...), "unused")
		}
		out.Nodes[i] = n
	}
	return out
}

func computeStats(g *Graph) Stats {
	stats := Stats{
		NodesByType: map[NodeType]int{},
		EdgeCount:   len(g.Edges),
	}
	for _, n := range g.Nodes {
		stats.NodesByType[n.Type]++
		switch {
		case n.Type == NodeSecret && n.Status == StatusMissing:
			stats.MissingSecrets++
		case n.Type == NodeWorkflow && n.Status == StatusOrphan:
			stats.OrphanWorkflows++
		case n.Type == NodeSystem && n.Status == StatusIdle:
			stats.UnusedSystems++
		}
	}
	return stats
}
