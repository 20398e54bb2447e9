package compat

import (
	"context"
	"sort"
)

// MemoryGateway is an in-memory Gateway implementation. It backs the CLI's
// local evaluation mode (catalog + tenant state files, no database) and is
// also used as a fixture in tests. Slices preserve insertion order;
// ListSystems returns systems sorted by slug for deterministic iteration.
type MemoryGateway struct {
	Apps            []AppDefinition
	Systems         []ExternalSystem
	Instances       []SystemInstance
	Integrations    []TenantIntegration
	Secrets         []ActiveSecret
	WorkflowRuns    []WorkflowRun // expected newest first, as the platform returns them
	Recommendations []Recommendation
}

// NewMemoryGateway creates an empty MemoryGateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{}
}

func (g *MemoryGateway) GetApp(ctx context.Context, key string) (*AppDefinition, error) {
	for i := range g.Apps {
		if g.Apps[i].Key == key {
			app := g.Apps[i]
			return &app, nil
		}
	}
	return nil, &NotFoundError{Kind: "app", Key: key}
}

func (g *MemoryGateway) GetSystem(ctx context.Context, slug string) (*ExternalSystem, error) {
	for i := range g.Systems {
		if g.Systems[i].Slug == slug {
			sys := g.Systems[i]
			return &sys, nil
		}
	}
	return nil, &NotFoundError{Kind: "system", Key: slug}
}

func (g *MemoryGateway) ListSystems(ctx context.Context) ([]ExternalSystem, error) {
	systems := make([]ExternalSystem, len(g.Systems))
	copy(systems, g.Systems)
	sort.Slice(systems, func(i, j int) bool { return systems[i].Slug < systems[j].Slug })
	return systems, nil
}

func (g *MemoryGateway) ListApps(ctx context.Context, tenantID string) ([]AppDefinition, error) {
	apps := make([]AppDefinition, len(g.Apps))
	copy(apps, g.Apps)
	return apps, nil
}

func (g *MemoryGateway) ListSystemInstances(ctx context.Context, tenantID string) ([]SystemInstance, error) {
	var instances []SystemInstance
	for _, si := range g.Instances {
		if si.TenantID == "" || si.TenantID == tenantID {
			instances = append(instances, si)
		}
	}
	return instances, nil
}

func (g *MemoryGateway) ListActiveIntegrations(ctx context.Context, tenantID string) ([]TenantIntegration, error) {
	var active []TenantIntegration
	for _, ti := range g.Integrations {
		if !ti.IsActive {
			continue
		}
		if ti.TenantID == "" || ti.TenantID == tenantID {
			active = append(active, ti)
		}
	}
	return active, nil
}

func (g *MemoryGateway) ListActiveSecretProviders(ctx context.Context, tenantID string) (map[string]bool, error) {
	providers := make(map[string]bool)
	for _, s := range g.Secrets {
		if !s.IsActive {
			continue
		}
		if s.TenantID == "" || s.TenantID == tenantID {
			providers[s.Provider] = true
		}
	}
	return providers, nil
}

func (g *MemoryGateway) ListRecentWorkflowRuns(ctx context.Context, tenantID string, limit int) ([]WorkflowRun, error) {
	var runs []WorkflowRun
	for _, r := range g.WorkflowRuns {
		if r.TenantID == "" || r.TenantID == tenantID {
			runs = append(runs, r)
		}
		if limit > 0 && len(runs) >= limit {
			break
		}
	}
	return runs, nil
}

func (g *MemoryGateway) ListTopRecommendations(ctx context.Context, tenantID string, minScore int) ([]Recommendation, error) {
	var recs []Recommendation
	for _, rec := range g.Recommendations {
		if rec.Status != "pending" || rec.Score < minScore {
			continue
		}
		if rec.TenantID == "" || rec.TenantID == tenantID {
			recs = append(recs, rec)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	return recs, nil
}
