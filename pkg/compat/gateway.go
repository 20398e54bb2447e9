package compat

import "context"

// Gateway is the read-only data access boundary the scoring and graph
// modules depend on. The hosted service backs it with Postgres; the CLI
// backs it with an in-memory catalog. Implementations must return a
// *NotFoundError for unknown app keys and system slugs.
type Gateway interface {
	// Reference data.
	GetApp(ctx context.Context, key string) (*AppDefinition, error)
	GetSystem(ctx context.Context, slug string) (*ExternalSystem, error)
	ListSystems(ctx context.Context) ([]ExternalSystem, error)

	// Tenant-scoped data.
	ListApps(ctx context.Context, tenantID string) ([]AppDefinition, error)
	ListSystemInstances(ctx context.Context, tenantID string) ([]SystemInstance, error)
	ListActiveIntegrations(ctx context.Context, tenantID string) ([]TenantIntegration, error)
	ListActiveSecretProviders(ctx context.Context, tenantID string) (map[string]bool, error)
	ListRecentWorkflowRuns(ctx context.Context, tenantID string, limit int) ([]WorkflowRun, error)
	ListTopRecommendations(ctx context.Context, tenantID string, minScore int) ([]Recommendation, error)
}
