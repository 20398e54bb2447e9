package tenant

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fitscope/fitscope/pkg/compat"
)

// Gateway is the Postgres-backed implementation of compat.Gateway.
// App definitions and external systems are global reference data; the
// remaining reads are tenant-scoped.
type Gateway struct {
	db *sql.DB
}

// NewGateway creates a Gateway over the given database handle.
func NewGateway(db *sql.DB) *Gateway {
	return &Gateway{db: db}
}

func (g *Gateway) GetApp(ctx context.Context, key string) (*compat.AppDefinition, error) {
	var (
		app          compat.AppDefinition
		capabilities []byte
		requirements []byte
	)
	err := g.db.QueryRowContext(ctx,
		`SELECT key, name, capabilities, integration_requirements
		 FROM app_definitions WHERE key = $1`,
		key,
	).Scan(&app.Key, &app.Name, &capabilities, &requirements)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &compat.NotFoundError{Kind: "app", Key: key}
	}
	if err != nil {
		return nil, fmt.Errorf("get app %s: %w", key, err)
	}
	if err := json.Unmarshal(capabilities, &app.Capabilities); err != nil {
		return nil, fmt.Errorf("decode app %s capabilities: %w", key, err)
	}
	if err := json.Unmarshal(requirements, &app.IntegrationRequirements); err != nil {
		return nil, fmt.Errorf("decode app %s requirements: %w", key, err)
	}
	return &app, nil
}

func (g *Gateway) GetSystem(ctx context.Context, slug string) (*compat.ExternalSystem, error) {
	var (
		sys          compat.ExternalSystem
		modules      []byte
		compliances  []byte
		integrations []byte
	)
	err := g.db.QueryRowContext(ctx,
		`SELECT slug, name, modules, compliances, integrations
		 FROM external_systems WHERE slug = $1`,
		slug,
	).Scan(&sys.Slug, &sys.Name, &modules, &compliances, &integrations)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &compat.NotFoundError{Kind: "system", Key: slug}
	}
	if err != nil {
		return nil, fmt.Errorf("get system %s: %w", slug, err)
	}
	if err := decodeSystemColumns(&sys, modules, compliances, integrations); err != nil {
		return nil, err
	}
	return &sys, nil
}

func (g *Gateway) ListSystems(ctx context.Context) ([]compat.ExternalSystem, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT slug, name, modules, compliances, integrations
		 FROM external_systems ORDER BY slug`,
	)
	if err != nil {
		return nil, fmt.Errorf("list systems: %w", err)
	}
	defer rows.Close()

	var systems []compat.ExternalSystem
	for rows.Next() {
		var (
			sys          compat.ExternalSystem
			modules      []byte
			compliances  []byte
			integrations []byte
		)
		if err := rows.Scan(&sys.Slug, &sys.Name, &modules, &compliances, &integrations); err != nil {
			return nil, fmt.Errorf("scan system: %w", err)
		}
		if err := decodeSystemColumns(&sys, modules, compliances, integrations); err != nil {
			return nil, err
		}
		systems = append(systems, sys)
	}
	return systems, rows.Err()
}

func decodeSystemColumns(sys *compat.ExternalSystem, modules, compliances, integrations []byte) error {
	if err := json.Unmarshal(modules, &sys.Modules); err != nil {
		return fmt.Errorf("decode system %s modules: %w", sys.Slug, err)
	}
	if err := json.Unmarshal(compliances, &sys.Compliances); err != nil {
		return fmt.Errorf("decode system %s compliances: %w", sys.Slug, err)
	}
	if err := json.Unmarshal(integrations, &sys.Integrations); err != nil {
		return fmt.Errorf("decode system %s integrations: %w", sys.Slug, err)
	}
	return nil
}

func (g *Gateway) ListApps(ctx context.Context, tenantID string) ([]compat.AppDefinition, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT key, name, capabilities, integration_requirements
		 FROM app_definitions ORDER BY key`,
	)
	if err != nil {
		return nil, fmt.Errorf("list apps: %w", err)
	}
	defer rows.Close()

	var apps []compat.AppDefinition
	for rows.Next() {
		var (
			app          compat.AppDefinition
			capabilities []byte
			requirements []byte
		)
		if err := rows.Scan(&app.Key, &app.Name, &capabilities, &requirements); err != nil {
			return nil, fmt.Errorf("scan app: %w", err)
		}
		if err := json.Unmarshal(capabilities, &app.Capabilities); err != nil {
			return nil, fmt.Errorf("decode app %s capabilities: %w", app.Key, err)
		}
		if err := json.Unmarshal(requirements, &app.IntegrationRequirements); err != nil {
			return nil, fmt.Errorf("decode app %s requirements: %w", app.Key, err)
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (g *Gateway) ListSystemInstances(ctx context.Context, tenantID string) ([]compat.SystemInstance, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT tenant_id, system_slug, system_name, vendor, configuration_state, mcp_enabled
		 FROM system_instances WHERE tenant_id = $1 ORDER BY system_slug`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list system instances: %w", err)
	}
	defer rows.Close()

	var instances []compat.SystemInstance
	for rows.Next() {
		var si compat.SystemInstance
		if err := rows.Scan(&si.TenantID, &si.SystemSlug, &si.SystemName, &si.Vendor, &si.ConfigurationState, &si.MCPEnabled); err != nil {
			return nil, fmt.Errorf("scan system instance: %w", err)
		}
		instances = append(instances, si)
	}
	return instances, rows.Err()
}

func (g *Gateway) ListActiveIntegrations(ctx context.Context, tenantID string) ([]compat.TenantIntegration, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT tenant_id, adapter_id, is_active
		 FROM tenant_integrations WHERE tenant_id = $1 AND is_active ORDER BY adapter_id`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list active integrations: %w", err)
	}
	defer rows.Close()

	var integrations []compat.TenantIntegration
	for rows.Next() {
		var ti compat.TenantIntegration
		if err := rows.Scan(&ti.TenantID, &ti.AdapterID, &ti.IsActive); err != nil {
			return nil, fmt.Errorf("scan integration: %w", err)
		}
		integrations = append(integrations, ti)
	}
	return integrations, rows.Err()
}

func (g *Gateway) ListActiveSecretProviders(ctx context.Context, tenantID string) (map[string]bool, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT provider FROM tenant_secrets WHERE tenant_id = $1 AND is_active`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list active secret providers: %w", err)
	}
	defer rows.Close()

	providers := make(map[string]bool)
	for rows.Next() {
		var provider string
		if err := rows.Scan(&provider); err != nil {
			return nil, fmt.Errorf("scan secret provider: %w", err)
		}
		providers[provider] = true
	}
	return providers, rows.Err()
}

func (g *Gateway) ListRecentWorkflowRuns(ctx context.Context, tenantID string, limit int) ([]compat.WorkflowRun, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT tenant_id, workflow_key, status, started_at
		 FROM workflow_runs WHERE tenant_id = $1
		 ORDER BY started_at DESC LIMIT $2`,
		tenantID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list workflow runs: %w", err)
	}
	defer rows.Close()

	var runs []compat.WorkflowRun
	for rows.Next() {
		var run compat.WorkflowRun
		if err := rows.Scan(&run.TenantID, &run.WorkflowKey, &run.Status, &run.StartedAt); err != nil {
			return nil, fmt.Errorf("scan workflow run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (g *Gateway) ListTopRecommendations(ctx context.Context, tenantID string, minScore int) ([]compat.Recommendation, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT tenant_id, app_key, system_slug, system_name, score, status
		 FROM recommendations
		 WHERE tenant_id = $1 AND status = 'pending' AND score >= $2
		 ORDER BY score DESC`,
		tenantID, minScore,
	)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()

	var recs []compat.Recommendation
	for rows.Next() {
		var rec compat.Recommendation
		if err := rows.Scan(&rec.TenantID, &rec.AppKey, &rec.SystemSlug, &rec.SystemName, &rec.Score, &rec.Status); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
