package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fitscope/fitscope/pkg/compat"
)

// UpsertApp creates or replaces an app definition.
func (s *Service) UpsertApp(ctx context.Context, app compat.AppDefinition) error {
	capabilities, err := json.Marshal(app.Capabilities)
	if err != nil {
		return fmt.Errorf("marshal capabilities: %w", err)
	}
	requirements, err := json.Marshal(app.IntegrationRequirements)
	if err != nil {
		return fmt.Errorf("marshal requirements: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO app_definitions (key, name, capabilities, integration_requirements)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (key) DO UPDATE
		   SET name = EXCLUDED.name,
		       capabilities = EXCLUDED.capabilities,
		       integration_requirements = EXCLUDED.integration_requirements`,
		app.Key, app.Name, capabilities, requirements,
	)
	if err != nil {
		return fmt.Errorf("upsert app %s: %w", app.Key, err)
	}
	return nil
}

// UpsertSystem creates or replaces an external system definition.
func (s *Service) UpsertSystem(ctx context.Context, sys compat.ExternalSystem) error {
	modules, err := json.Marshal(sys.Modules)
	if err != nil {
		return fmt.Errorf("marshal modules: %w", err)
	}
	compliances, err := json.Marshal(sys.Compliances)
	if err != nil {
		return fmt.Errorf("marshal compliances: %w", err)
	}
	integrations, err := json.Marshal(sys.Integrations)
	if err != nil {
		return fmt.Errorf("marshal integrations: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO external_systems (slug, name, modules, compliances, integrations)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (slug) DO UPDATE
		   SET name = EXCLUDED.name,
		       modules = EXCLUDED.modules,
		       compliances = EXCLUDED.compliances,
		       integrations = EXCLUDED.integrations`,
		sys.Slug, sys.Name, modules, compliances, integrations,
	)
	if err != nil {
		return fmt.Errorf("upsert system %s: %w", sys.Slug, err)
	}
	return nil
}

// UpsertSystemInstance creates or updates a tenant's system activation.
func (s *Service) UpsertSystemInstance(ctx context.Context, si compat.SystemInstance) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO system_instances (tenant_id, system_slug, system_name, vendor, configuration_state, mcp_enabled)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (tenant_id, system_slug) DO UPDATE
		   SET system_name = EXCLUDED.system_name,
		       vendor = EXCLUDED.vendor,
		       configuration_state = EXCLUDED.configuration_state,
		       mcp_enabled = EXCLUDED.mcp_enabled`,
		si.TenantID, si.SystemSlug, si.SystemName, si.Vendor, si.ConfigurationState, si.MCPEnabled,
	)
	if err != nil {
		return fmt.Errorf("upsert system instance %s: %w", si.SystemSlug, err)
	}
	return nil
}

// SetIntegrationActive flips a tenant integration adapter on or off.
func (s *Service) SetIntegrationActive(ctx context.Context, tenantID, adapterID string, active bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tenant_integrations (tenant_id, adapter_id, is_active)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (tenant_id, adapter_id) DO UPDATE SET is_active = EXCLUDED.is_active`,
		tenantID, adapterID, active,
	)
	if err != nil {
		return fmt.Errorf("set integration %s active=%v: %w", adapterID, active, err)
	}
	return nil
}

// SetSecretActive records whether a credential is available for a provider.
func (s *Service) SetSecretActive(ctx context.Context, tenantID, provider string, active bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tenant_secrets (tenant_id, provider, is_active)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (tenant_id, provider) DO UPDATE SET is_active = EXCLUDED.is_active`,
		tenantID, provider, active,
	)
	if err != nil {
		return fmt.Errorf("set secret %s active=%v: %w", provider, active, err)
	}
	return nil
}

// RecordWorkflowRun appends one workflow execution record.
func (s *Service) RecordWorkflowRun(ctx context.Context, tenantID, workflowKey, status string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workflow_runs (tenant_id, workflow_key, status, started_at)
		 VALUES ($1, $2, $3, $4)`,
		tenantID, workflowKey, status, startedAt,
	)
	if err != nil {
		return fmt.Errorf("record workflow run %s: %w", workflowKey, err)
	}
	return nil
}

// UpsertRecommendation creates or refreshes a recommendation. On conflict
// the stored status is preserved, so re-scoring never resurrects a
// recommendation the tenant already accepted or dismissed.
func (s *Service) UpsertRecommendation(ctx context.Context, rec compat.Recommendation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recommendations (tenant_id, app_key, system_slug, system_name, score, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (tenant_id, app_key, system_slug) DO UPDATE
		   SET system_name = EXCLUDED.system_name,
		       score = EXCLUDED.score`,
		rec.TenantID, rec.AppKey, rec.SystemSlug, rec.SystemName, rec.Score, rec.Status,
	)
	if err != nil {
		return fmt.Errorf("upsert recommendation %s/%s: %w", rec.AppKey, rec.SystemSlug, err)
	}
	return nil
}
