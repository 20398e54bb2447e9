// Package compat defines the core data model for Fitscope.
// These types are the shared vocabulary across the scoring and graph modules.
// Changes to this file require review from all teams.
package compat

import "time"

// AppDefinition describes a platform app and what it requires from an
// external system. Reference data, created by admins; read-only to scoring.
type AppDefinition struct {
	Key          string   `json:"key" yaml:"key"`
	Name         string   `json:"name" yaml:"name"`
	Capabilities []string `json:"capabilities" yaml:"capabilities"`
	// IntegrationRequirements maps a requirement category (e.g. "accounting")
	// to the provider keys that can satisfy it (e.g. "xero").
	IntegrationRequirements map[string][]string `json:"integration_requirements" yaml:"integration_requirements"`
}

// SystemIntegration is one integration an external system declares support for.
type SystemIntegration struct {
	Type string `json:"type" yaml:"type"` // e.g. "mcp", "rest", "webhook"
	Name string `json:"name" yaml:"name"`
}

// ExternalSystem describes a candidate external system (ERP, procurement
// platform, etc.). Reference data, read-only to scoring.
type ExternalSystem struct {
	Slug         string              `json:"slug" yaml:"slug"`
	Name         string              `json:"name" yaml:"name"`
	Modules      []string            `json:"modules" yaml:"modules"` // exposed capability surface
	Compliances  []string            `json:"compliances" yaml:"compliances"`
	Integrations []SystemIntegration `json:"integrations" yaml:"integrations"`
}

// SystemInstance is a tenant's activated instance of an external system.
type SystemInstance struct {
	TenantID           string `json:"tenant_id" yaml:"tenant_id"`
	SystemSlug         string `json:"system_slug" yaml:"system_slug"`
	SystemName         string `json:"system_name" yaml:"system_name"`
	Vendor             string `json:"vendor" yaml:"vendor"` // provider key for the vendor
	ConfigurationState string `json:"configuration_state" yaml:"configuration_state"`
	MCPEnabled         bool   `json:"mcp_enabled" yaml:"mcp_enabled"`
}

// Active reports whether the instance is fully configured.
func (si SystemInstance) Active() bool {
	return si.ConfigurationState == "active"
}

// TenantIntegration is a tenant-configured automation adapter activation
// record (an n8n-style workflow connector).
type TenantIntegration struct {
	TenantID  string `json:"tenant_id" yaml:"tenant_id"`
	AdapterID string `json:"adapter_id" yaml:"adapter_id"`
	IsActive  bool   `json:"is_active" yaml:"is_active"`
}

// ActiveSecret records that a credential is available for a provider.
type ActiveSecret struct {
	TenantID string `json:"tenant_id" yaml:"tenant_id"`
	Provider string `json:"provider" yaml:"provider"`
	IsActive bool   `json:"is_active" yaml:"is_active"`
}

// WorkflowRun is one execution of a tenant automation workflow.
type WorkflowRun struct {
	TenantID    string    `json:"tenant_id" yaml:"tenant_id"`
	WorkflowKey string    `json:"workflow_key" yaml:"workflow_key"`
	Status      string    `json:"status" yaml:"status"` // "success", "error", ...
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
}

// Recommendation is a pending suggestion to adopt an external system for an app.
type Recommendation struct {
	TenantID   string `json:"tenant_id" yaml:"tenant_id"`
	AppKey     string `json:"app_key" yaml:"app_key"`
	SystemSlug string `json:"system_slug" yaml:"system_slug"`
	SystemName string `json:"system_name" yaml:"system_name"`
	Score      int    `json:"score" yaml:"score"`
	Status     string `json:"status" yaml:"status"` // "pending", "accepted", "dismissed"
}
