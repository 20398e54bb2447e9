// Package catalog loads the app and external-system reference catalog,
// plus per-tenant state files, from YAML. Files are validated against
// embedded JSON schemas before use so a typo fails loudly at load time
// rather than as a silent zero score.
package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/fitscope/fitscope/internal/tenant"
	"github.com/fitscope/fitscope/pkg/compat"
)

//go:embed schemas/*.schema.json
var schemasFS embed.FS

// Catalog is the reference data the scoring engine evaluates against.
type Catalog struct {
	Apps    []compat.AppDefinition
	Systems []compat.ExternalSystem
}

// State is a tenant's integration state, as read from a local YAML file.
// It backs the CLI's database-free evaluation mode.
type State struct {
	TenantID        string                     `yaml:"tenant_id"`
	Instances       []compat.SystemInstance    `yaml:"instances"`
	Integrations    []compat.TenantIntegration `yaml:"integrations"`
	Secrets         []compat.ActiveSecret      `yaml:"secrets"`
	WorkflowRuns    []compat.WorkflowRun       `yaml:"workflow_runs"`
	Recommendations []compat.Recommendation    `yaml:"recommendations"`
}

type appsFile struct {
	Apps []compat.AppDefinition `yaml:"apps"`
}

type systemsFile struct {
	Systems []compat.ExternalSystem `yaml:"systems"`
}

// Load reads apps.yaml and systems.yaml from dir, validating both.
func Load(dir string) (*Catalog, error) {
	var apps appsFile
	if err := loadValidated(filepath.Join(dir, "apps.yaml"), "apps.schema.json", &apps); err != nil {
		return nil, err
	}

	var systems systemsFile
	if err := loadValidated(filepath.Join(dir, "systems.yaml"), "systems.schema.json", &systems); err != nil {
		return nil, err
	}

	c := &Catalog{Apps: apps.Apps, Systems: systems.Systems}
	if err := c.checkReferences(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadState reads and validates a tenant state YAML file.
func LoadState(path string) (*State, error) {
	var state State
	if err := loadValidated(path, "state.schema.json", &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// loadValidated reads a YAML file, checks it against the named embedded
// schema, then unmarshals it into out.
func loadValidated(path, schemaName string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := validate(data, schemaName); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// validate checks raw YAML against an embedded JSON schema. YAML is
// round-tripped through JSON first; the schema compiler only speaks JSON.
func validate(data []byte, schemaName string) error {
	schemaBytes, err := schemasFS.ReadFile("schemas/" + schemaName)
	if err != nil {
		return fmt.Errorf("reading embedded schema %s: %w", schemaName, err)
	}
	schema, err := jsonschema.CompileString(schemaName, string(schemaBytes))
	if err != nil {
		return fmt.Errorf("compiling schema %s: %w", schemaName, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting to json: %w", err)
	}
	var jsonDoc any
	if err := json.Unmarshal(jsonData, &jsonDoc); err != nil {
		return fmt.Errorf("reparsing json: %w", err)
	}

	if err := schema.Validate(jsonDoc); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}

// checkReferences rejects catalogs with duplicate app keys or system
// slugs; both are primary identifiers everywhere downstream.
func (c *Catalog) checkReferences() error {
	appKeys := map[string]bool{}
	for _, app := range c.Apps {
		if appKeys[app.Key] {
			return fmt.Errorf("duplicate app key %q", app.Key)
		}
		appKeys[app.Key] = true
	}
	slugs := map[string]bool{}
	for _, sys := range c.Systems {
		if slugs[sys.Slug] {
			return fmt.Errorf("duplicate system slug %q", sys.Slug)
		}
		slugs[sys.Slug] = true
	}
	return nil
}

// Gateway builds an in-memory gateway over the catalog plus optional
// tenant state. State may be nil for catalog-only queries.
func (c *Catalog) Gateway(state *State) *compat.MemoryGateway {
	gw := &compat.MemoryGateway{
		Apps:    c.Apps,
		Systems: c.Systems,
	}
	if state != nil {
		gw.Instances = state.Instances
		gw.Integrations = state.Integrations
		gw.Secrets = state.Secrets
		gw.WorkflowRuns = state.WorkflowRuns
		gw.Recommendations = state.Recommendations
	}
	return gw
}

// Seed writes the catalog's reference data into the database.
func Seed(ctx context.Context, svc *tenant.Service, c *Catalog) error {
	for _, app := range c.Apps {
		if err := svc.UpsertApp(ctx, app); err != nil {
			return fmt.Errorf("seeding app %s: %w", app.Key, err)
		}
	}
	for _, sys := range c.Systems {
		if err := svc.UpsertSystem(ctx, sys); err != nil {
			return fmt.Errorf("seeding system %s: %w", sys.Slug, err)
		}
	}
	return nil
}
