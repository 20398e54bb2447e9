package tenant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/fitscope/fitscope/pkg/compat"
)

func newMockGateway(t *testing.T) (*Gateway, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewGateway(db), mock
}

func TestGatewayGetApp(t *testing.T) {
	gw, mock := newMockGateway(t)

	rows := sqlmock.NewRows([]string{"key", "name", "capabilities", "integration_requirements"}).
		AddRow("procure-flow", "ProcureFlow",
			[]byte(`["invoicing","purchase orders"]`),
			[]byte(`{"accounting":["xero"]}`))
	mock.ExpectQuery(`SELECT key, name, capabilities, integration_requirements\s+FROM app_definitions WHERE key = \$1`).
		WithArgs("procure-flow").
		WillReturnRows(rows)

	app, err := gw.GetApp(context.Background(), "procure-flow")
	if err != nil {
		t.Fatalf("GetApp: %v", err)
	}
	if app.Name != "ProcureFlow" {
		t.Errorf("Name = %q", app.Name)
	}
	if len(app.Capabilities) != 2 || app.Capabilities[0] != "invoicing" {
		t.Errorf("Capabilities = %v", app.Capabilities)
	}
	if got := app.IntegrationRequirements["accounting"]; len(got) != 1 || got[0] != "xero" {
		t.Errorf("IntegrationRequirements = %v", app.IntegrationRequirements)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGatewayGetAppNotFound(t *testing.T) {
	gw, mock := newMockGateway(t)

	mock.ExpectQuery(`SELECT key, name, capabilities, integration_requirements`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"key", "name", "capabilities", "integration_requirements"}))

	_, err := gw.GetApp(context.Background(), "ghost")
	if !compat.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestGatewayGetSystem(t *testing.T) {
	gw, mock := newMockGateway(t)

	rows := sqlmock.NewRows([]string{"slug", "name", "modules", "compliances", "integrations"}).
		AddRow("xero", "Xero",
			[]byte(`["Invoicing","Payroll"]`),
			[]byte(`["GDPR"]`),
			[]byte(`[{"type":"mcp","name":"xero mcp server"}]`))
	mock.ExpectQuery(`FROM external_systems WHERE slug = \$1`).
		WithArgs("xero").
		WillReturnRows(rows)

	sys, err := gw.GetSystem(context.Background(), "xero")
	if err != nil {
		t.Fatalf("GetSystem: %v", err)
	}
	if len(sys.Integrations) != 1 || sys.Integrations[0].Type != "mcp" {
		t.Errorf("Integrations = %+v", sys.Integrations)
	}
}

func TestGatewayGetSystemNotFound(t *testing.T) {
	gw, mock := newMockGateway(t)

	mock.ExpectQuery(`FROM external_systems WHERE slug = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"slug", "name", "modules", "compliances", "integrations"}))

	_, err := gw.GetSystem(context.Background(), "ghost")
	if !compat.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestGatewayListSystemInstances(t *testing.T) {
	gw, mock := newMockGateway(t)

	rows := sqlmock.NewRows([]string{"tenant_id", "system_slug", "system_name", "vendor", "configuration_state", "mcp_enabled"}).
		AddRow("t1", "sap-s4", "SAP S/4HANA", "sap", "pending", false).
		AddRow("t1", "xero", "Xero", "xero", "active", true)
	mock.ExpectQuery(`FROM system_instances WHERE tenant_id = \$1`).
		WithArgs("t1").
		WillReturnRows(rows)

	instances, err := gw.ListSystemInstances(context.Background(), "t1")
	if err != nil {
		t.Fatalf("ListSystemInstances: %v", err)
	}
	if len(instances) != 2 {
		t.Fatalf("got %d instances, want 2", len(instances))
	}
	if instances[0].Active() {
		t.Error("pending instance should not be active")
	}
	if !instances[1].MCPEnabled {
		t.Error("xero instance should have MCP enabled")
	}
}

func TestGatewayListActiveSecretProviders(t *testing.T) {
	gw, mock := newMockGateway(t)

	rows := sqlmock.NewRows([]string{"provider"}).AddRow("xero").AddRow("stripe")
	mock.ExpectQuery(`FROM tenant_secrets WHERE tenant_id = \$1 AND is_active`).
		WithArgs("t1").
		WillReturnRows(rows)

	providers, err := gw.ListActiveSecretProviders(context.Background(), "t1")
	if err != nil {
		t.Fatalf("ListActiveSecretProviders: %v", err)
	}
	if !providers["xero"] || !providers["stripe"] || len(providers) != 2 {
		t.Errorf("providers = %v", providers)
	}
}

func TestGatewayListRecentWorkflowRuns(t *testing.T) {
	gw, mock := newMockGateway(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"tenant_id", "workflow_key", "status", "started_at"}).
		AddRow("t1", "xero_invoice_sync", "success", now).
		AddRow("t1", "xero_invoice_sync", "error", now.Add(-time.Hour))
	mock.ExpectQuery(`FROM workflow_runs WHERE tenant_id = \$1`).
		WithArgs("t1", 50).
		WillReturnRows(rows)

	runs, err := gw.ListRecentWorkflowRuns(context.Background(), "t1", 50)
	if err != nil {
		t.Fatalf("ListRecentWorkflowRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].Status != "success" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestGatewayListTopRecommendations(t *testing.T) {
	gw, mock := newMockGateway(t)

	rows := sqlmock.NewRows([]string{"tenant_id", "app_key", "system_slug", "system_name", "score", "status"}).
		AddRow("t1", "procure-flow", "dynamics-365", "Dynamics 365", 82, "pending")
	mock.ExpectQuery(`FROM recommendations`).
		WithArgs("t1", 60).
		WillReturnRows(rows)

	recs, err := gw.ListTopRecommendations(context.Background(), "t1", 60)
	if err != nil {
		t.Fatalf("ListTopRecommendations: %v", err)
	}
	if len(recs) != 1 || recs[0].SystemSlug != "dynamics-365" {
		t.Errorf("recs = %+v", recs)
	}
}

func TestGatewayQueryErrorWrapped(t *testing.T) {
	gw, mock := newMockGateway(t)

	mock.ExpectQuery(`FROM external_systems`).
		WillReturnError(errors.New("connection reset"))

	_, err := gw.ListSystems(context.Background())
	if err == nil || compat.IsNotFound(err) {
		t.Errorf("expected wrapped query error, got %v", err)
	}
}
