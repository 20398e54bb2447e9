package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fitscope/fitscope/internal/api"
	"github.com/fitscope/fitscope/internal/archive"
	"github.com/fitscope/fitscope/pkg/compat"
	"github.com/fitscope/fitscope/pkg/intgraph"
	"github.com/fitscope/fitscope/pkg/scoring"
)

func fixtureGateway() *compat.MemoryGateway {
	gw := compat.NewMemoryGateway()
	gw.Apps = []compat.AppDefinition{
		{
			Key:          "procure-flow",
			Name:         "ProcureFlow",
			Capabilities: []string{"purchase_orders", "invoicing"},
			IntegrationRequirements: map[string][]string{
				"accounting": {"xero"},
			},
		},
	}
	gw.Systems = []compat.ExternalSystem{
		{
			Slug:        "xero",
			Name:        "Xero",
			Modules:     []string{"purchase_orders", "invoicing"},
			Compliances: []string{"GDPR", "SOC2"},
			Integrations: []compat.SystemIntegration{
				{Type: "mcp", Name: "xero connector"},
				{Type: "rest", Name: "accounting api"},
			},
		},
		{Slug: "sap-s4", Name: "SAP S/4HANA", Modules: []string{"purchase_orders"}},
	}
	gw.Instances = []compat.SystemInstance{
		{TenantID: "t1", SystemSlug: "xero", SystemName: "Xero", Vendor: "xero", ConfigurationState: "active", MCPEnabled: true},
	}
	gw.Secrets = []compat.ActiveSecret{
		{TenantID: "t1", Provider: "xero", IsActive: true},
	}
	gw.WorkflowRuns = []compat.WorkflowRun{
		{TenantID: "t1", WorkflowKey: "xero_invoice_sync", Status: "success", StartedAt: time.Now().UTC()},
	}
	return gw
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newServerWithStorage(t, nil)
}

func newServerWithStorage(t *testing.T, storage archive.StorageClient) *httptest.Server {
	t.Helper()
	gw := fixtureGateway()
	handler := api.NewHandler(gw, scoring.NewEngine(gw), nil, storage, nil)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Metadata struct {
		RequestID string `json:"request_id"`
	} `json:"metadata"`
}

func get(t *testing.T, srv *httptest.Server, path, tenant string) (*http.Response, envelope) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if tenant != "" {
		req.Header.Set("X-Tenant-ID", tenant)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope for %s: %v", path, err)
	}
	return resp, env
}

func TestScoreEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, env := get(t, srv, "/api/v1/score?app_key=procure-flow&system=xero", "t1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !env.OK {
		t.Fatalf("envelope not ok: %+v", env.Error)
	}
	if env.Metadata.RequestID == "" {
		t.Error("missing request_id in metadata")
	}

	var score scoring.CompatibilityScore
	if err := json.Unmarshal(env.Data, &score); err != nil {
		t.Fatalf("decode score: %v", err)
	}
	if score.AppKey != "procure-flow" || score.SystemSlug != "xero" {
		t.Errorf("score identity = %s/%s", score.AppKey, score.SystemSlug)
	}
	if score.TotalScore < 0 || score.TotalScore > 100 {
		t.Errorf("total score %d out of range", score.TotalScore)
	}
}

func TestScoreMissingTenant(t *testing.T) {
	srv := newTestServer(t)

	resp, env := get(t, srv, "/api/v1/score?app_key=procure-flow&system=xero", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if env.OK || env.Error == nil || env.Error.Code != "UNAUTHORIZED" {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestScoreMissingParams(t *testing.T) {
	srv := newTestServer(t)

	resp, env := get(t, srv, "/api/v1/score?app_key=procure-flow", "t1")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "BAD_REQUEST" {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestScoreUnknownApp(t *testing.T) {
	srv := newTestServer(t)

	resp, env := get(t, srv, "/api/v1/score?app_key=nope&system=xero", "t1")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestMatrixEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, env := get(t, srv, "/api/v1/matrix?app_key=procure-flow", "t1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		AppKey string                        `json:"app_key"`
		Scores []*scoring.CompatibilityScore `json:"scores"`
	}
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode matrix: %v", err)
	}
	if len(body.Scores) != 2 {
		t.Fatalf("got %d scores, want 2", len(body.Scores))
	}
	if body.Scores[0].TotalScore < body.Scores[1].TotalScore {
		t.Error("scores not sorted descending")
	}
}

func TestMatrixMinScoreRejected(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := get(t, srv, "/api/v1/matrix?app_key=procure-flow&min_score=abc", "t1")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestScoreHistoryDisabled(t *testing.T) {
	srv := newTestServer(t)

	resp, env := get(t, srv, "/api/v1/scores?app_key=procure-flow", "t1")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestGraphEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, env := get(t, srv, "/api/v1/integration-graph", "t1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var g intgraph.Graph
	if err := json.Unmarshal(env.Data, &g); err != nil {
		t.Fatalf("decode graph: %v", err)
	}
	if g.TenantID != "t1" {
		t.Errorf("tenant = %q, want t1", g.TenantID)
	}
	if g.NodeByID("SYSTEM:xero") == nil {
		t.Error("missing SYSTEM:xero node")
	}
}

func TestGraphFocus(t *testing.T) {
	srv := newTestServer(t)

	resp, env := get(t, srv, "/api/v1/integration-graph?focus=SYSTEM:xero&depth=1", "t1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var view intgraph.NeighborhoodResult
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decode neighborhood: %v", err)
	}
	if view.Focus != "SYSTEM:xero" {
		t.Errorf("focus = %q", view.Focus)
	}
	if len(view.Nodes) == 0 {
		t.Error("empty neighborhood")
	}
}

func TestGraphFocusNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := get(t, srv, "/api/v1/integration-graph?focus=SYSTEM:nope", "t1")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGraphExportDisposition(t *testing.T) {
	srv := newTestServer(t)

	resp, env := get(t, srv, "/api/v1/integration-graph/export", "t1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	cd := resp.Header.Get("Content-Disposition")
	if !strings.HasPrefix(cd, "attachment;") || !strings.Contains(cd, "fitscope-graph-t1-") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !env.OK {
		t.Errorf("envelope not ok: %+v", env.Error)
	}
}

func TestGraphExportArchiveRoundTrip(t *testing.T) {
	srv := newServerWithStorage(t, archive.NewLocalStorage(t.TempDir()))

	resp, _ := get(t, srv, "/api/v1/integration-graph/export", "t1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d, want 200", resp.StatusCode)
	}
	exportID := resp.Header.Get("X-Export-ID")
	if exportID == "" {
		t.Fatal("export did not report an X-Export-ID")
	}

	resp, env := get(t, srv, "/api/v1/integration-graph/export/"+exportID, "t1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("archive fetch status = %d, want 200", resp.StatusCode)
	}
	var g intgraph.Graph
	if err := json.Unmarshal(env.Data, &g); err != nil {
		t.Fatalf("decode archived graph: %v", err)
	}
	if g.TenantID != "t1" || len(g.Nodes) == 0 {
		t.Errorf("archived graph tenant=%q nodes=%d", g.TenantID, len(g.Nodes))
	}

	// Archives are tenant-scoped.
	resp, _ = get(t, srv, "/api/v1/integration-graph/export/"+exportID, "t2")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("cross-tenant fetch status = %d, want 404", resp.StatusCode)
	}

	resp, _ = get(t, srv, "/api/v1/integration-graph/export/no-such-export", "t1")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown export status = %d, want 404", resp.StatusCode)
	}
}

func TestGraphArchiveDisabledWithoutStorage(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := get(t, srv, "/api/v1/integration-graph/export", "t1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Export-ID"); got != "" {
		t.Errorf("X-Export-ID = %q without storage, want empty", got)
	}

	resp, env := get(t, srv, "/api/v1/integration-graph/export/some-id", "t1")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("archive fetch status = %d, want 404", resp.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestMatrixArchiveRoundTrip(t *testing.T) {
	srv := newServerWithStorage(t, archive.NewLocalStorage(t.TempDir()))

	resp, _ := get(t, srv, "/api/v1/matrix?app_key=procure-flow", "t1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("matrix status = %d, want 200", resp.StatusCode)
	}
	exportID := resp.Header.Get("X-Export-ID")
	if exportID == "" {
		t.Fatal("matrix did not report an X-Export-ID")
	}

	resp, env := get(t, srv, "/api/v1/matrix/export/"+exportID, "t1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("report fetch status = %d, want 200", resp.StatusCode)
	}
	var report struct {
		AppKey string                        `json:"app_key"`
		Scores []*scoring.CompatibilityScore `json:"scores"`
	}
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatalf("decode archived report: %v", err)
	}
	if report.AppKey != "procure-flow" || len(report.Scores) != 2 {
		t.Errorf("archived report app=%q scores=%d", report.AppKey, len(report.Scores))
	}
}

func TestRisksEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, env := get(t, srv, "/api/v1/risks", "t1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		TenantID string                `json:"tenant_id"`
		Signals  []intgraph.RiskSignal `json:"signals"`
	}
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode risks: %v", err)
	}
	if body.TenantID != "t1" {
		t.Errorf("tenant = %q", body.TenantID)
	}
	if body.Signals == nil {
		t.Error("signals should be an empty list, not null")
	}
}

func TestReferenceEndpoints(t *testing.T) {
	srv := newTestServer(t)

	// Reference data does not require a tenant header.
	resp, env := get(t, srv, "/api/v1/systems", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("systems status = %d, want 200", resp.StatusCode)
	}
	var systems struct {
		Systems []compat.ExternalSystem `json:"systems"`
	}
	if err := json.Unmarshal(env.Data, &systems); err != nil {
		t.Fatalf("decode systems: %v", err)
	}
	if len(systems.Systems) != 2 || systems.Systems[0].Slug != "sap-s4" {
		t.Errorf("unexpected systems: %+v", systems.Systems)
	}

	resp, env = get(t, srv, "/api/v1/apps", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("apps status = %d, want 200", resp.StatusCode)
	}
	var apps struct {
		Apps []compat.AppDefinition `json:"apps"`
	}
	if err := json.Unmarshal(env.Data, &apps); err != nil {
		t.Fatalf("decode apps: %v", err)
	}
	if len(apps.Apps) != 1 || apps.Apps[0].Key != "procure-flow" {
		t.Errorf("unexpected apps: %+v", apps.Apps)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
