package scoring_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/fitscope/fitscope/pkg/compat"
	"github.com/fitscope/fitscope/pkg/scoring"
)

func matrixGateway() *compat.MemoryGateway {
	gw := compat.NewMemoryGateway()
	gw.Apps = []compat.AppDefinition{
		{
			Key:          "procure-flow",
			Name:         "Procure Flow",
			Capabilities: []string{"invoicing", "payroll"},
		},
	}
	gw.Systems = []compat.ExternalSystem{
		// Full capability coverage plus compliance.
		{
			Slug:        "meridian",
			Name:        "Meridian",
			Modules:     []string{"Invoicing Suite", "Payroll Suite"},
			Compliances: []string{"GDPR", "SAF-T NO"},
		},
		// Partial coverage.
		{
			Slug:    "acme-erp",
			Name:    "Acme ERP",
			Modules: []string{"Invoicing Module"},
		},
		// Nothing relevant.
		{
			Slug: "zephyr",
			Name: "Zephyr",
		},
	}
	return gw
}

func TestComputeMatrixSortedDescending(t *testing.T) {
	engine := scoring.NewEngine(matrixGateway())

	matrix, err := engine.ComputeMatrix(context.Background(), "t1", "procure-flow", nil)
	if err != nil {
		t.Fatalf("ComputeMatrix: %v", err)
	}
	if len(matrix) != 3 {
		t.Fatalf("expected 3 results, got %d", len(matrix))
	}

	for i := 1; i < len(matrix); i++ {
		if matrix[i-1].TotalScore < matrix[i].TotalScore {
			t.Errorf("matrix not sorted: [%d]=%d < [%d]=%d",
				i-1, matrix[i-1].TotalScore, i, matrix[i].TotalScore)
		}
	}
	if matrix[0].SystemSlug != "meridian" {
		t.Errorf("top result = %s, want meridian", matrix[0].SystemSlug)
	}
}

func TestComputeMatrixMinScoreFilter(t *testing.T) {
	engine := scoring.NewEngine(matrixGateway())

	matrix, err := engine.ComputeMatrix(context.Background(), "t1", "procure-flow",
		&scoring.MatrixFilters{MinScore: 50})
	if err != nil {
		t.Fatalf("ComputeMatrix: %v", err)
	}
	for _, score := range matrix {
		if score.TotalScore < 50 {
			t.Errorf("%s scored %d, below the minScore filter", score.SystemSlug, score.TotalScore)
		}
	}
}

func TestComputeMatrixProviderFilter(t *testing.T) {
	gw := matrixGateway()
	gw.Systems[0].Integrations = []compat.SystemIntegration{{Type: "mcp", Name: "xero connector"}}

	engine := scoring.NewEngine(gw)
	matrix, err := engine.ComputeMatrix(context.Background(), "t1", "procure-flow",
		&scoring.MatrixFilters{Provider: "xero"})
	if err != nil {
		t.Fatalf("ComputeMatrix: %v", err)
	}
	if len(matrix) != 1 || matrix[0].SystemSlug != "meridian" {
		t.Errorf("provider filter kept %v, want only meridian", slugs(matrix))
	}
}

func TestComputeMatrixTieBreakBySlug(t *testing.T) {
	gw := compat.NewMemoryGateway()
	gw.Apps = []compat.AppDefinition{{Key: "app", Capabilities: []string{"x"}}}
	gw.Systems = []compat.ExternalSystem{
		{Slug: "delta", Name: "Delta"},
		{Slug: "bravo", Name: "Bravo"},
		{Slug: "charlie", Name: "Charlie"},
	}

	engine := scoring.NewEngine(gw)
	matrix, err := engine.ComputeMatrix(context.Background(), "t1", "app", nil)
	if err != nil {
		t.Fatalf("ComputeMatrix: %v", err)
	}

	want := []string{"bravo", "charlie", "delta"}
	got := slugs(matrix)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tie-break order = %v, want %v", got, want)
		}
	}
}

// faultyGateway fails lookups for one poisoned system slug.
type faultyGateway struct {
	*compat.MemoryGateway
	poisoned string
}

func (g *faultyGateway) GetSystem(ctx context.Context, slug string) (*compat.ExternalSystem, error) {
	if slug == g.poisoned {
		return nil, fmt.Errorf("backend unavailable for %s", slug)
	}
	return g.MemoryGateway.GetSystem(ctx, slug)
}

func TestComputeMatrixResilience(t *testing.T) {
	gw := &faultyGateway{MemoryGateway: matrixGateway(), poisoned: "acme-erp"}

	engine := scoring.NewEngine(gw)
	matrix, err := engine.ComputeMatrix(context.Background(), "t1", "procure-flow", nil)
	if err != nil {
		t.Fatalf("ComputeMatrix must not fail on a single bad system: %v", err)
	}
	if len(matrix) != 2 {
		t.Errorf("expected 2 surviving results, got %d (%v)", len(matrix), slugs(matrix))
	}
	for _, score := range matrix {
		if score.SystemSlug == "acme-erp" {
			t.Error("poisoned system must be omitted from the matrix")
		}
	}
}

func TestComputeMatrixSerialConcurrency(t *testing.T) {
	engine := scoring.NewEngine(matrixGateway()).WithMatrixConcurrency(1)

	matrix, err := engine.ComputeMatrix(context.Background(), "t1", "procure-flow", nil)
	if err != nil {
		t.Fatalf("ComputeMatrix: %v", err)
	}
	if len(matrix) != 3 {
		t.Fatalf("expected 3 results with serial fan-out, got %d", len(matrix))
	}
	if matrix[0].SystemSlug != "meridian" {
		t.Errorf("top result = %s, want meridian", matrix[0].SystemSlug)
	}
}

func TestComputeMatrixUnknownApp(t *testing.T) {
	engine := scoring.NewEngine(matrixGateway())
	_, err := engine.ComputeMatrix(context.Background(), "t1", "no-such-app", nil)
	if !compat.IsNotFound(err) {
		t.Errorf("got %v, want NotFoundError for unknown app", err)
	}
}

func slugs(matrix []*scoring.CompatibilityScore) []string {
	out := make([]string, len(matrix))
	for i, s := range matrix {
		out[i] = s.SystemSlug
	}
	return out
}
