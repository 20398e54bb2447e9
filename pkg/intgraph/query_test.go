package intgraph

import "testing"

func queryFixture() *Graph {
	return &Graph{
		TenantID: "t1",
		Nodes: []Node{
			{ID: "APP:procure-flow", Type: NodeApp, Status: StatusOK},
			{ID: "SYSTEM:xero", Type: NodeSystem, Status: StatusOK},
			{ID: "SYSTEM:sap-s4", Type: NodeSystem, Status: StatusIdle},
			{ID: "PROVIDER:xero", Type: NodeProvider, Status: StatusOK},
			{ID: "SECRET:xero", Type: NodeSecret, Status: StatusOK},
			{ID: "WORKFLOW:xero_invoice_sync", Type: NodeWorkflow, Status: StatusOK},
		},
		Edges: []Edge{
			{ID: "e1", From: "APP:procure-flow", To: "SYSTEM:xero", Type: EdgeActivation, Status: EdgeOK},
			{ID: "e2", From: "APP:procure-flow", To: "SYSTEM:sap-s4", Type: EdgeActivation, Status: EdgeOK},
			{ID: "e3", From: "SYSTEM:xero", To: "PROVIDER:xero", Type: EdgeProvider, Status: EdgeOK},
			{ID: "e4", From: "SECRET:xero", To: "PROVIDER:xero", Type: EdgeSecret, Status: EdgeOK},
			{ID: "e5", From: "WORKFLOW:xero_invoice_sync", To: "SYSTEM:xero", Type: EdgeWorkflow, Status: EdgeOK},
		},
	}
}

func nodeIDs(r *NeighborhoodResult) map[string]bool {
	ids := map[string]bool{}
	for _, n := range r.Nodes {
		ids[n.ID] = true
	}
	return ids
}

func TestNeighborhoodDepthOne(t *testing.T) {
	r := Neighborhood(queryFixture(), "SYSTEM:xero", 1)
	if r == nil {
		t.Fatal("expected result")
	}

	ids := nodeIDs(r)
	for _, want := range []string{"SYSTEM:xero", "APP:procure-flow", "PROVIDER:xero", "WORKFLOW:xero_invoice_sync"} {
		if !ids[want] {
			t.Errorf("depth 1 missing %s", want)
		}
	}
	if ids["SECRET:xero"] {
		t.Error("SECRET:xero is two hops away, should not appear at depth 1")
	}
}

func TestNeighborhoodDepthTwo(t *testing.T) {
	r := Neighborhood(queryFixture(), "SYSTEM:xero", 2)
	ids := nodeIDs(r)
	if !ids["SECRET:xero"] {
		t.Error("depth 2 should reach SECRET:xero through the provider")
	}
	// sap-s4 is reachable via the shared app.
	if !ids["SYSTEM:sap-s4"] {
		t.Error("depth 2 should reach SYSTEM:sap-s4 through the app")
	}
}

func TestNeighborhoodSuffixMatch(t *testing.T) {
	// Bare slug resolves to the system node.
	r := Neighborhood(queryFixture(), "xero", 1)
	if r == nil {
		t.Fatal("expected suffix match on bare slug")
	}
	if !nodeIDs(r)["SYSTEM:xero"] {
		t.Error("bare slug should match SYSTEM:xero")
	}
}

func TestNeighborhoodEdgesWithinView(t *testing.T) {
	r := Neighborhood(queryFixture(), "SYSTEM:xero", 1)
	ids := nodeIDs(r)
	for _, e := range r.Edges {
		if !ids[e.From] || !ids[e.To] {
			t.Errorf("edge %s crosses the view boundary", e.ID)
		}
	}
}

func TestNeighborhoodNoMatch(t *testing.T) {
	if r := Neighborhood(queryFixture(), "SYSTEM:unknown", 1); r != nil {
		t.Errorf("expected nil for unknown focus, got %+v", r)
	}
}

func TestNeighborhoodDefaultDepth(t *testing.T) {
	a := Neighborhood(queryFixture(), "SYSTEM:xero", 0)
	b := Neighborhood(queryFixture(), "SYSTEM:xero", 1)
	if len(a.Nodes) != len(b.Nodes) {
		t.Errorf("depth 0 should default to 1: %d vs %d nodes", len(a.Nodes), len(b.Nodes))
	}
}
