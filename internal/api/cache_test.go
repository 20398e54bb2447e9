package api_test

import (
	"testing"
	"time"

	"github.com/fitscope/fitscope/internal/api"
	"github.com/fitscope/fitscope/pkg/intgraph"
)

func testGraph(tenantID string) *intgraph.Graph {
	return &intgraph.Graph{TenantID: tenantID}
}

func TestGraphCachePutGet(t *testing.T) {
	cache := api.NewGraphCache(4, time.Minute)
	opts := intgraph.Options{IncludeRecommendations: true}

	if _, ok := cache.Get("t1", opts); ok {
		t.Fatal("empty cache returned a hit")
	}

	cache.Put("t1", opts, testGraph("t1"))
	g, ok := cache.Get("t1", opts)
	if !ok || g.TenantID != "t1" {
		t.Fatalf("get after put: ok=%t g=%+v", ok, g)
	}

	// Different options are a different key.
	if _, ok := cache.Get("t1", intgraph.Options{}); ok {
		t.Error("options variant should miss")
	}
}

func TestGraphCacheEviction(t *testing.T) {
	cache := api.NewGraphCache(2, time.Minute)
	opts := intgraph.Options{}

	cache.Put("t1", opts, testGraph("t1"))
	cache.Put("t2", opts, testGraph("t2"))

	// Touch t1 so t2 becomes the eviction candidate.
	if _, ok := cache.Get("t1", opts); !ok {
		t.Fatal("t1 should be cached")
	}

	cache.Put("t3", opts, testGraph("t3"))

	if _, ok := cache.Get("t2", opts); ok {
		t.Error("t2 should have been evicted")
	}
	if _, ok := cache.Get("t1", opts); !ok {
		t.Error("t1 should survive eviction")
	}
	if _, ok := cache.Get("t3", opts); !ok {
		t.Error("t3 should be cached")
	}
}

func TestGraphCacheTTL(t *testing.T) {
	cache := api.NewGraphCache(4, 10*time.Millisecond)
	opts := intgraph.Options{}

	cache.Put("t1", opts, testGraph("t1"))
	time.Sleep(25 * time.Millisecond)

	if _, ok := cache.Get("t1", opts); ok {
		t.Error("expired entry returned a hit")
	}
}

func TestGraphCacheInvalidate(t *testing.T) {
	cache := api.NewGraphCache(8, time.Minute)

	cache.Put("t1", intgraph.Options{}, testGraph("t1"))
	cache.Put("t1", intgraph.Options{IncludeInactive: true}, testGraph("t1"))
	cache.Put("t2", intgraph.Options{}, testGraph("t2"))

	cache.Invalidate("t1")

	if _, ok := cache.Get("t1", intgraph.Options{}); ok {
		t.Error("t1 default variant should be invalidated")
	}
	if _, ok := cache.Get("t1", intgraph.Options{IncludeInactive: true}); ok {
		t.Error("t1 inactive variant should be invalidated")
	}
	if _, ok := cache.Get("t2", intgraph.Options{}); !ok {
		t.Error("t2 should be untouched")
	}
}
