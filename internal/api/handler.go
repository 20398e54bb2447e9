// Package api implements the hosted Fitscope REST API.
// It provides scoring and graph read endpoints backed by Postgres and
// blob storage, plus the automation webhook mount point.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/fitscope/fitscope/internal/archive"
	"github.com/fitscope/fitscope/internal/tenant"
	"github.com/fitscope/fitscope/pkg/compat"
	"github.com/fitscope/fitscope/pkg/intgraph"
	"github.com/fitscope/fitscope/pkg/scoring"
)

// Handler is the top-level API handler for the hosted Fitscope service.
type Handler struct {
	gw      compat.Gateway
	engine  *scoring.Engine
	builder *intgraph.Builder
	tenants *tenant.Service
	storage archive.StorageClient
	cache   *GraphCache
}

// NewHandler creates a new API handler. tenants and storage may be nil;
// score history and export archival are then disabled.
func NewHandler(gw compat.Gateway, engine *scoring.Engine, tenants *tenant.Service, storage archive.StorageClient, cache *GraphCache) *Handler {
	if cache == nil {
		cache = NewGraphCacheFromEnv()
	}
	return &Handler{
		gw:      gw,
		engine:  engine,
		builder: intgraph.NewBuilder(gw),
		tenants: tenants,
		storage: storage,
		cache:   cache,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/score", h.handleScore)
	mux.HandleFunc("GET /api/v1/matrix", h.handleMatrix)
	mux.HandleFunc("GET /api/v1/scores", h.handleScoreHistory)

	mux.HandleFunc("GET /api/v1/integration-graph", h.handleGraph)
	mux.HandleFunc("GET /api/v1/integration-graph/export", h.handleGraphExport)
	mux.HandleFunc("GET /api/v1/integration-graph/export/{exportID}", h.handleGraphArchive)
	mux.HandleFunc("GET /api/v1/matrix/export/{exportID}", h.handleMatrixArchive)
	mux.HandleFunc("GET /api/v1/risks", h.handleRisks)

	mux.HandleFunc("GET /api/v1/apps", h.handleListApps)
	mux.HandleFunc("GET /api/v1/systems", h.handleListSystems)

	mux.HandleFunc("GET /healthz", h.handleHealthz)
}

// envelope is the response shape every endpoint returns.
type envelope struct {
	OK       bool      `json:"ok"`
	Data     any       `json:"data,omitempty"`
	Error    *apiError `json:"error,omitempty"`
	Metadata metadata  `json:"metadata"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type metadata struct {
	RequestID string `json:"request_id"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{
		OK:       true,
		Data:     data,
		Metadata: metadata{RequestID: uuid.NewString()},
	})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, envelope{
		OK:       false,
		Error:    &apiError{Code: code, Message: msg},
		Metadata: metadata{RequestID: uuid.NewString()},
	})
}

// tenantID resolves the caller's tenant from the X-Tenant-ID header.
// Returns "" after writing a 401 when the header is absent.
func tenantID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get("X-Tenant-ID")
	if id == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing X-Tenant-ID header")
	}
	return id
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
