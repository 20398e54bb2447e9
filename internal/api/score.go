package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/fitscope/fitscope/pkg/compat"
	"github.com/fitscope/fitscope/pkg/intgraph"
	"github.com/fitscope/fitscope/pkg/scoring"
)

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	tid := tenantID(w, r)
	if tid == "" {
		return
	}

	appKey := r.URL.Query().Get("app_key")
	system := r.URL.Query().Get("system")
	if appKey == "" || system == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "app_key and system are required")
		return
	}

	score, err := h.engine.ComputeFit(r.Context(), tid, appKey, system)
	if err != nil {
		if compat.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	// History is best effort; a failed insert never fails the read.
	if h.tenants != nil {
		if _, err := h.tenants.StoreScore(r.Context(), tid, score); err != nil {
			log.Printf("api: store score %s/%s: %v", appKey, system, err)
		}
	}

	writeData(w, http.StatusOK, score)
}

func (h *Handler) handleMatrix(w http.ResponseWriter, r *http.Request) {
	tid := tenantID(w, r)
	if tid == "" {
		return
	}

	appKey := r.URL.Query().Get("app_key")
	if appKey == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "app_key is required")
		return
	}

	filters := &scoring.MatrixFilters{
		Provider: r.URL.Query().Get("provider"),
	}
	if v := r.URL.Query().Get("min_score"); v != "" {
		minScore, err := strconv.Atoi(v)
		if err != nil || minScore < 0 || minScore > 100 {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "min_score must be an integer in [0,100]")
			return
		}
		filters.MinScore = minScore
	}

	scores, err := h.engine.ComputeMatrix(r.Context(), tid, appKey, filters)
	if err != nil {
		if compat.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	if h.tenants != nil {
		// Qualifying results feed the graph's recommendation nodes.
		h.recordRecommendations(r.Context(), tid, appKey, scores)
	}

	report := map[string]any{
		"app_key": appKey,
		"scores":  scores,
	}

	if h.storage != nil {
		// Matrix reports are archived best effort, like graph exports.
		exportID := uuid.NewString()
		if blob, err := json.Marshal(report); err != nil {
			log.Printf("api: marshal matrix report %s/%s: %v", tid, exportID, err)
		} else if err := h.storage.PutMatrix(r.Context(), tid, exportID, blob); err != nil {
			log.Printf("api: archive matrix %s/%s: %v", tid, exportID, err)
		} else {
			w.Header().Set("X-Export-ID", exportID)
		}
	}

	writeData(w, http.StatusOK, report)
}

// handleMatrixArchive serves a previously archived matrix report.
func (h *Handler) handleMatrixArchive(w http.ResponseWriter, r *http.Request) {
	tid := tenantID(w, r)
	if tid == "" {
		return
	}
	if h.storage == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "export archive is not enabled")
		return
	}

	exportID := r.PathValue("exportID")
	blob, err := h.storage.GetMatrix(r.Context(), tid, exportID)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "matrix report not found")
		return
	}
	writeData(w, http.StatusOK, json.RawMessage(blob))
}

// qualifyRecommendations selects matrix results worth persisting as pending
// recommendations: scored at or above the graph's recommendation floor and
// not already active for the tenant.
func qualifyRecommendations(tid, appKey string, scores []*scoring.CompatibilityScore, instances []compat.SystemInstance) []compat.Recommendation {
	active := map[string]bool{}
	for _, inst := range instances {
		if inst.Active() {
			active[inst.SystemSlug] = true
		}
	}

	var recs []compat.Recommendation
	for _, score := range scores {
		if score.TotalScore < intgraph.RecommendationFloor || active[score.SystemSlug] {
			continue
		}
		recs = append(recs, compat.Recommendation{
			TenantID:   tid,
			AppKey:     appKey,
			SystemSlug: score.SystemSlug,
			SystemName: score.SystemName,
			Score:      score.TotalScore,
			Status:     "pending",
		})
	}
	return recs
}

// recordRecommendations persists qualifying matrix results so graph builds
// can surface them as soft nodes. Best effort, like score history.
func (h *Handler) recordRecommendations(ctx context.Context, tid, appKey string, scores []*scoring.CompatibilityScore) {
	instances, err := h.gw.ListSystemInstances(ctx, tid)
	if err != nil {
		log.Printf("api: listing instances for recommendations: %v", err)
		return
	}
	for _, rec := range qualifyRecommendations(tid, appKey, scores, instances) {
		if err := h.tenants.UpsertRecommendation(ctx, rec); err != nil {
			log.Printf("api: upsert recommendation %s/%s: %v", rec.AppKey, rec.SystemSlug, err)
		}
	}
}

func (h *Handler) handleScoreHistory(w http.ResponseWriter, r *http.Request) {
	tid := tenantID(w, r)
	if tid == "" {
		return
	}
	if h.tenants == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "score history is not enabled")
		return
	}

	appKey := r.URL.Query().Get("app_key")
	if appKey == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "app_key is required")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 200 {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "limit must be an integer in [1,200]")
			return
		}
		limit = parsed
	}

	rows, err := h.tenants.ListScoresByApp(r.Context(), tid, appKey, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"app_key": appKey,
		"scores":  rows,
	})
}
