package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/fitscope/fitscope/pkg/intgraph"
)

func graphOptions(r *http.Request) intgraph.Options {
	q := r.URL.Query()
	return intgraph.Options{
		IncludeRecommendations: q.Get("recommendations") != "false",
		IncludeInactive:        q.Get("include_inactive") == "true",
	}
}

// buildGraph serves from the cache when possible, building on a miss.
func (h *Handler) buildGraph(r *http.Request, tid string) (*intgraph.Graph, error) {
	opts := graphOptions(r)
	if g, ok := h.cache.Get(tid, opts); ok {
		return g, nil
	}
	g, err := h.builder.Build(r.Context(), tid, opts)
	if err != nil {
		return nil, err
	}
	h.cache.Put(tid, opts, g)
	return g, nil
}

func (h *Handler) handleGraph(w http.ResponseWriter, r *http.Request) {
	tid := tenantID(w, r)
	if tid == "" {
		return
	}

	g, err := h.buildGraph(r, tid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	if focus := r.URL.Query().Get("focus"); focus != "" {
		depth := 1
		if v := r.URL.Query().Get("depth"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 1 || parsed > 10 {
				writeError(w, http.StatusBadRequest, "BAD_REQUEST", "depth must be an integer in [1,10]")
				return
			}
			depth = parsed
		}
		view := intgraph.Neighborhood(g, focus, depth)
		if view == nil {
			writeError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("node %q not in graph", focus))
			return
		}
		writeData(w, http.StatusOK, view)
		return
	}

	writeData(w, http.StatusOK, g)
}

func (h *Handler) handleGraphExport(w http.ResponseWriter, r *http.Request) {
	tid := tenantID(w, r)
	if tid == "" {
		return
	}

	g, err := h.buildGraph(r, tid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	exportID := uuid.NewString()
	if h.storage != nil {
		// Archival is best effort; the client still gets the payload.
		if blob, err := json.Marshal(g); err != nil {
			log.Printf("api: marshal graph export %s/%s: %v", tid, exportID, err)
		} else if err := h.storage.PutGraph(r.Context(), tid, exportID, blob); err != nil {
			log.Printf("api: archive graph %s/%s: %v", tid, exportID, err)
		} else {
			w.Header().Set("X-Export-ID", exportID)
		}
	}

	filename := fmt.Sprintf("fitscope-graph-%s-%s.json", tid, time.Now().UTC().Format("20060102T150405Z"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeData(w, http.StatusOK, g)
}

// handleGraphArchive serves a previously archived graph export.
func (h *Handler) handleGraphArchive(w http.ResponseWriter, r *http.Request) {
	tid := tenantID(w, r)
	if tid == "" {
		return
	}
	if h.storage == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "export archive is not enabled")
		return
	}

	exportID := r.PathValue("exportID")
	blob, err := h.storage.GetGraph(r.Context(), tid, exportID)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "graph export not found")
		return
	}
	writeData(w, http.StatusOK, json.RawMessage(blob))
}

func (h *Handler) handleRisks(w http.ResponseWriter, r *http.Request) {
	tid := tenantID(w, r)
	if tid == "" {
		return
	}

	g, err := h.buildGraph(r, tid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	signals := intgraph.ExtractRiskSignals(g)
	writeData(w, http.StatusOK, map[string]any{
		"tenant_id": tid,
		"signals":   signals,
	})
}
