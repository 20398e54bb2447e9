package api

import "net/http"

// Reference data is global, so these endpoints skip the tenant header.

func (h *Handler) handleListApps(w http.ResponseWriter, r *http.Request) {
	apps, err := h.gw.ListApps(r.Context(), r.Header.Get("X-Tenant-ID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	writeData(w, http.StatusOK, map[string]any{"apps": apps})
}

func (h *Handler) handleListSystems(w http.ResponseWriter, r *http.Request) {
	systems, err := h.gw.ListSystems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	writeData(w, http.StatusOK, map[string]any{"systems": systems})
}
