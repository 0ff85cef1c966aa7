package handlers

import (
	"net/http"

	"noticeflow/internal/core"
)

type HealthHandler struct {
	store core.DocumentStore
}

func NewHealthHandler(store core.DocumentStore) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check reports whether the document store is reachable.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
