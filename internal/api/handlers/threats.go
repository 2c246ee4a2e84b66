package handlers

import (
	"net/http"
	"strconv"

	"phishguard/internal/domain/services"
	"phishguard/pkg/logger"
)

// ThreatsHandler handles scan history endpoints
type ThreatsHandler struct {
	scans  *services.ScanService
	logger *logger.Logger
}

// NewThreatsHandler creates a new threats handler
func NewThreatsHandler(scans *services.ScanService, log *logger.Logger) *ThreatsHandler {
	return &ThreatsHandler{
		scans:  scans,
		logger: log.WithComponent("threats-handler"),
	}
}

// List handles GET /api/v1/threats
func (h *ThreatsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := h.scans.RecentThreats(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list recent threats")
		respondError(w, http.StatusInternalServerError, "failed to list threats")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"threats": records,
		"count":   len(records),
	})
}
