package handlers

import (
	"net/http"

	"phishguard/internal/domain/services"
	"phishguard/pkg/logger"
)

// StatsHandler handles statistics endpoints
type StatsHandler struct {
	scans  *services.ScanService
	logger *logger.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(scans *services.ScanService, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		scans:  scans,
		logger: log.WithComponent("stats-handler"),
	}
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.scans.Stats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute stats")
		respondError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
