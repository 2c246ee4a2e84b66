package handlers

import (
	"encoding/json"
	"net/http"

	"phishguard/internal/domain/services"
	"phishguard/internal/infrastructure/cache"
	"phishguard/internal/infrastructure/database"
	"phishguard/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health  *HealthHandler
	Scan    *ScanHandler
	Threats *ThreatsHandler
	Stats   *StatsHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Scans  *services.ScanService
	Cache  *cache.RedisCache
	DB     *database.PostgresDB
	Logger *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.Cache, deps.DB, deps.Logger),
		Scan:    NewScanHandler(deps.Scans, deps.Logger),
		Threats: NewThreatsHandler(deps.Scans, deps.Logger),
		Stats:   NewStatsHandler(deps.Scans, deps.Logger),
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
