package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"phishguard/internal/domain/models"
	"phishguard/internal/domain/services"
	"phishguard/pkg/logger"
)

// ScanHandler handles scan endpoints
type ScanHandler struct {
	scans  *services.ScanService
	logger *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(scans *services.ScanService, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		scans:  scans,
		logger: log.WithComponent("scan-handler"),
	}
}

// ScanURL handles POST /api/v1/scan/url
func (h *ScanHandler) ScanURL(w http.ResponseWriter, r *http.Request) {
	var req models.URLScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	resp, err := h.scans.ScanURL(r.Context(), req.URL)
	if err != nil {
		h.logger.Error().Err(err).Msg("URL scan failed")
		respondError(w, http.StatusInternalServerError, "failed to scan URL")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// ScanEmail handles POST /api/v1/scan/email
func (h *ScanHandler) ScanEmail(w http.ResponseWriter, r *http.Request) {
	var req models.EmailScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Subject == "" && req.Body == "" {
		respondError(w, http.StatusBadRequest, "subject or body is required")
		return
	}

	resp, err := h.scans.ScanEmail(r.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("email scan failed")
		respondError(w, http.StatusInternalServerError, "failed to scan email")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// ScanSMS handles POST /api/v1/scan/sms
func (h *ScanHandler) ScanSMS(w http.ResponseWriter, r *http.Request) {
	var req models.TextScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Body == "" {
		respondError(w, http.StatusBadRequest, "body is required")
		return
	}

	resp, err := h.scans.ScanSMS(r.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("SMS scan failed")
		respondError(w, http.StatusInternalServerError, "failed to scan SMS")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// ScanVoice handles POST /api/v1/scan/voice
func (h *ScanHandler) ScanVoice(w http.ResponseWriter, r *http.Request) {
	var req models.TextScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Body == "" {
		respondError(w, http.StatusBadRequest, "body is required")
		return
	}

	resp, err := h.scans.ScanVoice(r.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("voice scan failed")
		respondError(w, http.StatusInternalServerError, "failed to scan transcript")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// ScanBulk handles POST /api/v1/scan/bulk
func (h *ScanHandler) ScanBulk(w http.ResponseWriter, r *http.Request) {
	var req models.BulkScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.URLs) == 0 {
		respondError(w, http.StatusBadRequest, "urls is required")
		return
	}
	if limit := h.scans.BulkMaxItems(); len(req.URLs) > limit {
		respondError(w, http.StatusBadRequest, "too many urls in one request")
		return
	}

	result, err := h.scans.ScanBulk(r.Context(), req.URLs)
	if err != nil {
		h.logger.Error().Err(err).Msg("bulk scan failed")
		respondError(w, http.StatusInternalServerError, "failed to scan URLs")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
