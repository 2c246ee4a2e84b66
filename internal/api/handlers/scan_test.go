package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"phishguard/internal/config"
	"phishguard/internal/domain/models"
	"phishguard/internal/domain/services"
	"phishguard/pkg/logger"
)

func newTestScanHandler() *ScanHandler {
	log := logger.NewDefault()
	svc := services.NewScanService(config.ScanConfig{BulkMaxItems: 3}, config.DefaultScoring(), nil, nil, log)
	return NewScanHandler(svc, log)
}

func TestScanURLHandler(t *testing.T) {
	h := newTestScanHandler()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "valid url", body: `{"url":"https://google.com"}`, wantStatus: http.StatusOK},
		{name: "missing url", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "blank url", body: `{"url":"   "}`, wantStatus: http.StatusBadRequest},
		{name: "malformed json", body: `{"url":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/scan/url", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.ScanURL(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				var resp models.ScanResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("invalid response JSON: %v", err)
				}
				if resp.Type != models.ScanTypeURL {
					t.Errorf("Type = %s, want url", resp.Type)
				}
				if len(resp.Engines) != 2 {
					t.Errorf("got %d engines, want 2", len(resp.Engines))
				}
			}
		})
	}
}

func TestScanEmailHandler_RequiresContent(t *testing.T) {
	h := newTestScanHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan/email", strings.NewReader(`{"sender":"a@b.com"}`))
	rec := httptest.NewRecorder()
	h.ScanEmail(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for empty subject and body", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/scan/email", strings.NewReader(`{"subject":"Hi","body":"See you at lunch"}`))
	rec = httptest.NewRecorder()
	h.ScanEmail(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestScanBulkHandler_EnforcesLimit(t *testing.T) {
	h := newTestScanHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan/bulk",
		strings.NewReader(`{"urls":["https://a.com","https://b.com","https://c.com","https://d.com"]}`))
	rec := httptest.NewRecorder()
	h.ScanBulk(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 when over the bulk limit", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/scan/bulk",
		strings.NewReader(`{"urls":["https://google.com","https://github.com"]}`))
	rec = httptest.NewRecorder()
	h.ScanBulk(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var result models.BulkScanResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if result.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", result.TotalCount)
	}
}
