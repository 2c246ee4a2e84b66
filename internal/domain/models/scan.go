package models

import (
	"time"

	"github.com/google/uuid"
)

// ScanType identifies what kind of content a scan covered
type ScanType string

const (
	ScanTypeURL   ScanType = "url"
	ScanTypeEmail ScanType = "email"
	ScanTypeSMS   ScanType = "sms"
	ScanTypeVoice ScanType = "voice"
)

// ScanRecord is one completed scan kept in history.
// Timestamps and IDs are attached by the service layer, never by the engines.
type ScanRecord struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	Type      ScanType    `json:"type" db:"type"`
	Target    string      `json:"target" db:"target"`
	Verdict   RiskVerdict `json:"verdict" db:"verdict"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// ScanStats summarizes scan history for the stats endpoint
type ScanStats struct {
	TotalScans    int64               `json:"total_scans"`
	PhishingCount int64               `json:"phishing_count"`
	DetectionRate float64             `json:"detection_rate"`
	ByType        map[ScanType]int64  `json:"by_type"`
	ByLevel       map[RiskLevel]int64 `json:"by_level"`
}

// URLScanRequest is the payload for POST /api/v1/scan/url
type URLScanRequest struct {
	URL string `json:"url"`
}

// EmailScanRequest is the payload for POST /api/v1/scan/email
type EmailScanRequest struct {
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
	Sender  string `json:"sender,omitempty"`
}

// TextScanRequest is the payload for POST /api/v1/scan/sms and /scan/voice
type TextScanRequest struct {
	Body   string `json:"body"`
	Sender string `json:"sender,omitempty"`
}

// BulkScanRequest is the payload for POST /api/v1/scan/bulk
type BulkScanRequest struct {
	URLs []string `json:"urls"`
}

// BulkScanItem pairs one bulk input with its verdict, keeping index association
type BulkScanItem struct {
	Index   int         `json:"index"`
	URL     string      `json:"url"`
	Verdict RiskVerdict `json:"verdict"`
}

// BulkScanResult is the response for a bulk scan
type BulkScanResult struct {
	Results       []BulkScanItem `json:"results"`
	TotalCount    int            `json:"total_count"`
	PhishingCount int            `json:"phishing_count"`
	ScannedAt     time.Time      `json:"scanned_at"`
}

// ScanResponse wraps a single scan result returned to API callers
type ScanResponse struct {
	ID        uuid.UUID      `json:"id"`
	Type      ScanType       `json:"type"`
	Verdict   RiskVerdict    `json:"verdict"`
	Engines   []EngineResult `json:"engines,omitempty"`
	ScannedAt time.Time      `json:"scanned_at"`
}
