package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"phishguard/internal/config"
	"phishguard/internal/domain/models"
	"phishguard/pkg/logger"
)

func newTestScanService() *ScanService {
	return NewScanService(config.ScanConfig{}, config.DefaultScoring(), nil, nil, logger.NewDefault())
}

func TestScanURL_PhishingAndSafe(t *testing.T) {
	svc := newTestScanService()
	ctx := context.Background()

	resp, err := svc.ScanURL(ctx, "http://192.168.0.1/paypal/login?verify=1")
	if err != nil {
		t.Fatalf("ScanURL: %v", err)
	}
	if !resp.Verdict.IsPhishing {
		t.Errorf("IP-host phishing URL not flagged: score %.3f", resp.Verdict.Score)
	}
	if len(resp.Engines) != 2 {
		t.Errorf("got %d engine results, want 2 (url analyzer + domain checker)", len(resp.Engines))
	}
	if resp.Type != models.ScanTypeURL {
		t.Errorf("Type = %s, want %s", resp.Type, models.ScanTypeURL)
	}
	if resp.ID == uuid.Nil {
		t.Error("scan response missing ID")
	}

	resp, err = svc.ScanURL(ctx, "https://google.com")
	if err != nil {
		t.Fatalf("ScanURL: %v", err)
	}
	if resp.Verdict.IsPhishing {
		t.Errorf("google.com flagged as phishing: score %.3f, reasons %v", resp.Verdict.Score, resp.Verdict.Reasons)
	}
}

func TestScanSMS_IncludesEmbeddedURLEngine(t *testing.T) {
	svc := newTestScanService()

	resp, err := svc.ScanSMS(context.Background(), models.TextScanRequest{
		Body: "URGENT: verify your account at http://192.168.0.1/paypal/login?verify=1",
	})
	if err != nil {
		t.Fatalf("ScanSMS: %v", err)
	}
	if len(resp.Engines) != 2 {
		t.Fatalf("got %d engine results, want 2 (text engine + url analyzer)", len(resp.Engines))
	}
	if resp.Engines[0].Engine != models.EngineTextEngine {
		t.Errorf("first engine = %s, want %s", resp.Engines[0].Engine, models.EngineTextEngine)
	}
	if resp.Engines[1].Engine != models.EngineURLAnalyzer {
		t.Errorf("second engine = %s, want %s", resp.Engines[1].Engine, models.EngineURLAnalyzer)
	}
}

func TestScanVoice_TextEngineOnly(t *testing.T) {
	svc := newTestScanService()

	resp, err := svc.ScanVoice(context.Background(), models.TextScanRequest{
		Body: "This is microsoft support, your computer is infected. Install anydesk and share your screen.",
	})
	if err != nil {
		t.Fatalf("ScanVoice: %v", err)
	}
	if len(resp.Engines) != 1 {
		t.Fatalf("got %d engine results, want 1", len(resp.Engines))
	}
	if resp.Type != models.ScanTypeVoice {
		t.Errorf("Type = %s, want %s", resp.Type, models.ScanTypeVoice)
	}
}

func TestScanBulk_PreservesInputAssociation(t *testing.T) {
	svc := newTestScanService()

	urls := []string{
		"https://google.com",
		"http://192.168.0.1/paypal/login?verify=1",
		"https://github.com",
	}
	result, err := svc.ScanBulk(context.Background(), urls)
	if err != nil {
		t.Fatalf("ScanBulk: %v", err)
	}
	if result.TotalCount != len(urls) {
		t.Errorf("TotalCount = %d, want %d", result.TotalCount, len(urls))
	}
	for i, item := range result.Results {
		if item.Index != i {
			t.Errorf("Results[%d].Index = %d", i, item.Index)
		}
		if item.URL != urls[i] {
			t.Errorf("Results[%d].URL = %q, want %q", i, item.URL, urls[i])
		}
	}
	if result.PhishingCount != 1 {
		t.Errorf("PhishingCount = %d, want 1", result.PhishingCount)
	}
}

func TestRecentThreats_NewestFirst(t *testing.T) {
	svc := newTestScanService()
	ctx := context.Background()

	if _, err := svc.ScanURL(ctx, "https://google.com"); err != nil {
		t.Fatalf("ScanURL: %v", err)
	}
	if _, err := svc.ScanURL(ctx, "http://192.168.0.1/paypal/login?verify=1"); err != nil {
		t.Fatalf("ScanURL: %v", err)
	}

	records, err := svc.RecentThreats(ctx, 10)
	if err != nil {
		t.Fatalf("RecentThreats: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Target != "http://192.168.0.1/paypal/login?verify=1" {
		t.Errorf("newest record first: got %q", records[0].Target)
	}
}

func TestStats_InMemoryCounts(t *testing.T) {
	svc := newTestScanService()
	ctx := context.Background()

	if _, err := svc.ScanURL(ctx, "https://google.com"); err != nil {
		t.Fatalf("ScanURL: %v", err)
	}
	if _, err := svc.ScanURL(ctx, "http://192.168.0.1/paypal/login?verify=1"); err != nil {
		t.Fatalf("ScanURL: %v", err)
	}
	if _, err := svc.ScanVoice(ctx, models.TextScanRequest{Body: "hello there"}); err != nil {
		t.Fatalf("ScanVoice: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalScans != 3 {
		t.Errorf("TotalScans = %d, want 3", stats.TotalScans)
	}
	if stats.ByType[models.ScanTypeURL] != 2 {
		t.Errorf("ByType[url] = %d, want 2", stats.ByType[models.ScanTypeURL])
	}
	if stats.PhishingCount != 1 {
		t.Errorf("PhishingCount = %d, want 1", stats.PhishingCount)
	}
	if stats.DetectionRate <= 0 || stats.DetectionRate >= 1 {
		t.Errorf("DetectionRate = %.3f, want in (0,1)", stats.DetectionRate)
	}
}

func TestScanService_HistoryBounded(t *testing.T) {
	svc := NewScanService(config.ScanConfig{HistoryLimit: 3}, config.DefaultScoring(), nil, nil, logger.NewDefault())
	ctx := context.Background()

	for range 5 {
		if _, err := svc.ScanVoice(ctx, models.TextScanRequest{Body: "hello"}); err != nil {
			t.Fatalf("ScanVoice: %v", err)
		}
	}

	records, err := svc.RecentThreats(ctx, 10)
	if err != nil {
		t.Fatalf("RecentThreats: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("got %d records, want history bounded at 3", len(records))
	}
}

func TestBulkMaxItems_Default(t *testing.T) {
	svc := newTestScanService()
	if got := svc.BulkMaxItems(); got != 100 {
		t.Errorf("BulkMaxItems = %d, want 100", got)
	}
}
