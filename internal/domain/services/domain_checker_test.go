package services

import (
	"reflect"
	"testing"

	"phishguard/internal/domain/models"
	"phishguard/pkg/logger"
)

func newTestDomainChecker() *DomainChecker {
	return NewDomainChecker(logger.NewDefault())
}

func TestDomainAnalyze_LegitimateWhitelist(t *testing.T) {
	c := newTestDomainChecker()

	tests := []struct {
		name  string
		input string
	}{
		{name: "bare domain", input: "paypal.com"},
		{name: "full url with path", input: "https://www.google.com/search?q=test"},
		{name: "mixed case with port", input: "PayPal.com:443"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := c.Analyze(tt.input)
			if !verdict.Legitimate {
				t.Fatalf("expected %q to hit the whitelist (cleaned: %q)", tt.input, verdict.Domain)
			}
			if verdict.Score != 0 {
				t.Errorf("whitelisted domain scored %.3f, want 0", verdict.Score)
			}
			if verdict.Suspicious {
				t.Error("whitelisted domain flagged suspicious")
			}
		})
	}
}

func TestDomainAnalyze_DigitHomoglyph(t *testing.T) {
	c := newTestDomainChecker()

	verdict := c.Analyze("paypa1.com")
	if !verdict.HomoglyphDetected {
		t.Fatal("expected homoglyph detection for paypa1.com")
	}
	if verdict.NormalizedDomain != "paypal.com" {
		t.Errorf("NormalizedDomain = %q, want paypal.com", verdict.NormalizedDomain)
	}
	if verdict.Score < 0.9 {
		t.Errorf("homoglyph domain scored %.3f, want >= 0.9", verdict.Score)
	}
	if len(verdict.Matches) == 0 || verdict.Matches[0].Domain != "paypal.com" {
		t.Fatalf("expected paypal.com as best match, got %+v", verdict.Matches)
	}
	if verdict.Matches[0].Similarity < 0.9 {
		t.Errorf("similarity to paypal.com = %.3f, want >= 0.9", verdict.Matches[0].Similarity)
	}
	if verdict.Confidence != models.ConfidenceHigh {
		t.Errorf("Confidence = %s, want HIGH", verdict.Confidence)
	}
}

func TestDomainAnalyze_CyrillicHomoglyph(t *testing.T) {
	c := newTestDomainChecker()

	// Cyrillic а (U+0430) in place of Latin a
	verdict := c.Analyze("pаypal.com")
	if !verdict.HomoglyphDetected {
		t.Fatal("expected homoglyph detection for cyrillic spoof")
	}
	if verdict.NormalizedDomain != "paypal.com" {
		t.Errorf("NormalizedDomain = %q, want paypal.com", verdict.NormalizedDomain)
	}
	if verdict.Score < 0.9 {
		t.Errorf("cyrillic spoof scored %.3f, want >= 0.9", verdict.Score)
	}
}

func TestDomainAnalyze_Typosquatting(t *testing.T) {
	c := newTestDomainChecker()

	tests := []struct {
		name   string
		domain string
		target string
	}{
		{name: "omitted character", domain: "gogle.com", target: "google.com"},
		{name: "transposed characters", domain: "googel.com", target: "google.com"},
		{name: "rn for m", domain: "rnicrosoft.com", target: "microsoft.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := c.Analyze(tt.domain)
			if !verdict.TyposquatDetected {
				t.Fatalf("expected typosquat detection for %q", tt.domain)
			}
			if verdict.TyposquatTarget != tt.target {
				t.Errorf("TyposquatTarget = %q, want %q", verdict.TyposquatTarget, tt.target)
			}
			if verdict.Score < 0.8 {
				t.Errorf("typosquat scored %.3f, want >= 0.8", verdict.Score)
			}
		})
	}
}

func TestDomainAnalyze_BrandInSubdomain(t *testing.T) {
	c := newTestDomainChecker()

	verdict := c.Analyze("paypal.account-review.com")
	if verdict.BrandInSubdomain != "paypal" {
		t.Fatalf("BrandInSubdomain = %q, want paypal", verdict.BrandInSubdomain)
	}
	if verdict.Score < 0.7 {
		t.Errorf("brand-in-subdomain scored %.3f, want >= 0.7", verdict.Score)
	}
	if !verdict.Suspicious {
		t.Error("brand-in-subdomain should be suspicious")
	}
}

func TestDomainAnalyze_UnrelatedDomain(t *testing.T) {
	c := newTestDomainChecker()

	verdict := c.Analyze("unrelated-domain.org")
	if verdict.Suspicious {
		t.Errorf("unrelated domain flagged suspicious: score %.3f, reasons %v", verdict.Score, verdict.Reasons)
	}
	if verdict.HomoglyphDetected || verdict.TyposquatDetected {
		t.Error("no spoofing signals expected for unrelated domain")
	}
}

func TestDomainAnalyze_MatchesCappedAndSorted(t *testing.T) {
	c := newTestDomainChecker()

	verdict := c.Analyze("paypa1.com")
	if len(verdict.Matches) > maxDomainMatches {
		t.Errorf("got %d matches, cap is %d", len(verdict.Matches), maxDomainMatches)
	}
	for i := 1; i < len(verdict.Matches); i++ {
		if verdict.Matches[i].Similarity > verdict.Matches[i-1].Similarity {
			t.Fatalf("matches not sorted by similarity desc: %+v", verdict.Matches)
		}
	}
}

func TestDomainAnalyze_Deterministic(t *testing.T) {
	c := newTestDomainChecker()

	for _, domain := range []string{"paypa1.com", "gogle.com", "paypal.account-review.com"} {
		first := c.Analyze(domain)
		second := c.Analyze(domain)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Analyze(%q) not deterministic", domain)
		}
	}
}

func TestCleanDomain(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://www.Example.COM/path?q=1", "example.com"},
		{"example.com:8080", "example.com"},
		{"  paypal.com  ", "paypal.com"},
		{"www.paypal.com", "paypal.com"},
	}

	for _, tt := range tests {
		if got := cleanDomain(tt.input); got != tt.want {
			t.Errorf("cleanDomain(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLevenshteinSimilarity(t *testing.T) {
	tests := []struct {
		a, b     string
		distance int
		want     float64
	}{
		{"paypal.com", "paypal.com", 0, 1.0},
		{"", "", 0, 1.0},
		{"abcd", "wxyz", 4, 0.0},
	}

	for _, tt := range tests {
		if got := levenshteinSimilarity(tt.a, tt.b, tt.distance); got != tt.want {
			t.Errorf("levenshteinSimilarity(%q, %q, %d) = %.3f, want %.3f", tt.a, tt.b, tt.distance, got, tt.want)
		}
	}
}
