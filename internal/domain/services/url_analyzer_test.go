package services

import (
	"reflect"
	"testing"

	"phishguard/pkg/logger"
)

func newTestURLAnalyzer() *URLAnalyzer {
	return NewURLAnalyzer(logger.NewDefault())
}

func TestAnalyze_KnownGoodURL(t *testing.T) {
	a := newTestURLAnalyzer()

	result := a.Analyze("https://google.com")
	if result.Score >= 0.2 {
		t.Errorf("expected low score for google.com, got %.3f (reasons: %v)", result.Score, result.Reasons)
	}
	if result.Suspicious {
		t.Error("google.com should not be flagged suspicious")
	}
	if result.Features.BrandImpersonation != "" {
		t.Errorf("canonical brand domain flagged as impersonation: %q", result.Features.BrandImpersonation)
	}
}

func TestAnalyze_IPHostPhishingURL(t *testing.T) {
	a := newTestURLAnalyzer()

	result := a.Analyze("http://192.168.0.1/paypal/login?verify=1")
	if result.Score <= 0.6 {
		t.Errorf("expected high score for IP-host phishing URL, got %.3f", result.Score)
	}
	if !result.Suspicious {
		t.Error("IP-host phishing URL should be suspicious")
	}
	if !result.Features.HasIPAddress {
		t.Error("expected HasIPAddress to be set")
	}
	if !result.Features.BlacklistPatternMatch {
		t.Error("expected blacklist pattern match for IP-host URL")
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := newTestURLAnalyzer()

	urls := []string{
		"https://google.com",
		"http://192.168.0.1/paypal/login?verify=1",
		"http://paypa1.com/signin",
		"https://paypal.com@evil.ru/login",
	}
	for _, rawURL := range urls {
		first := a.Analyze(rawURL)
		second := a.Analyze(rawURL)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Analyze(%q) not deterministic", rawURL)
		}
	}
}

func TestAnalyze_ScoreAlwaysInRange(t *testing.T) {
	a := newTestURLAnalyzer()

	urls := []string{
		"",
		"not a url at all",
		"http://paypal-secure-login-verify-update.account-security.tk/signin?token=abc&redirect=evil",
		"http://192.168.0.1/paypal/login.exe?verify=1&session=x&auth=y",
		"https://xn--pypal-4ve.com/login",
	}
	for _, rawURL := range urls {
		result := a.Analyze(rawURL)
		if result.Score < 0 || result.Score > 1 {
			t.Errorf("Analyze(%q) score %.3f out of range", rawURL, result.Score)
		}
	}
}

func TestExtractFeatures_AtRedirectTrick(t *testing.T) {
	a := newTestURLAnalyzer()

	tests := []struct {
		name        string
		url         string
		expectTrick bool
		spoof       string
		real        string
	}{
		{
			name:        "brand decoy before at sign",
			url:         "https://paypal.com@evil.ru/login",
			expectTrick: true,
			spoof:       "paypal.com",
			real:        "evil.ru",
		},
		{
			name:        "split on last at sign",
			url:         "https://user@paypal.com@evil.ru/",
			expectTrick: true,
			spoof:       "user@paypal.com",
			real:        "evil.ru",
		},
		{
			name:        "plain credentials are not a trick",
			url:         "https://user@example.com/",
			expectTrick: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := a.ExtractFeatures(tt.url)
			if f.AtRedirectTrick != tt.expectTrick {
				t.Fatalf("AtRedirectTrick = %v, want %v", f.AtRedirectTrick, tt.expectTrick)
			}
			if tt.expectTrick {
				if f.AtSpoofDomain != tt.spoof {
					t.Errorf("AtSpoofDomain = %q, want %q", f.AtSpoofDomain, tt.spoof)
				}
				if f.AtRealDomain != tt.real {
					t.Errorf("AtRealDomain = %q, want %q", f.AtRealDomain, tt.real)
				}
			}
		})
	}
}

func TestDetectBrandImpersonation(t *testing.T) {
	tests := []struct {
		name      string
		host      string
		wantBrand string
		homoglyph bool
	}{
		{name: "canonical domain", host: "paypal.com", wantBrand: ""},
		{name: "canonical subdomain", host: "accounts.google.com", wantBrand: ""},
		{name: "digit homoglyph", host: "paypa1.com", wantBrand: "paypal", homoglyph: true},
		{name: "rn sequence", host: "rnicrosoft.com", wantBrand: "microsoft", homoglyph: true},
		{name: "brand substring", host: "paypal-support.net", wantBrand: "paypal", homoglyph: false},
		{name: "unrelated domain", host: "example.org", wantBrand: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			brand, _, homoglyph := detectBrandImpersonation(tt.host, "http://"+tt.host)
			if brand != tt.wantBrand {
				t.Errorf("brand = %q, want %q", brand, tt.wantBrand)
			}
			if homoglyph != tt.homoglyph {
				t.Errorf("homoglyph = %v, want %v", homoglyph, tt.homoglyph)
			}
		})
	}
}

func TestIsIPHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"192.168.0.1", true},
		{"8.8.8.8", true},
		{"999.1.1.1", false},
		{"256.0.0.1", false},
		{"[2001:db8::1]", true},
		{"0xc0a80001", true},
		{"example.com", false},
		{"1.2.3", false},
	}

	for _, tt := range tests {
		if got := isIPHost(tt.host); got != tt.want {
			t.Errorf("isIPHost(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

func TestAnalyze_UnparseableURLScoresAtLeastMid(t *testing.T) {
	a := newTestURLAnalyzer()

	result := a.Analyze("http://exa mple.com/login")
	if !result.Features.ParseFailed {
		t.Fatal("expected ParseFailed for URL with space in host")
	}
	if result.Score < 0.5 {
		t.Errorf("unparseable URL scored %.3f, want >= 0.5", result.Score)
	}
}

func TestShannonEntropy(t *testing.T) {
	if got := shannonEntropy(""); got != 0 {
		t.Errorf("entropy of empty string = %.3f, want 0", got)
	}
	if got := shannonEntropy("aaaa"); got != 0 {
		t.Errorf("entropy of uniform string = %.3f, want 0", got)
	}
	if got := shannonEntropy("abcd"); got != 2.0 {
		t.Errorf("entropy of abcd = %.3f, want 2.0", got)
	}
}

func TestExtractFeatures_HostSignals(t *testing.T) {
	a := newTestURLAnalyzer()

	f := a.ExtractFeatures("http://secure.login.paypal.evil-host.tk:8080/update")
	if !f.HasHighRiskTLD {
		t.Error("expected HasHighRiskTLD for .tk")
	}
	if !f.HasPort {
		t.Error("expected HasPort for :8080")
	}
	if f.SubdomainCount != 2 {
		t.Errorf("SubdomainCount = %d, want 2", f.SubdomainCount)
	}
	if f.SubdomainBrandSpoof != "paypal" {
		t.Errorf("SubdomainBrandSpoof = %q, want paypal", f.SubdomainBrandSpoof)
	}

	f = a.ExtractFeatures("https://bit.ly/3xYz")
	if !f.IsShortened {
		t.Error("expected IsShortened for bit.ly")
	}
}
