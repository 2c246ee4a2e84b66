package services

import (
	"strings"
	"testing"

	"phishguard/internal/domain/models"
	"phishguard/pkg/logger"
)

func newTestTextEngine() *TextEngine {
	return NewTextEngine(logger.NewDefault())
}

func TestTextAnalyze_EmptyInput(t *testing.T) {
	e := newTestTextEngine()

	signal := e.Analyze(TextInput{ContentType: models.ContentTypeEmail})
	if signal.Score != 0 {
		t.Errorf("empty input scored %.3f, want 0", signal.Score)
	}
	if len(signal.Reasons) != 0 {
		t.Errorf("empty input produced reasons: %v", signal.Reasons)
	}
	if signal.Confidence != models.ConfidenceLow {
		t.Errorf("Confidence = %s, want LOW", signal.Confidence)
	}
	if signal.Suspicious {
		t.Error("empty input flagged suspicious")
	}
}

func TestTextAnalyze_PhishingEmail(t *testing.T) {
	e := newTestTextEngine()

	signal := e.Analyze(TextInput{
		Subject: "URGENT: Account Suspended",
		Body: "Dear valued customer, we have detected unusual activity on your account. " +
			"Your account has been suspended. Verify your account immediately at " +
			"http://paypal-secure.tk/login or your access will be terminated. " +
			"Click here to confirm your identity.",
		Sender:      "alert@secure-notify.ru",
		ContentType: models.ContentTypeEmail,
	})

	if signal.Score <= 0.75 {
		t.Errorf("phishing email scored %.3f, want > 0.75 (reasons: %v)", signal.Score, signal.Reasons)
	}
	if !signal.Suspicious {
		t.Error("phishing email should be suspicious")
	}
	if !signal.SenderMismatch || signal.MismatchBrand != "paypal" {
		t.Errorf("SenderMismatch = %v (%q), want true (paypal)", signal.SenderMismatch, signal.MismatchBrand)
	}
	if signal.Confidence != models.ConfidenceHigh {
		t.Errorf("Confidence = %s, want HIGH", signal.Confidence)
	}
	if match := signal.Categories[models.CategoryUrgency]; len(match.Excerpts) == 0 {
		t.Error("expected urgency category to fire")
	}
	if match := signal.Categories[models.CategoryCredential]; len(match.Excerpts) == 0 {
		t.Error("expected credential category to fire")
	}
}

func TestTextAnalyze_LegitimateNewsletter(t *testing.T) {
	e := newTestTextEngine()

	signal := e.Analyze(TextInput{
		Body: "Here is your weekly newsletter. View in browser. " +
			"You can unsubscribe at any time or manage your preferences. " +
			"Read our privacy policy for details.",
		ContentType: models.ContentTypeEmail,
	})

	if signal.Suspicious {
		t.Errorf("newsletter flagged suspicious: score %.3f, reasons %v", signal.Score, signal.Reasons)
	}
	if signal.Score > 0.1 {
		t.Errorf("newsletter scored %.3f, want near 0", signal.Score)
	}
}

func TestTextAnalyze_GatedCategoriesByChannel(t *testing.T) {
	e := newTestTextEngine()
	body := "Your KYC verification is pending. Your SIM blocked within 24 hours. Update now."

	sms := e.Analyze(TextInput{Body: body, ContentType: models.ContentTypeSMS})
	if match, ok := sms.Categories[models.CategoryRegional]; !ok || len(match.Excerpts) == 0 {
		t.Error("regional category should fire for SMS content")
	}

	email := e.Analyze(TextInput{Body: body, ContentType: models.ContentTypeEmail})
	if _, ok := email.Categories[models.CategoryRegional]; ok {
		t.Error("regional category should not be evaluated for email content")
	}
}

func TestTextAnalyze_TripleThreatBoost(t *testing.T) {
	e := newTestTextEngine()

	signal := e.Analyze(TextInput{
		Body:        "Urgent: your payment failed. Fix it at http://pay-fix.xyz/now immediately.",
		ContentType: models.ContentTypeEmail,
	})

	found := false
	for _, reason := range signal.Reasons {
		if strings.Contains(reason, "Triple threat") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("expected triple-threat reason, got %v", signal.Reasons)
	}
}

func TestTextAnalyze_SenderMismatchSkipsESPs(t *testing.T) {
	e := newTestTextEngine()

	signal := e.Analyze(TextInput{
		Body:        "Your amazon order has shipped.",
		Sender:      "news@mail.mailchimp.com",
		ContentType: models.ContentTypeEmail,
	})
	if signal.SenderMismatch {
		t.Error("known ESP sender should not trigger a mismatch")
	}

	signal = e.Analyze(TextInput{
		Body:        "Your amazon order has a billing problem.",
		Sender:      "billing@random-host.cn",
		ContentType: models.ContentTypeEmail,
	})
	if !signal.SenderMismatch || signal.MismatchBrand != "amazon" {
		t.Errorf("SenderMismatch = %v (%q), want true (amazon)", signal.SenderMismatch, signal.MismatchBrand)
	}
}

func TestTextAnalyze_ScoreAlwaysInRange(t *testing.T) {
	e := newTestTextEngine()

	inputs := []TextInput{
		{Body: strings.Repeat("URGENT! VERIFY YOUR ACCOUNT NOW! ", 50), Subject: "FINAL WARNING", ContentType: models.ContentTypeEmail},
		{Body: "hello", ContentType: models.ContentTypeVoice},
		{Body: "KYC expired, SIM blocked, remote access needed, call this number now!", ContentType: models.ContentTypeVoice},
	}
	for _, input := range inputs {
		signal := e.Analyze(input)
		if signal.Score < 0 || signal.Score > 1 {
			t.Errorf("score %.3f out of range for body %q", signal.Score, input.Body[:min(len(input.Body), 40)])
		}
	}
}

func TestUppercaseRatio(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"", 0},
		{"ABCD", 1.0},
		{"abcd", 0},
		{"AbCd", 0.5},
	}

	for _, tt := range tests {
		if got := uppercaseRatio(tt.text); got != tt.want {
			t.Errorf("uppercaseRatio(%q) = %.3f, want %.3f", tt.text, got, tt.want)
		}
	}
}

func TestIsAllUpper(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"FINAL WARNING", true},
		{"Final Warning", false},
		{"123!", false},
		{"ACT NOW!!!", true},
	}

	for _, tt := range tests {
		if got := isAllUpper(tt.text); got != tt.want {
			t.Errorf("isAllUpper(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
