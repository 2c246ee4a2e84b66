package models

// Confidence represents how certain an engine is about its score
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// rank orders confidence tiers so the combiner can take the maximum
func (c Confidence) rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// Max returns the higher of two confidence tiers
func (c Confidence) Max(other Confidence) Confidence {
	if other.rank() > c.rank() {
		return other
	}
	return c
}

// Engine identifiers used in results and the combiner weight table
const (
	EngineURLAnalyzer   = "url_analyzer"
	EngineTextEngine    = "text_engine"
	EngineDomainChecker = "domain_checker"
)

// EngineResult is the uniform output shape every detection engine emits
type EngineResult struct {
	Engine     string     `json:"engine"`
	Score      float64    `json:"score"` // 0.0 - 1.0
	Reasons    []string   `json:"reasons"`
	Confidence Confidence `json:"confidence"`
	Suspicious bool       `json:"is_suspicious"`
}

// RiskLevel is the discretized five-level risk scale
type RiskLevel string

const (
	RiskLevelSafe     RiskLevel = "SAFE"
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// EngineScore records one engine's contribution to the final verdict
type EngineScore struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// RiskVerdict is the final combined risk assessment
type RiskVerdict struct {
	Score          float64                `json:"risk_score"` // 0.0 - 1.0
	Level          RiskLevel              `json:"risk_level"`
	Color          string                 `json:"risk_color"`
	Icon           string                 `json:"risk_icon"`
	IsPhishing     bool                   `json:"is_phishing"`
	Confidence     Confidence             `json:"confidence"`
	EngineScores   map[string]EngineScore `json:"engine_scores"`
	Reasons        []string               `json:"reasons"`
	Explanation    string                 `json:"explanation"`
	Recommendation string                 `json:"recommendation"`
}
