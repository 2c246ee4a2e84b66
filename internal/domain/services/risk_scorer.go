package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"phishguard/internal/config"
	"phishguard/internal/domain/models"
	"phishguard/pkg/logger"
)

// Five-level scale breakpoints on the combined score
const (
	levelLowBreakpoint      = 0.2
	levelMediumBreakpoint   = 0.4
	levelHighBreakpoint     = 0.6
	levelCriticalBreakpoint = 0.8
	phishingBreakpoint      = 0.5
)

// riskLevelInfo carries the presentation attributes for one level
type riskLevelInfo struct {
	level          models.RiskLevel
	color          string
	icon           string
	recommendation string
}

var riskLevels = []riskLevelInfo{
	{models.RiskLevelSafe, "#22c55e", "✅", "SAFE: No significant phishing indicators detected."},
	{models.RiskLevelLow, "#84cc16", "🟢", "LOW RISK: Minor indicators detected. Exercise normal caution."},
	{models.RiskLevelMedium, "#eab308", "🟡", "CAUTION: Some suspicious indicators found. Verify the source before proceeding."},
	{models.RiskLevelHigh, "#f97316", "🟠", "HIGH RISK: Avoid clicking links or providing information. Verify sender through official channels."},
	{models.RiskLevelCritical, "#ef4444", "🔴", "CRITICAL: Do NOT interact. Report as phishing immediately."},
}

// RiskScorer combines engine results into a final weighted verdict
type RiskScorer struct {
	config config.ScoringConfig
	logger *logger.Logger
}

// NewRiskScorer creates a new risk scorer
func NewRiskScorer(cfg config.ScoringConfig, log *logger.Logger) *RiskScorer {
	if cfg.MaxReasons <= 0 {
		cfg = config.DefaultScoring()
	}
	return &RiskScorer{
		config: cfg,
		logger: log.WithComponent("risk-scorer"),
	}
}

// Combine fuses any subset of engine results into one verdict. An empty
// list is a caller contract violation but still yields a defined
// zero-risk verdict rather than an error.
func (s *RiskScorer) Combine(results []models.EngineResult) *models.RiskVerdict {
	verdict := &models.RiskVerdict{
		EngineScores: make(map[string]models.EngineScore, len(results)),
		Reasons:      []string{},
		Confidence:   models.ConfidenceLow,
	}

	if len(results) == 0 {
		s.finalize(verdict, 0, nil)
		return verdict
	}

	var weightedSum, totalWeight float64
	var allReasons []string

	for _, result := range results {
		weight := s.engineWeight(result.Engine)
		score := clamp(result.Score, 0, 1)
		weightedSum += score * weight
		totalWeight += weight
		allReasons = append(allReasons, result.Reasons...)
		verdict.EngineScores[result.Engine] = models.EngineScore{Score: score, Weight: weight}
		verdict.Confidence = verdict.Confidence.Max(result.Confidence)
	}

	// Guard against a zero denominator; weights can in principle all be zero
	finalScore := weightedSum / math.Max(totalWeight, 0.01)

	// Independent corroboration across engines outweighs any single score
	highScores := 0
	for _, result := range results {
		if result.Score > s.config.ConsensusMinScore {
			highScores++
		}
	}
	if highScores >= s.config.ConsensusMinCount {
		finalScore = math.Min(finalScore*s.config.ConsensusBoost, 1.0)
		allReasons = append(allReasons, "Multiple engines agree on high risk")
	}

	s.finalize(verdict, clamp(finalScore, 0, 1), allReasons)
	return verdict
}

func (s *RiskScorer) engineWeight(engine string) float64 {
	switch engine {
	case models.EngineURLAnalyzer:
		return s.config.Weights.URLAnalyzer
	case models.EngineTextEngine:
		return s.config.Weights.TextEngine
	case models.EngineDomainChecker:
		return s.config.Weights.DomainChecker
	default:
		return s.config.DefaultWeight
	}
}

func (s *RiskScorer) finalize(verdict *models.RiskVerdict, score float64, allReasons []string) {
	info := levelFor(score)
	verdict.Score = score
	verdict.Level = info.level
	verdict.Color = info.color
	verdict.Icon = info.icon
	verdict.IsPhishing = score > phishingBreakpoint
	verdict.Recommendation = info.recommendation
	verdict.Reasons = dedupeReasons(allReasons, s.config.MaxReasons)
	verdict.Explanation = s.explain(score, info, verdict)
}

func levelFor(score float64) riskLevelInfo {
	switch {
	case score < levelLowBreakpoint:
		return riskLevels[0]
	case score < levelMediumBreakpoint:
		return riskLevels[1]
	case score < levelHighBreakpoint:
		return riskLevels[2]
	case score < levelCriticalBreakpoint:
		return riskLevels[3]
	default:
		return riskLevels[4]
	}
}

// dedupeReasons keeps the first occurrence of each reason, capped
func dedupeReasons(reasons []string, limit int) []string {
	seen := make(map[string]bool, len(reasons))
	unique := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if seen[r] {
			continue
		}
		seen[r] = true
		unique = append(unique, r)
		if len(unique) >= limit {
			break
		}
	}
	return unique
}

// explain builds the human-readable breakdown shown beside the verdict
func (s *RiskScorer) explain(score float64, info riskLevelInfo, verdict *models.RiskVerdict) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Risk assessment: %s (%.0f%%).\n", info.level, score*100)
	if score > levelHighBreakpoint {
		b.WriteString("This content exhibits strong phishing indicators:\n")
	}
	for i, reason := range verdict.Reasons {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "  %d. %s\n", i+1, reason)
	}
	if len(verdict.EngineScores) > 0 {
		b.WriteString("Engine breakdown:\n")
		engines := make([]string, 0, len(verdict.EngineScores))
		for engine := range verdict.EngineScores {
			engines = append(engines, engine)
		}
		sort.Strings(engines)
		for _, engine := range engines {
			fmt.Fprintf(&b, "  - %s: %.0f%%\n", engine, verdict.EngineScores[engine].Score*100)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// clamp bounds a value to [min, max]; no score or similarity leaves an
// engine outside [0,1]
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
