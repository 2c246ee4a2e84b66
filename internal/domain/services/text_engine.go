package services

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"phishguard/internal/domain/models"
	"phishguard/pkg/logger"
)

// Linguistic signal contributions, each much smaller than a category hit
const (
	exclamationContribution  = 0.05
	uppercaseContribution    = 0.08
	embeddedURLContribution  = 0.08
	subjectKeywordAddition   = 0.10
	allCapsSubjectAddition   = 0.08
	senderMismatchAddition   = 0.25
	legitReductionPerHit     = 0.05
	legitReductionMax        = 0.15
	tripleThreatBoost        = 1.3
	allCoreCategoriesBoost   = 1.5
	threeCoreCategoriesBoost = 1.4
)

// TextInput carries one message to analyze. Subject and sender are
// optional; ContentType gates the regional and tech-support categories.
type TextInput struct {
	Body        string
	Subject     string
	Sender      string
	ContentType models.ContentType
}

// TextEngine runs the category pattern matchers and linguistic signal
// extraction over email, SMS, and voice-transcript text. Stateless.
type TextEngine struct {
	logger *logger.Logger
}

// NewTextEngine creates a new text pattern engine
func NewTextEngine(log *logger.Logger) *TextEngine {
	return &TextEngine{
		logger: log.WithComponent("text-engine"),
	}
}

// Analyze scores a message. Empty subject+body yields score 0 with no
// reasons; the engine never reports false positives on empty input.
func (e *TextEngine) Analyze(input TextInput) *models.TextSignal {
	contentType := input.ContentType
	if contentType == "" {
		contentType = models.ContentTypeEmail
	}

	signal := &models.TextSignal{
		EngineResult: models.EngineResult{
			Engine:     models.EngineTextEngine,
			Reasons:    []string{},
			Confidence: models.ConfidenceLow,
		},
		ContentType: contentType,
		Categories:  make(map[models.TextCategory]models.CategoryMatch),
	}

	fullText := strings.TrimSpace(input.Subject + " " + input.Body)
	if fullText == "" {
		return signal
	}

	var score float64
	categoriesFired := 0
	coreFired := 0
	coreMatched := make(map[models.TextCategory]bool)

	matchers := coreCategories
	if contentType == models.ContentTypeSMS || contentType == models.ContentTypeVoice {
		matchers = append(append([]categoryPatterns{}, coreCategories...), gatedCategories...)
	}

	for _, matcher := range matchers {
		match := runCategory(fullText, matcher)
		signal.Categories[matcher.category] = match
		if len(match.Excerpts) == 0 {
			continue
		}
		categoriesFired++
		if isCoreCategory(matcher.category) {
			coreFired++
			coreMatched[matcher.category] = true
		}
		score += match.Score
		for i, excerpt := range match.Excerpts {
			if i >= 2 {
				break
			}
			signal.Reasons = append(signal.Reasons, fmt.Sprintf("%s: '%s' detected", matcher.label, excerpt))
		}
	}

	// Linguistic signals
	signal.ExclamationCount = strings.Count(fullText, "!")
	signal.UppercaseRatio = uppercaseRatio(fullText)
	signal.EmbeddedURLCount = len(embeddedURLPattern.FindAllString(fullText, -1))

	if signal.ExclamationCount > 3 {
		score += exclamationContribution
		signal.Reasons = append(signal.Reasons, fmt.Sprintf("Excessive exclamation marks (%d)", signal.ExclamationCount))
	}
	if signal.UppercaseRatio > 0.3 {
		score += uppercaseContribution
		signal.Reasons = append(signal.Reasons, "Excessive use of uppercase letters")
	}
	if signal.EmbeddedURLCount > 2 {
		score += embeddedURLContribution
		signal.Reasons = append(signal.Reasons, fmt.Sprintf("Multiple embedded URLs (%d)", signal.EmbeddedURLCount))
	}
	if input.Subject != "" {
		if subjectUrgencyPattern.MatchString(input.Subject) {
			score += subjectKeywordAddition
			signal.Reasons = append(signal.Reasons, "Subject contains urgency/action keywords")
		}
		if isAllUpper(input.Subject) {
			score += allCapsSubjectAddition
			signal.Reasons = append(signal.Reasons, "Subject line is ALL CAPS")
		}
	}

	// Brand mentioned in the body while the sender's domain is unrelated
	if brand := detectSenderMismatch(input.Sender, fullText); brand != "" {
		signal.SenderMismatch = true
		signal.MismatchBrand = brand
		score += senderMismatchAddition
		signal.Reasons = append(signal.Reasons,
			fmt.Sprintf("Sender-domain mismatch: message mentions '%s' but was sent from an unrelated domain", brand))
	}

	// Newsletter boilerplate pulls the score down, bounded
	legitHits := 0
	for _, pattern := range legitimateIndicators {
		if pattern.MatchString(fullText) {
			legitHits++
		}
	}
	if legitHits > 0 {
		score = math.Max(score-math.Min(float64(legitHits)*legitReductionPerHit, legitReductionMax), 0)
	}

	// Co-occurring independent evidence is disproportionately suspicious;
	// boosts apply after base accumulation, in this order, then clamp
	hasLink := signal.EmbeddedURLCount > 0
	if coreMatched[models.CategoryUrgency] && hasLink && coreMatched[models.CategoryFinancial] {
		score = math.Min(score*tripleThreatBoost, 1.0)
		signal.Reasons = append(signal.Reasons, "Triple threat: urgency + embedded link + financial request detected")
	}
	if coreFired >= 4 {
		score = math.Min(score*allCoreCategoriesBoost, 1.0)
		signal.Reasons = append(signal.Reasons, "Multiple phishing categories simultaneously triggered")
	} else if coreFired == 3 {
		score = math.Min(score*threeCoreCategoriesBoost, 1.0)
		signal.Reasons = append(signal.Reasons, "Multiple phishing indicator categories detected")
	}

	signal.Score = clamp(score, 0, 1)
	signal.Suspicious = signal.Score > 0.5

	switch {
	case signal.Score > 0.75 && categoriesFired >= 3:
		signal.Confidence = models.ConfidenceHigh
	case signal.Score > 0.4:
		signal.Confidence = models.ConfidenceMedium
	default:
		signal.Confidence = models.ConfidenceLow
	}

	return signal
}

// runCategory collects every pattern hit in one category; the contribution
// grows with match count but is capped per category
func runCategory(text string, matcher categoryPatterns) models.CategoryMatch {
	var excerpts []string
	matched := 0
	for _, pattern := range matcher.patterns {
		if m := pattern.FindString(text); m != "" {
			matched++
			excerpts = append(excerpts, strings.TrimSpace(m))
		}
	}
	if matched == 0 {
		return models.CategoryMatch{}
	}
	return models.CategoryMatch{
		Score:    math.Min(float64(matched)*perMatchContribution, matcher.maxScore),
		Excerpts: excerpts,
	}
}

func isCoreCategory(category models.TextCategory) bool {
	switch category {
	case models.CategoryUrgency, models.CategoryCredential, models.CategorySocial, models.CategoryFinancial:
		return true
	}
	return false
}

// detectSenderMismatch returns the first brand mentioned in the text whose
// name is absent from the sender domain, unless the sender is a known
// bulk-mail provider sending on the brand's behalf
func detectSenderMismatch(sender, fullText string) string {
	if sender == "" || !strings.Contains(sender, "@") {
		return ""
	}
	m := senderDomainPattern.FindStringSubmatch(sender)
	if m == nil {
		return ""
	}
	senderDomain := strings.ToLower(m[1])

	for _, esp := range knownESPs {
		if strings.Contains(senderDomain, esp) {
			return ""
		}
	}

	textLower := strings.ToLower(fullText)
	for _, brand := range impersonatedBrands {
		if strings.Contains(textLower, brand) && !strings.Contains(senderDomain, brand) {
			return brand
		}
	}
	return ""
}

func uppercaseRatio(text string) float64 {
	if len(text) == 0 {
		return 0
	}
	upper := 0
	total := 0
	for _, r := range text {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(total)
}

func isAllUpper(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
