package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/unicode/norm"

	"phishguard/internal/domain/models"
	"phishguard/pkg/logger"
)

// Similarity breakpoints against the legitimate-domain list
const (
	verySimilarThreshold = 0.85
	similarThreshold     = 0.70
	matchCollectMin      = 0.70
	maxDomainMatches     = 5
)

// DomainChecker detects domain spoofing via homoglyph normalization,
// edit-distance similarity, and typosquatting patterns. Stateless.
type DomainChecker struct {
	legitimate []string
	logger     *logger.Logger
}

// NewDomainChecker creates a checker against the built-in legitimate list
func NewDomainChecker(log *logger.Logger) *DomainChecker {
	return &DomainChecker{
		legitimate: legitimateDomains,
		logger:     log.WithComponent("domain-checker"),
	}
}

// NewDomainCheckerWithList creates a checker with a custom legitimate list
func NewDomainCheckerWithList(domains []string, log *logger.Logger) *DomainChecker {
	return &DomainChecker{
		legitimate: domains,
		logger:     log.WithComponent("domain-checker"),
	}
}

// Analyze checks a hostname (or URL-shaped string, which is normalized)
// for similarity to known legitimate domains
func (c *DomainChecker) Analyze(domain string) *models.DomainVerdict {
	domain = cleanDomain(domain)

	verdict := &models.DomainVerdict{
		EngineResult: models.EngineResult{
			Engine:     models.EngineDomainChecker,
			Reasons:    []string{},
			Confidence: models.ConfidenceLow,
		},
		Domain:  domain,
		Matches: []models.DomainMatch{},
	}

	// Exact allow-list hit short-circuits to safe
	for _, legit := range c.legitimate {
		if domain == legit {
			verdict.Legitimate = true
			verdict.Reasons = append(verdict.Reasons, "Domain is in legitimate whitelist")
			return verdict
		}
	}

	var score float64

	// Any look-alike character substitution is near-certain spoofing
	normalized, subs := detectHomoglyphs(domain)
	verdict.NormalizedDomain = normalized
	if len(subs) > 0 {
		verdict.HomoglyphDetected = true
		verdict.Substitutions = subs
		score = math.Max(score, 0.9)
		verdict.Reasons = append(verdict.Reasons,
			fmt.Sprintf("Homoglyph characters detected: %s", describeSubstitutions(subs)))
	}

	// Edit-distance similarity for both the raw and normalized spellings
	candidates := []string{domain}
	if verdict.HomoglyphDetected {
		candidates = append(candidates, normalized)
	}
	matches := c.findSimilar(candidates)
	if len(matches) > maxDomainMatches {
		matches = matches[:maxDomainMatches]
	}
	verdict.Matches = matches
	if len(matches) > 0 {
		best := matches[0]
		if best.Similarity >= verySimilarThreshold {
			score = math.Max(score, 0.85)
			verdict.Reasons = append(verdict.Reasons,
				fmt.Sprintf("Very similar to legitimate domain '%s' (similarity: %.0f%%)", best.Domain, best.Similarity*100))
		} else if best.Similarity >= similarThreshold {
			score = math.Max(score, 0.6)
			verdict.Reasons = append(verdict.Reasons,
				fmt.Sprintf("Moderately similar to '%s' (similarity: %.0f%%)", best.Domain, best.Similarity*100))
		}
	}

	if target := c.detectTyposquatting(domain); target != "" {
		verdict.TyposquatDetected = true
		verdict.TyposquatTarget = target
		score = math.Max(score, 0.8)
		verdict.Reasons = append(verdict.Reasons,
			fmt.Sprintf("Typosquatting pattern detected: resembles '%s'", target))
	}

	if brand := c.brandInSubdomain(domain); brand != "" {
		verdict.BrandInSubdomain = brand
		score = math.Max(score, 0.7)
		verdict.Reasons = append(verdict.Reasons,
			fmt.Sprintf("Brand name '%s' found in subdomain", brand))
	}

	if depth := max(strings.Count(domain, ".")-2, 0); depth > 2 {
		score = math.Max(score, 0.4)
		verdict.Reasons = append(verdict.Reasons,
			fmt.Sprintf("Excessive subdomain depth (%d levels)", depth))
	}

	verdict.Score = clamp(score, 0, 1)
	verdict.Suspicious = verdict.Score > 0.5

	switch {
	case verdict.HomoglyphDetected || (len(matches) > 0 && matches[0].Similarity >= verySimilarThreshold):
		verdict.Confidence = models.ConfidenceHigh
	case verdict.Score > 0.5:
		verdict.Confidence = models.ConfidenceMedium
	default:
		verdict.Confidence = models.ConfidenceLow
	}

	return verdict
}

// cleanDomain strips scheme, path, port, and a leading www., then applies
// NFC so composed and decomposed unicode spellings compare equal
func cleanDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	domain = norm.NFC.String(domain)
	if idx := strings.Index(domain, "://"); idx >= 0 {
		domain = domain[idx+3:]
	}
	domain = strings.SplitN(domain, "/", 2)[0]
	domain = strings.SplitN(domain, ":", 2)[0]
	return strings.TrimPrefix(domain, "www.")
}

// detectHomoglyphs rewrites look-alike characters to their Latin originals
// and records every substitution made
func detectHomoglyphs(domain string) (string, []models.HomoglyphSubstitution) {
	var subs []models.HomoglyphSubstitution
	var normalized strings.Builder
	pos := 0
	for _, r := range domain {
		if original, ok := reverseHomoglyphs[r]; ok {
			subs = append(subs, models.HomoglyphSubstitution{
				Original:  string(r),
				LooksLike: string(original),
				Position:  pos,
			})
			normalized.WriteRune(original)
		} else {
			normalized.WriteRune(r)
		}
		pos++
	}
	return normalized.String(), subs
}

func describeSubstitutions(subs []models.HomoglyphSubstitution) string {
	parts := make([]string, 0, len(subs))
	for _, s := range subs {
		parts = append(parts, fmt.Sprintf("'%s' looks like '%s'", s.Original, s.LooksLike))
	}
	return strings.Join(parts, "; ")
}

// findSimilar computes exact Levenshtein similarity of every candidate
// spelling against the legitimate list, keeping matches above the floor
func (c *DomainChecker) findSimilar(candidates []string) []models.DomainMatch {
	var matches []models.DomainMatch
	seen := make(map[string]bool)

	for _, legit := range c.legitimate {
		for _, candidate := range candidates {
			distance := fuzzy.LevenshteinDistance(candidate, legit)
			similarity := levenshteinSimilarity(candidate, legit, distance)
			if similarity > matchCollectMin && !seen[legit] {
				seen[legit] = true
				matches = append(matches, models.DomainMatch{
					Domain:       legit,
					Similarity:   similarity,
					EditDistance: distance,
				})
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}

// levenshteinSimilarity converts an edit distance into a [0,1] ratio
func levenshteinSimilarity(a, b string, distance int) float64 {
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	return clamp(1.0-float64(distance)/float64(maxLen), 0, 1)
}

// detectTyposquatting checks transposition, omission, doubled characters,
// and visual sequence swaps against every legitimate base name
func (c *DomainChecker) detectTyposquatting(domain string) string {
	base := strings.SplitN(domain, ".", 2)[0]
	baseRunes := []rune(base)

	for _, legit := range c.legitimate {
		legitBase := strings.SplitN(legit, ".", 2)[0]
		legitRunes := []rune(legitBase)

		// Adjacent transposition
		for i := 0; i < len(baseRunes)-1; i++ {
			swapped := make([]rune, len(baseRunes))
			copy(swapped, baseRunes)
			swapped[i], swapped[i+1] = swapped[i+1], swapped[i]
			if string(swapped) == legitBase {
				return legit
			}
		}

		// Omitted character
		for i := 0; i < len(legitRunes); i++ {
			omitted := make([]rune, 0, len(legitRunes)-1)
			omitted = append(omitted, legitRunes[:i]...)
			omitted = append(omitted, legitRunes[i+1:]...)
			if string(omitted) == base {
				return legit
			}
		}

		// Doubled character
		for i := 0; i < len(baseRunes)-1; i++ {
			if baseRunes[i] == baseRunes[i+1] {
				deduped := make([]rune, 0, len(baseRunes)-1)
				deduped = append(deduped, baseRunes[:i]...)
				deduped = append(deduped, baseRunes[i+1:]...)
				if string(deduped) == legitBase {
					return legit
				}
			}
		}

		// Visual sequence swaps (rn looks like m, etc.)
		for _, tp := range typoPatterns {
			if strings.Contains(base, tp.pattern) {
				if strings.ReplaceAll(base, tp.pattern, tp.replacement) == legitBase {
					return legit
				}
			}
		}
	}

	return ""
}

// brandInSubdomain reports a legitimate brand used as a subdomain of an
// unrelated registrable domain
func (c *DomainChecker) brandInSubdomain(domain string) string {
	parts := strings.Split(domain, ".")
	if len(parts) <= 2 {
		return ""
	}
	subdomains := strings.Join(parts[:len(parts)-2], ".")
	mainPart := parts[len(parts)-2]

	for _, legit := range c.legitimate {
		brand := strings.SplitN(legit, ".", 2)[0]
		if strings.Contains(subdomains, brand) && !strings.Contains(mainPart, brand) {
			return brand
		}
	}
	return ""
}
