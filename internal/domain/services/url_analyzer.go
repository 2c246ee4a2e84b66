package services

import (
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/idna"

	"phishguard/internal/domain/models"
	"phishguard/pkg/logger"
)

// Scoring category for the URL analyzer. Every signal feeds exactly one
// category so a signal can never be counted twice.
type scoreCategory int

const (
	catLength scoreCategory = iota
	catStructure
	catTokens
	catEntropy
	catDomain
	catBlacklist
	catBrand
	numCategories
)

// Fixed category weights; each category accumulator is clamped to 1
// before the weight is applied.
var categoryWeights = [numCategories]float64{
	catLength:    0.03,
	catStructure: 0.15,
	catTokens:    0.10,
	catEntropy:   0.05,
	catDomain:    0.22,
	catBlacklist: 0.25,
	catBrand:     0.20,
}

// Entropy thresholds above which a URL or host looks generated/obfuscated
const (
	urlEntropyThreshold  = 4.5
	hostEntropyThreshold = 3.8
)

// URLAnalyzer extracts lexical features from URLs and scores them.
// It is stateless; a single instance is safe for concurrent use.
type URLAnalyzer struct {
	logger *logger.Logger
}

// NewURLAnalyzer creates a new URL analyzer
func NewURLAnalyzer(log *logger.Logger) *URLAnalyzer {
	return &URLAnalyzer{
		logger: log.WithComponent("url-analyzer"),
	}
}

// Analyze extracts features from a URL and scores them. Malformed input
// never fails; it degrades to a mid score with a parse-failure reason.
func (a *URLAnalyzer) Analyze(rawURL string) *models.URLAnalysis {
	features := a.ExtractFeatures(rawURL)
	score, reasons, confidence := a.scoreFeatures(&features, rawURL)

	return &models.URLAnalysis{
		EngineResult: models.EngineResult{
			Engine:     models.EngineURLAnalyzer,
			Score:      score,
			Reasons:    reasons,
			Confidence: confidence,
			Suspicious: score > 0.5,
		},
		Features: features,
	}
}

// ExtractFeatures parses a URL into its lexical feature record
func (a *URLAnalyzer) ExtractFeatures(rawURL string) models.URLFeatures {
	var features models.URLFeatures

	withScheme := rawURL
	if !strings.Contains(rawURL, "://") {
		withScheme = "http://" + rawURL
	}

	var host, path, query, scheme string
	parsed, err := url.Parse(withScheme)
	if err != nil || parsed.Host == "" {
		// Naive fallback: first path segment becomes the host
		features.ParseFailed = true
		stripped := strings.TrimPrefix(strings.TrimPrefix(withScheme, "https://"), "http://")
		host = strings.SplitN(stripped, "/", 2)[0]
		if idx := strings.Index(stripped, "/"); idx >= 0 {
			path = stripped[idx:]
		}
	} else {
		scheme = parsed.Scheme
		host = parsed.Host
		path = parsed.Path
		query = parsed.RawQuery
	}

	// Length
	features.URLLength = len(rawURL)
	features.DomainLength = len(host)
	features.PathLength = len(path)
	features.QueryLength = len(query)

	// Characters
	features.DotCount = strings.Count(rawURL, ".")
	features.HyphenCount = strings.Count(host, "-")
	features.UnderscoreCount = strings.Count(rawURL, "_")
	features.SlashCount = strings.Count(rawURL, "/")
	for _, r := range rawURL {
		switch {
		case unicode.IsDigit(r):
			features.DigitCount++
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			features.SpecialCharCount++
		}
	}
	if len(rawURL) > 0 {
		letters := 0
		for _, r := range rawURL {
			if unicode.IsLetter(r) {
				letters++
			}
		}
		features.DigitRatio = float64(features.DigitCount) / float64(len(rawURL))
		features.LetterRatio = float64(letters) / float64(len(rawURL))
	}

	a.detectAtTrick(rawURL, &features)

	// A second "//" after the scheme delimiter signals an embedded redirect
	if idx := strings.Index(withScheme, "://"); idx >= 0 {
		features.DoubleSlashRedirect = strings.Contains(withScheme[idx+3:], "//")
	}

	// Host
	hostNoPort := host
	if h, p, splitErr := splitHostPort(host); splitErr == nil && p != "" {
		hostNoPort = h
		features.HasPort = true
	}
	hostLower := strings.ToLower(hostNoPort)

	features.HasIPAddress = isIPHost(hostLower)
	features.SubdomainCount = max(strings.Count(hostLower, ".")-2, 0)
	for _, tld := range highRiskTLDs {
		if strings.HasSuffix(hostLower, tld) {
			features.HasHighRiskTLD = true
			break
		}
	}
	if !features.HasHighRiskTLD {
		for _, tld := range suspiciousTLDs {
			if strings.HasSuffix(hostLower, tld) {
				features.HasSuspiciousTLD = true
				break
			}
		}
	}
	for _, shortener := range urlShorteners {
		if hostLower == shortener || strings.HasSuffix(hostLower, "."+shortener) {
			features.IsShortened = true
			break
		}
	}
	firstLabel := strings.SplitN(hostLower, ".", 2)[0]
	features.DomainHasDigits = strings.ContainsAny(firstLabel, "0123456789")
	features.HasWWW = strings.HasPrefix(hostLower, "www.")
	features.LikelyNewDomain = likelyNewDomain(hostLower)

	// Entropy
	features.URLEntropy = shannonEntropy(rawURL)
	features.DomainEntropy = shannonEntropy(hostLower)
	if path != "" {
		features.PathEntropy = shannonEntropy(path)
	}

	// Tokens
	urlLower := strings.ToLower(rawURL)
	for _, token := range suspiciousTokens {
		if strings.Contains(urlLower, token) {
			features.SuspiciousTokenCount++
			if len(features.SuspiciousTokens) < 5 {
				features.SuspiciousTokens = append(features.SuspiciousTokens, token)
			}
		}
	}

	// Protocol / path
	features.UsesHTTPS = scheme == "https"
	if path != "" {
		features.PathDepth = max(strings.Count(path, "/")-1, 0)
		features.HasFileExtension = fileExtensionPattern.MatchString(path)
		features.HasSuspiciousExtension = suspiciousExtension.MatchString(strings.ToLower(path))
	}

	// Query parameters: names only, values never inspected
	if query != "" {
		params, parseErr := url.ParseQuery(query)
		if parseErr == nil {
			features.QueryParamCount = len(params)
			for name := range params {
				if suspiciousParams[strings.ToLower(name)] {
					features.SuspiciousParams = append(features.SuspiciousParams, name)
				}
			}
		}
	}
	features.HasEncodedChars = strings.Contains(rawURL, "%")

	// Punycode / IDN homograph
	if strings.Contains(hostLower, "xn--") {
		features.HasPunycode = true
		if decoded, idnaErr := idna.ToUnicode(hostLower); idnaErr == nil {
			features.IDNDecoded = decoded
		} else {
			features.IDNDecoded = hostLower
		}
	}

	// Brand in subdomain while the root domain is something else entirely
	labels := strings.Split(strings.TrimPrefix(hostLower, "www."), ".")
	if len(labels) >= 3 {
		subdomains := strings.Join(labels[:len(labels)-2], ".")
		rootDomain := strings.Join(labels[len(labels)-2:], ".")
		for _, brand := range brandNames {
			if strings.Contains(subdomains, brand) && !strings.Contains(rootDomain, brand) {
				features.SubdomainBrandSpoof = brand
				break
			}
		}
	}

	// Statistical
	features.MaxConsecutiveConsonants = maxConsecutiveConsonants(hostLower)
	features.VowelRatio = vowelRatio(hostLower)

	// Brand impersonation via substring and homoglyph normalization
	brand, similarity, homoglyph := detectBrandImpersonation(hostLower, urlLower)
	features.BrandImpersonation = brand
	features.BrandSimilarity = similarity
	features.HomoglyphBrandAttack = homoglyph

	for _, pattern := range blacklistPatterns {
		if pattern.MatchString(rawURL) {
			features.BlacklistPatternMatch = true
			break
		}
	}

	return features
}

// detectAtTrick finds the @-redirection trick: everything before the last
// @ in the authority is ignored by browsers, the real host follows it.
func (a *URLAnalyzer) detectAtTrick(rawURL string, features *models.URLFeatures) {
	if !strings.Contains(rawURL, "@") {
		return
	}
	features.HasAtSign = true

	authority := rawURL
	if idx := strings.Index(authority, "://"); idx >= 0 {
		authority = authority[idx+3:]
	}
	authority = strings.SplitN(authority, "/", 2)[0]

	atIdx := strings.LastIndex(authority, "@")
	if atIdx < 0 {
		return
	}
	decoy := authority[:atIdx]
	real := authority[atIdx+1:]

	decoyLower := strings.ToLower(decoy)
	decoyLooksLikeDomain := strings.Contains(decoy, ".")
	if !decoyLooksLikeDomain {
		for _, brand := range atTrickBrands {
			if strings.Contains(decoyLower, brand) {
				decoyLooksLikeDomain = true
				break
			}
		}
	}

	if decoyLooksLikeDomain && real != "" && decoyLower != strings.ToLower(real) {
		features.AtRedirectTrick = true
		features.AtSpoofDomain = decoy
		features.AtRealDomain = real
	}
}

// scoreFeatures accumulates evidence into per-category buckets, applies the
// fixed category weights, then amplifies when several categories fire at once.
func (a *URLAnalyzer) scoreFeatures(f *models.URLFeatures, rawURL string) (float64, []string, models.Confidence) {
	var weights [numCategories]float64
	var reasons []string

	if f.ParseFailed {
		reasons = append(reasons, "URL could not be parsed; analyzed from raw string")
	}

	if f.BlacklistPatternMatch {
		weights[catBlacklist] += 0.9
		reasons = append(reasons, "Matches known phishing URL pattern")
	}

	if f.BrandImpersonation != "" {
		switch {
		case f.HomoglyphBrandAttack:
			weights[catBrand] += 0.85
			reasons = append(reasons, fmt.Sprintf("Homoglyph brand attack: domain mimics '%s' using lookalike characters", f.BrandImpersonation))
		case f.BrandSimilarity >= 0.8:
			weights[catBrand] += 0.75
			reasons = append(reasons, fmt.Sprintf("High-confidence brand impersonation: '%s' (%.0f%% similarity)", f.BrandImpersonation, f.BrandSimilarity*100))
		default:
			weights[catBrand] += 0.5
			reasons = append(reasons, fmt.Sprintf("Possible brand impersonation: '%s' detected in URL", f.BrandImpersonation))
		}
	}

	if f.URLLength > 75 {
		weights[catLength] += 0.25
		reasons = append(reasons, fmt.Sprintf("Unusually long URL (%d chars)", f.URLLength))
	}
	if f.URLLength > 150 {
		weights[catLength] += 0.25
		reasons = append(reasons, "Extremely long URL, common obfuscation tactic")
	}

	if f.HasIPAddress {
		weights[catDomain] += 0.85
		reasons = append(reasons, "URL uses raw IP address instead of domain name")
	}
	if f.SubdomainCount > 2 {
		weights[catDomain] += 0.4
		reasons = append(reasons, fmt.Sprintf("Excessive subdomains (%d), common in free-hosting phishing", f.SubdomainCount))
	}
	if f.HasHighRiskTLD {
		weights[catDomain] += 0.55
		reasons = append(reasons, "High-risk free TLD (.tk/.ml/.ga/.cf/.gq), heavily abused by phishers")
	} else if f.HasSuspiciousTLD {
		weights[catDomain] += 0.40
		reasons = append(reasons, "Suspicious top-level domain")
	}
	if f.IsShortened {
		weights[catDomain] += 0.40
		reasons = append(reasons, "URL shortener detected, hides true destination")
	}
	if f.DomainHasDigits {
		weights[catDomain] += 0.2
		reasons = append(reasons, "Domain contains digits (brand-mimicry pattern)")
	}
	if f.HasPort {
		weights[catDomain] += 0.35
		reasons = append(reasons, "Non-standard port in URL")
	}
	if f.LikelyNewDomain {
		weights[catDomain] += 0.25
		reasons = append(reasons, "Domain appears newly registered (structural heuristic)")
	}
	if f.HasPunycode {
		weights[catDomain] += 0.70
		reason := "Punycode/IDN domain detected (xn--), used for unicode look-alike domains"
		if f.IDNDecoded != "" {
			reason += fmt.Sprintf(": decodes to '%s'", f.IDNDecoded)
		}
		reasons = append(reasons, reason)
	}
	if f.MaxConsecutiveConsonants > 4 {
		weights[catDomain] += 0.2
		reasons = append(reasons, "Domain contains unusual consonant clusters")
	}

	if f.AtRedirectTrick {
		weights[catStructure] += 0.90
		reasons = append(reasons, fmt.Sprintf("URL redirection trick: displays '%s' before '@' but actually sends browser to '%s'", f.AtSpoofDomain, f.AtRealDomain))
	} else if f.HasAtSign {
		weights[catStructure] += 0.60
		reasons = append(reasons, "@ symbol in URL; browser redirects to the domain after it")
	}
	if f.DoubleSlashRedirect {
		weights[catStructure] += 0.4
		reasons = append(reasons, "// redirect detected in URL path")
	}
	if f.HyphenCount > 3 {
		weights[catStructure] += 0.3
		reasons = append(reasons, fmt.Sprintf("Excessive hyphens (%d) in host", f.HyphenCount))
	}
	if f.DotCount > 4 {
		weights[catStructure] += 0.3
		reasons = append(reasons, fmt.Sprintf("Excessive dots (%d)", f.DotCount))
	}
	if !f.UsesHTTPS {
		weights[catStructure] += 0.30
		reasons = append(reasons, "No HTTPS, unencrypted connection")
	}
	if len(f.SuspiciousParams) > 0 {
		weights[catStructure] += 0.30
		shown := f.SuspiciousParams
		if len(shown) > 4 {
			shown = shown[:4]
		}
		reasons = append(reasons, fmt.Sprintf("Suspicious URL parameters: %s", strings.Join(shown, ", ")))
	}
	if f.HasEncodedChars {
		weights[catStructure] += 0.15
		reasons = append(reasons, "Encoded characters (%xx) in URL")
	}
	if f.HasSuspiciousExtension {
		weights[catStructure] += 0.55
		reasons = append(reasons, "Suspicious file extension (.exe/.apk/.ps1 etc.)")
	}

	if f.SuspiciousTokenCount > 0 {
		weights[catTokens] += math.Min(float64(f.SuspiciousTokenCount)*0.15, 0.85)
		shown := f.SuspiciousTokens
		if len(shown) > 4 {
			shown = shown[:4]
		}
		reasons = append(reasons, fmt.Sprintf("Suspicious keywords in URL: %s", strings.Join(shown, ", ")))
	}

	if f.URLEntropy > urlEntropyThreshold {
		weights[catEntropy] += 0.3
		reasons = append(reasons, fmt.Sprintf("High URL entropy (%.2f), possible character obfuscation", f.URLEntropy))
	}
	if f.DomainEntropy > hostEntropyThreshold {
		weights[catEntropy] += 0.3
		reasons = append(reasons, fmt.Sprintf("High domain entropy (%.2f), random/generated domain", f.DomainEntropy))
	}

	if f.SubdomainBrandSpoof != "" {
		weights[catBrand] += 0.80
		reasons = append(reasons, fmt.Sprintf("Subdomain spoofing: '%s' used as subdomain while the actual domain is different", f.SubdomainBrandSpoof))
	}

	var score float64
	for cat := scoreCategory(0); cat < numCategories; cat++ {
		score += math.Min(weights[cat], 1.0) * categoryWeights[cat]
	}
	score = clamp(score, 0, 1)

	// Co-occurring independent categories are disproportionately suspicious
	flagged := 0
	for cat := scoreCategory(0); cat < numCategories; cat++ {
		if weights[cat] > 0.2 {
			flagged++
		}
	}
	if flagged >= 4 {
		score = math.Min(score*1.5, 1.0)
		reasons = append(reasons, "Multiple high-risk categories triggered simultaneously")
	} else if flagged >= 3 {
		score = math.Min(score*1.3, 1.0)
		reasons = append(reasons, "Multiple risk categories triggered")
	}

	// Unparseable input never scores below mid: the caller still gets a
	// usable advisory instead of a silent pass
	if f.ParseFailed && score < 0.5 {
		score = 0.5
	}

	var confidence models.Confidence
	switch {
	case score > 0.75 && flagged >= 3:
		confidence = models.ConfidenceHigh
	case score > 0.4 || flagged >= 2:
		confidence = models.ConfidenceMedium
	default:
		confidence = models.ConfidenceLow
	}

	return score, reasons, confidence
}

// detectBrandImpersonation checks for brand names hidden in the host via
// substring or digit/letter homoglyph substitution
func detectBrandImpersonation(host, urlLower string) (brand string, similarity float64, homoglyph bool) {
	hostClean := strings.TrimPrefix(host, "www.")
	normalized := normalizeBrandHomoglyphs(hostClean)

	var weak string
	for _, name := range brandNames {
		canonical := brandDomains[name]
		// Already the real domain
		if hostClean == canonical || strings.HasSuffix(hostClean, "."+canonical) {
			return "", 0, false
		}
		if strings.Contains(hostClean, name) && !strings.Contains(hostClean, canonical) {
			return name, 0.85, false
		}
		if strings.Contains(normalized, name) && !strings.Contains(hostClean, name) {
			return name, 0.95, true
		}
		if weak == "" && strings.Contains(urlLower, name) && !strings.Contains(hostClean, canonical) {
			weak = name
		}
	}
	if weak != "" {
		return weak, 0.65, false
	}
	return "", 0, false
}

// normalizeBrandHomoglyphs rewrites common digit/letter substitutions
// (multi-character sequences first so "rn" collapses before "n" would)
func normalizeBrandHomoglyphs(text string) string {
	result := text
	for _, sub := range brandHomoglyphs {
		result = strings.ReplaceAll(result, sub.from, sub.to)
	}
	return result
}

// likelyNewDomain flags structural signals of a freshly registered domain:
// digit-heavy names on free TLDs, or hyphenated names on abused TLDs
func likelyNewDomain(host string) bool {
	base := strings.SplitN(host, ".", 2)[0]
	digits := 0
	for _, r := range base {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	digitRatio := float64(digits) / math.Max(float64(len(base)), 1)

	highRisk := false
	for _, tld := range highRiskTLDs {
		if strings.HasSuffix(host, tld) {
			highRisk = true
			break
		}
	}
	if digitRatio > 0.3 && highRisk {
		return true
	}
	if strings.Contains(host, "-") {
		for _, tld := range suspiciousTLDs {
			if strings.HasSuffix(host, tld) {
				return true
			}
		}
	}
	return false
}

// isIPHost reports whether the host is an IP literal. IPv4 octets must be
// in range; "999.1.1.1" is not an address.
func isIPHost(host string) bool {
	if !ipHostPattern.MatchString(host) {
		return false
	}
	if strings.HasPrefix(host, "[") || strings.HasPrefix(host, "0x") {
		return true
	}
	for _, octet := range strings.Split(host, ".") {
		n, err := strconv.Atoi(octet)
		if err != nil || n > 255 {
			return false
		}
	}
	return true
}

// splitHostPort splits "host:port" without requiring a valid port number,
// leaving bracketed IPv6 literals intact
func splitHostPort(host string) (string, string, error) {
	if strings.HasPrefix(host, "[") {
		if idx := strings.LastIndex(host, "]:"); idx >= 0 {
			return host[:idx+1], host[idx+2:], nil
		}
		return host, "", nil
	}
	if idx := strings.LastIndex(host, ":"); idx >= 0 {
		return host[:idx], host[idx+1:], nil
	}
	return host, "", nil
}

// shannonEntropy computes character-frequency entropy in bits
func shannonEntropy(text string) float64 {
	if text == "" {
		return 0
	}
	freq := make(map[rune]int)
	length := 0
	for _, r := range text {
		freq[r]++
		length++
	}
	// Sum in sorted-rune order: map iteration order is random and
	// float addition is not associative, so unordered summation makes
	// the result vary in the last bit between calls.
	runes := make([]rune, 0, len(freq))
	for r := range freq {
		runes = append(runes, r)
	}
	slices.Sort(runes)
	var entropy float64
	for _, r := range runes {
		p := float64(freq[r]) / float64(length)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

func maxConsecutiveConsonants(text string) int {
	maxRun, run := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) && !strings.ContainsRune("aeiouAEIOU", r) {
			run++
			if run > maxRun {
				maxRun = run
			}
		} else {
			run = 0
		}
	}
	return maxRun
}

func vowelRatio(text string) float64 {
	vowels, letters := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if strings.ContainsRune("aeiou", unicode.ToLower(r)) {
				vowels++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(vowels) / float64(letters)
}
