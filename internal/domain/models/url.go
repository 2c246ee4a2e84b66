package models

// URLFeatures is the immutable feature record extracted from a single URL.
// Produced once per analysis; never mutated after creation.
type URLFeatures struct {
	// Length-based
	URLLength    int `json:"url_length"`
	DomainLength int `json:"domain_length"`
	PathLength   int `json:"path_length"`
	QueryLength  int `json:"query_length"`

	// Character-based
	DotCount         int     `json:"dot_count"`
	HyphenCount      int     `json:"hyphen_count"`
	UnderscoreCount  int     `json:"underscore_count"`
	SlashCount       int     `json:"slash_count"`
	DigitCount       int     `json:"digit_count"`
	SpecialCharCount int     `json:"special_char_count"`
	DigitRatio       float64 `json:"digit_ratio"`
	LetterRatio      float64 `json:"letter_ratio"`

	// @ redirection trick: browsers resolve the host from the text after
	// the last @, everything before it is a decoy
	HasAtSign       bool   `json:"at_sign"`
	AtRedirectTrick bool   `json:"at_redirect_trick"`
	AtSpoofDomain   string `json:"at_spoof_domain,omitempty"`
	AtRealDomain    string `json:"at_real_domain,omitempty"`

	DoubleSlashRedirect bool `json:"double_slash_redirect"`

	// Domain-based
	HasIPAddress     bool `json:"has_ip_address"`
	SubdomainCount   int  `json:"subdomain_count"`
	HasSuspiciousTLD bool `json:"has_suspicious_tld"`
	HasHighRiskTLD   bool `json:"has_high_risk_tld"`
	IsShortened      bool `json:"is_shortened"`
	DomainHasDigits  bool `json:"domain_has_digits"`
	HasPort          bool `json:"has_port"`
	LikelyNewDomain  bool `json:"likely_new_domain"`

	// Entropy
	URLEntropy    float64 `json:"url_entropy"`
	DomainEntropy float64 `json:"domain_entropy"`
	PathEntropy   float64 `json:"path_entropy"`

	// Tokens
	SuspiciousTokenCount int      `json:"suspicious_token_count"`
	SuspiciousTokens     []string `json:"suspicious_tokens_found,omitempty"`

	// Protocol / path
	UsesHTTPS              bool `json:"uses_https"`
	HasWWW                 bool `json:"has_www"`
	PathDepth              int  `json:"path_depth"`
	HasFileExtension       bool `json:"has_file_extension"`
	HasSuspiciousExtension bool `json:"has_suspicious_extension"`

	// Query
	QueryParamCount  int      `json:"query_param_count"`
	HasEncodedChars  bool     `json:"has_encoded_chars"`
	SuspiciousParams []string `json:"suspicious_params_found,omitempty"`

	// IDN / punycode homograph
	HasPunycode bool   `json:"has_punycode"`
	IDNDecoded  string `json:"idn_decoded,omitempty"`

	// Brand impersonation
	BrandImpersonation   string  `json:"brand_impersonation,omitempty"`
	BrandSimilarity      float64 `json:"brand_similarity"`
	HomoglyphBrandAttack bool    `json:"homoglyph_brand_attack"`
	SubdomainBrandSpoof  string  `json:"subdomain_brand_spoof,omitempty"`

	// Blacklist-shape patterns
	BlacklistPatternMatch bool `json:"blacklist_pattern_match"`

	// Statistical
	MaxConsecutiveConsonants int     `json:"consecutive_consonants_max"`
	VowelRatio               float64 `json:"vowel_ratio"`

	// Parse state
	ParseFailed bool `json:"parse_failed,omitempty"`
}

// URLAnalysis is the URL analyzer output: the uniform engine result plus
// the full feature record for callers that want the raw signals
type URLAnalysis struct {
	EngineResult
	Features URLFeatures `json:"features"`
}
