package models

// ContentType tags the channel a text came from; regional and tech-support
// categories only apply to sms/voice
type ContentType string

const (
	ContentTypeEmail ContentType = "email"
	ContentTypeSMS   ContentType = "sms"
	ContentTypeVoice ContentType = "voice"
)

// TextCategory identifies one of the pattern-matcher categories
type TextCategory string

const (
	CategoryUrgency     TextCategory = "urgency"
	CategoryCredential  TextCategory = "credential_request"
	CategorySocial      TextCategory = "social_engineering"
	CategoryFinancial   TextCategory = "financial_scam"
	CategoryRegional    TextCategory = "regional_scam"
	CategoryTechSupport TextCategory = "tech_support"
)

// CategoryMatch holds the excerpts one category matcher collected
type CategoryMatch struct {
	Score    float64  `json:"score"`
	Excerpts []string `json:"excerpts,omitempty"`
}

// TextSignal is the text pattern engine output
type TextSignal struct {
	EngineResult
	ContentType ContentType                    `json:"content_type"`
	Categories  map[TextCategory]CategoryMatch `json:"categories"`

	// Linguistic counters
	ExclamationCount int     `json:"exclamation_count"`
	UppercaseRatio   float64 `json:"uppercase_ratio"`
	EmbeddedURLCount int     `json:"url_count"`

	SenderMismatch bool   `json:"sender_mismatch"`
	MismatchBrand  string `json:"mismatch_brand,omitempty"`
}
