package services

import "regexp"

// Keywords commonly found in phishing URLs
var suspiciousTokens = []string{
	"login", "signin", "sign-in", "verify", "verification", "update", "secure",
	"account", "banking", "confirm", "password", "credential", "authenticate",
	"wallet", "payment", "paypal", "apple", "microsoft", "google", "amazon",
	"netflix", "facebook", "instagram", "twitter", "linkedin", "dropbox",
	"icloud", "outlook", "office365", "wellsfargo", "chase", "bankofamerica",
	"citibank", "usbank", "submit", "validate", "restore", "unlock", "suspend",
	"unusual", "activity", "limited", "expire", "urgent", "immediately",
	"click", "here", "free", "gift", "prize", "winner", "congratulations",
	"security", "alert", "warning", "notice", "action", "required",
	"invoice", "billing", "refund", "overdue", "unpaid", "kyc", "aadhaar",
	"pan", "parcel", "delivery", "shipment", "claim", "reward", "otp",
}

// TLDs disproportionately used for phishing
var suspiciousTLDs = []string{
	".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top", ".club", ".online",
	".site", ".website", ".space", ".pw", ".cc", ".buzz", ".icu", ".rest",
	".fit", ".cam", ".surf", ".monster", ".quest", ".cyou", ".cfd", ".lol",
}

// Free-tier TLDs, the most heavily abused subset; weighted higher
var highRiskTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq"}

// Known URL shortener domains
var urlShorteners = []string{
	"bit.ly", "tinyurl.com", "goo.gl", "t.co", "ow.ly", "is.gd", "buff.ly",
	"rebrand.ly", "tiny.cc", "shorturl.at", "cutt.ly", "rb.gy", "v.gd",
	"qr.ae", "short.io", "bl.ink", "snip.ly",
}

// Brand names in fixed order so detection results are deterministic
var brandNames = []string{
	"paypal", "google", "apple", "microsoft", "amazon", "netflix",
	"facebook", "instagram", "twitter", "linkedin", "chase", "wellsfargo",
	"bankofamerica", "citibank", "usbank", "dropbox", "icloud", "coinbase",
	"binance", "dhl", "fedex", "ups", "usps", "irs",
}

// Brand names and their canonical domains, for impersonation detection
var brandDomains = map[string]string{
	"paypal":        "paypal.com",
	"google":        "google.com",
	"apple":         "apple.com",
	"microsoft":     "microsoft.com",
	"amazon":        "amazon.com",
	"netflix":       "netflix.com",
	"facebook":      "facebook.com",
	"instagram":     "instagram.com",
	"twitter":       "twitter.com",
	"linkedin":      "linkedin.com",
	"chase":         "chase.com",
	"wellsfargo":    "wellsfargo.com",
	"bankofamerica": "bankofamerica.com",
	"citibank":      "citibank.com",
	"usbank":        "usbank.com",
	"dropbox":       "dropbox.com",
	"icloud":        "icloud.com",
	"coinbase":      "coinbase.com",
	"binance":       "binance.com",
	"dhl":           "dhl.com",
	"fedex":         "fedex.com",
	"ups":           "ups.com",
	"usps":          "usps.com",
	"irs":           "irs.gov",
}

// Digit/letter substitutions used in brand homoglyph attacks.
// Multi-character entries handle sequences that read as a single letter.
var brandHomoglyphs = []struct {
	from string
	to   string
}{
	{"rn", "m"}, {"cl", "d"}, {"vv", "w"}, {"nn", "m"},
	{"0", "o"}, {"1", "l"}, {"3", "e"}, {"4", "a"},
	{"5", "s"}, {"6", "b"}, {"7", "t"}, {"8", "b"},
}

// Hand-authored signatures of well-known phishing URL shapes
var blacklistPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`),
	regexp.MustCompile(`(?i)https?://[^/]*(paypal|apple|microsoft|amazon|google|chase|irs)[^/]*\.(tk|ml|ga|cf|gq|xyz|top|pw)`),
	regexp.MustCompile(`(?i)secure.{0,15}login|login.{0,15}secure`),
	regexp.MustCompile(`(?i)(verify|update|confirm).{0,20}(account|identity|info)`),
	regexp.MustCompile(`(?i)https?://[^/]+/[^/]*(phish|hack|steal|malware)`),
	regexp.MustCompile(`(?i)https?://[^/]*(-secure|-login|-verify|-update)\.`),
}

// Query parameter names used in phishing redirect chains; values irrelevant
var suspiciousParams = map[string]bool{
	"session": true, "token": true, "auth": true, "redirect": true,
	"redir": true, "return": true, "returnurl": true, "next": true,
	"callback": true, "ref": true, "go": true, "goto": true,
	"dest": true, "destination": true, "forward": true, "target": true,
	"continue": true,
}

// Executable, archive and script extensions that should not appear on
// a landing page path
var suspiciousExtension = regexp.MustCompile(`(?i)\.(exe|zip|rar|js|vbs|scr|bat|cmd|ps1|dmg|apk)$`)

// IPv4 literal, bracketed IPv6 literal, or hex-encoded address as host
var ipHostPattern = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$|^\[[0-9a-fA-F:]+\]$|^0x[0-9a-fA-F]+$`)

var fileExtensionPattern = regexp.MustCompile(`\.\w{2,4}$`)

// Brands checked when deciding whether the decoy side of an @ trick
// looks domain-like
var atTrickBrands = []string{
	"google", "paypal", "apple", "microsoft", "amazon", "facebook",
	"instagram", "netflix", "linkedin", "chase", "wellsfargo",
	"bankofamerica", "coinbase",
}
