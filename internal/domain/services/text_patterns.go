package services

import (
	"regexp"

	"phishguard/internal/domain/models"
)

// categoryPatterns holds one category's compiled matchers and its scoring cap
type categoryPatterns struct {
	category models.TextCategory
	label    string
	maxScore float64
	patterns []*regexp.Regexp
}

// Per-match contribution; every category is capped independently so one
// chatty category cannot dominate the score
const perMatchContribution = 0.10

func compileAll(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+expr))
	}
	return compiled
}

// Core categories, evaluated for every content type
var coreCategories = []categoryPatterns{
	{
		category: models.CategoryUrgency,
		label:    "Urgency",
		maxScore: 0.30,
		patterns: compileAll(
			`\burgent\b`, `\bimmediately\b`, `\basap\b`, `\bright\s+now\b`,
			`\bact\s+now\b`, `\bdon'?t\s+delay\b`, `\bexpir(e|es|ed|ing)\b`,
			`\blast\s+chance\b`, `\blimited\s+time\b`, `\btime\s+sensitive\b`,
			`\bhurry\b`, `\bfinal\s+(warning|notice)\b`, `\bwithin\s+\d+\s+(hour|day|minute)s?\b`,
			`\bsuspend(ed)?\b`, `\bterminat(e|ed|ion)\b`, `\brestrict(ed)?\b`,
			`\bdeadline\b`, `\bcritical\b`, `\baction\s+required\b`, `\bdo\s+not\s+ignore\b`,
		),
	},
	{
		category: models.CategoryCredential,
		label:    "Credential Request",
		maxScore: 0.35,
		patterns: compileAll(
			`\b(verify|confirm|update|validate)\s+(your\s+)?(account|identity|information|details)\b`,
			`\b(enter|provide|submit|type)\s+(your\s+)?(password|credentials|login|ssn|credit\s+card)\b`,
			`\b(sign|log)\s*(in|on)\s+(to\s+)?(verify|confirm|update)\b`,
			`\bclick\s+(here|below|the\s+link)\b`,
			`\b(reset|change|update)\s+password\b`,
			`\bunusual\s+(activity|sign[- ]?in|login)\b`,
			`\bsecurity\s+(alert|warning|notice|update)\b`,
			`\bverification\s+(required|needed|code)\b`,
			`\bconfirm\s+(your\s+)?identity\b`,
			`\benter\s+(your\s+)?(otp|one[- ]time\s+password|pin)\b`,
		),
	},
	{
		category: models.CategorySocial,
		label:    "Social Engineering",
		maxScore: 0.15,
		patterns: compileAll(
			`\b(dear\s+)?(valued\s+)?(customer|user|member|client)\b`,
			`\b(we\s+)?(have\s+)?(detected|noticed|found)\s+(suspicious|unusual|unauthorized)\b`,
			`\bif\s+you\s+(did\s+)?not\s+(authorize|recognize|initiate)\b`,
			`\byour\s+account\s+(has\s+been|will\s+be|is)\s+(locked|suspended|restricted|disabled)\b`,
			`\bwin(ner)?\b.*\b(prize|gift|reward|lottery)\b`,
			`\bcongratulations\b`,
			`\bfree\s+(gift|offer|trial)\b`,
			`\binheritance\b`,
			`\b(prince|princess|royalty|diplomat)\b`,
			`\bmillion\s+dollars?\b`,
		),
	},
	{
		category: models.CategoryFinancial,
		label:    "Financial Scam",
		maxScore: 0.35,
		patterns: compileAll(
			`\binvoice\s+(#?\d+|attached|due|overdue|unpaid)\b`,
			`\bpayment\s+(failed|declined|pending|overdue|required)\b`,
			`\bbilling\s+(issue|problem|error|update)\b`,
			`\b(outstanding|unpaid)\s+balance\b`,
			`\byour\s+(subscription|plan)\s+(has\s+)?(expired|renewal|charge)\b`,
			`\bcharge\s+of\s+\$[\d,.]+\b`,
			`\btransaction\s+(failed|declined|blocked|flagged)\b`,
			`\brefund\s+(pending|approved|processed|request)\b`,
			`\bbank\s+(transfer|wire|deposit)\b`,
			`\b(gift\s+card|google\s+play|itunes|amazon)\s+(code|card|payment)\b`,
			`\b(crypto|bitcoin|ethereum|usdt)\s+(transfer|payment|wallet)\b`,
		),
	},
}

// Channel-gated categories: only applied to sms and voice content
var gatedCategories = []categoryPatterns{
	{
		category: models.CategoryRegional,
		label:    "Regional Scam",
		maxScore: 0.25,
		patterns: compileAll(
			`\bkyc\s*(expired?|update|pending|verification)\b`,
			`\baadhaar\s*(link|update|verify|blocked)\b`,
			`\bpan\s*(card)?\s*(update|verify|link|blocked)\b`,
			`\btrai\s*(block|sim|disconnect)\b`,
			`\bsim\s+(blocked|suspended|deactivat)\b`,
			`\b(upi|paytm|phonepe|gpay|bhim)\s*(fraud|blocked|verify)\b`,
			`\bincome\s+tax\s+(notice|refund|demand)\b`,
			`\bparcel\s+(held|on\s+hold|detention|pending\s+customs)\b`,
			`\bcustoms\s+(fee|duty|clearance|charge)\b`,
			`\bredelivery\s+(fee|charge|attempt)\b`,
			`\b(loan|emi)\s+(approved|offer|overdue|pending)\b`,
			`\binsurance\s+(claim|expire|renewal)\b`,
			`\b(cashback|reward|bonus)\s+(credited|expire|claim)\b`,
		),
	},
	{
		category: models.CategoryTechSupport,
		label:    "Tech Support Scam",
		maxScore: 0.25,
		patterns: compileAll(
			`\bremote\s+(access|control|session|desktop)\b`,
			`\b(install|download|open)\s+(anydesk|teamviewer|ultraviewer|remote\s*pc)\b`,
			`\bshare\s+(your\s+)?(screen|access\s+code|session\s+code|control)\b`,
			`\btech(nical)?\s+support\b`,
			`\bwindows\s+(license|has\s+expired|activation)\b`,
			`\b(your\s+)?computer\s+(is\s+)?(hacked|infected|virus|compromised)\b`,
			`\bcall\s+(this\s+)?(number|toll[- ]?free)\b`,
			`\b(microsoft|apple|google)\s+(support|technician|engineer)\b`,
			`\ballow\s+(me|us)\s+to\s+(access|connect|fix)\b`,
			`\bdo\s+not\s+(close|shut|turn\s+off)\b`,
		),
	},
}

// Phrases that lean legitimate (newsletters carry these, scams rarely do)
var legitimateIndicators = compileAll(
	`\bunsubscribe\b`,
	`\bprivacy\s+policy\b`,
	`\bterms\s+(of|and)\s+(service|use)\b`,
	`\bmanage\s+(your\s+)?preferences\b`,
	`\bview\s+in\s+browser\b`,
	`\bopt[- ]?out\b`,
)

// Brands commonly impersonated in message bodies
var impersonatedBrands = []string{
	"paypal", "amazon", "apple", "google", "microsoft", "netflix", "facebook",
	"instagram", "twitter", "linkedin", "chase", "wellsfargo", "bankofamerica",
	"citibank", "usbank", "dhl", "fedex", "usps", "ups", "irs", "sbi", "hdfc",
	"icici", "axis", "airtel", "jio", "vodafone", "trai",
}

// Bulk-mail providers that legitimately send on behalf of brands
var knownESPs = []string{
	"mailchimp", "sendgrid", "constantcontact", "hubspot",
	"salesforce", "marketo", "klaviyo", "mailgun",
}

var (
	embeddedURLPattern    = regexp.MustCompile(`https?://\S+`)
	subjectUrgencyPattern = regexp.MustCompile(`(?i)\b(urgent|action\s+required|verify|suspended|locked|frozen|invoice|billing)\b`)
	senderDomainPattern   = regexp.MustCompile(`@([^\s>]+)`)
)
