package services

// Unicode characters that render close enough to a Latin letter to pass
// as one. Leet digits are included: '1' for 'l', '0' for 'o', '5' for 's'.
var homoglyphMap = map[rune][]rune{
	'a': {'а', 'ɑ', 'α', 'ạ', 'ä', 'à', 'á', 'â', 'ã', 'å'},
	'b': {'Ь', 'ḃ', 'ɓ', 'ƀ'},
	'c': {'с', 'ç', 'ć', 'ĉ', 'ċ'},
	'd': {'ԁ', 'ḋ', 'ɗ', 'đ'},
	'e': {'е', 'ë', 'é', 'è', 'ê', 'ẹ', 'ė', 'ę'},
	'f': {'ƒ'},
	'g': {'ɡ', 'ĝ', 'ğ', 'ġ', 'ģ'},
	'h': {'һ', 'ĥ', 'ħ'},
	'i': {'і', 'ı', 'ì', 'í', 'î', 'ï', 'ĩ', 'ɪ', 'ị', 'ł'},
	'j': {'ϳ', 'ĵ'},
	'k': {'κ', 'ḳ', 'ḵ'},
	'l': {'ӏ', 'ĺ', 'ļ', 'ľ', 'ŀ', '1', '|'},
	'm': {'м', 'ṁ'},
	'n': {'п', 'ñ', 'ń', 'ņ', 'ŋ'},
	'o': {'о', 'ö', 'ó', 'ò', 'ô', 'õ', 'ọ', '0', 'ø'},
	'p': {'р', 'ṗ'},
	'q': {'ԛ'},
	'r': {'г', 'ŕ', 'ř'},
	's': {'ѕ', 'ś', 'š', 'ş', '$', '5'},
	't': {'τ', 'ṫ', 'ţ', 'ŧ'},
	'u': {'υ', 'ú', 'ù', 'û', 'ü', 'ũ', 'ụ', 'μ'},
	'v': {'ν', 'ṿ'},
	'w': {'ω', 'ẁ', 'ẃ', 'ẅ'},
	'x': {'х', 'ẋ', 'ẍ'},
	'y': {'у', 'ý', 'ÿ', 'ŷ'},
	'z': {'ź', 'ż', 'ž'},
}

// reverseHomoglyphs maps every look-alike back to the Latin letter it mimics
var reverseHomoglyphs = buildReverseHomoglyphs()

func buildReverseHomoglyphs() map[rune]rune {
	reverse := make(map[rune]rune)
	for original, lookalikes := range homoglyphMap {
		for _, h := range lookalikes {
			reverse[h] = original
		}
	}
	return reverse
}

// Domains phishers most often imitate; exact matches short-circuit to safe
var legitimateDomains = []string{
	"google.com", "gmail.com", "youtube.com", "facebook.com", "instagram.com",
	"twitter.com", "linkedin.com", "microsoft.com", "apple.com", "amazon.com",
	"netflix.com", "paypal.com", "ebay.com", "dropbox.com", "icloud.com",
	"outlook.com", "office365.com", "chase.com", "wellsfargo.com", "bank.com",
	"bankofamerica.com", "citibank.com", "usbank.com", "americanexpress.com",
	"whatsapp.com", "telegram.org", "signal.org", "zoom.us", "slack.com",
	"github.com", "gitlab.com", "stackoverflow.com", "reddit.com",
	"coinbase.com", "binance.com", "kraken.com", "blockchain.com",
	"adobe.com", "salesforce.com", "stripe.com", "shopify.com",
	"wordpress.com", "godaddy.com", "cloudflare.com", "aws.amazon.com",
	"yahoo.com", "aol.com", "hotmail.com", "live.com", "msn.com",
	"fidelity.com", "schwab.com", "vanguard.com", "robinhood.com",
	"dhl.com", "fedex.com", "ups.com", "usps.com",
}

// Character sequences that visually collapse into another letter
var typoPatterns = []struct {
	pattern     string
	replacement string
}{
	{"rn", "m"},
	{"cl", "d"},
	{"nn", "m"},
	{"vv", "w"},
	{"ii", "u"},
}
