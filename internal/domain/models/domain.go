package models

// DomainMatch is a legitimate domain found similar to the analyzed one
type DomainMatch struct {
	Domain       string  `json:"domain"`
	Similarity   float64 `json:"similarity"` // 0.0 - 1.0
	EditDistance int     `json:"edit_distance"`
}

// HomoglyphSubstitution records one look-alike character found in a domain
type HomoglyphSubstitution struct {
	Original  string `json:"original"`
	LooksLike string `json:"looks_like"`
	Position  int    `json:"position"`
}

// DomainVerdict is the domain checker output
type DomainVerdict struct {
	EngineResult
	Domain            string                  `json:"domain"`
	Matches           []DomainMatch           `json:"matches"`
	Substitutions     []HomoglyphSubstitution `json:"substitutions,omitempty"`
	NormalizedDomain  string                  `json:"normalized_domain,omitempty"`
	HomoglyphDetected bool                    `json:"homoglyph_detected"`
	TyposquatDetected bool                    `json:"typosquatting_detected"`
	TyposquatTarget   string                  `json:"typosquatting_target,omitempty"`
	BrandInSubdomain  string                  `json:"brand_in_subdomain,omitempty"`
	Legitimate        bool                    `json:"legitimate"`
}
