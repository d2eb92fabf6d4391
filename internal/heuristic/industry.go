package heuristic

import "strings"

// industryRule maps keyword substrings to an industry label. Rules are
// evaluated in table order against the lower-cased position and company;
// the first hit wins.
type industryRule struct {
	label    string
	keywords []string
}

// industryTable is the primary keyword table. Order matters: earlier entries
// take precedence when a title or company matches several.
var industryTable = []industryRule{
	{"Financial Services", []string{
		"financial", "finance", "wealth", "investment", "banking", "insurance",
		"accounting", "accountant", "bookkeep", "mortgage", "pension", "cpa",
	}},
	{"Technology", []string{
		"software", "technology", "tech", "developer", "engineer", "saas",
		"cyber", "cloud", "data scien", "it services",
	}},
	{"Marketing & Advertising", []string{
		"marketing", "advertis", "branding", "seo", "social media",
		"public relations", "growth hack", "copywrit",
	}},
	{"Healthcare", []string{
		"health", "medical", "clinic", "dental", "pharma", "wellness",
		"hospital", "physio", "nurse", "therapist",
	}},
	{"Legal Services", []string{
		"legal", "law firm", "lawyer", "solicitor", "attorney", "barrister",
		"paralegal",
	}},
	{"Education", []string{
		"education", "school", "university", "college", "training", "teacher",
		"tutor", "academy", "e-learning",
	}},
	{"Real Estate", []string{
		"real estate", "property", "realtor", "estate agent", "letting",
		"landlord",
	}},
	{"Consulting", []string{
		"consult", "advisory", "coach", "strategist",
	}},
	{"Manufacturing", []string{
		"manufactur", "factory", "industrial", "production line", "machining",
	}},
	{"Retail", []string{
		"retail", "ecommerce", "e-commerce", "merchandis", "storefront",
	}},
	{"Construction", []string{
		"construction", "builder", "building services", "contractor",
		"architect", "surveyor", "civil engineer",
	}},
	{"Media & Entertainment", []string{
		"media", "entertainment", "film", "music", "broadcast", "publish",
		"video", "podcast", "creative studio",
	}},
}

// seniorityTitles are generic role words that say nothing about industry on
// their own. When a position matches only these, the company name gets a
// second pass with a coarser table.
var seniorityTitles = []string{"manager", "director", "executive", "officer"}

// companyFallbackTable is the secondary company-keyword table applied for
// generic-seniority titles.
var companyFallbackTable = []industryRule{
	{"Financial Services", []string{"bank", "capital", "asset"}},
	{"Technology", []string{"solutions", "systems", "digital", "labs"}},
	{"Marketing & Advertising", []string{"agency", "studio"}},
	{"Consulting", []string{"partners", "associates", "group"}},
	{"Construction", []string{"homes", "developments"}},
}

// InferIndustry resolves a contact's industry label. A non-sentinel current
// value wins unchanged (the company-search result takes precedence over
// title guessing). Otherwise the position and company are tested against the
// primary table, then — for generic seniority titles only — the company
// against the fallback table. With no match the original sentinel is
// returned unchanged.
func InferIndustry(current, position, company string) string {
	if !isSentinel(current) {
		return current
	}

	pos := strings.ToLower(position)
	comp := strings.ToLower(company)

	for _, rule := range industryTable {
		for _, kw := range rule.keywords {
			if strings.Contains(pos, kw) || strings.Contains(comp, kw) {
				return rule.label
			}
		}
	}

	generic := false
	for _, title := range seniorityTitles {
		if strings.Contains(pos, title) {
			generic = true
			break
		}
	}
	if generic {
		for _, rule := range companyFallbackTable {
			for _, kw := range rule.keywords {
				if strings.Contains(comp, kw) {
					return rule.label
				}
			}
		}
	}

	return current
}
