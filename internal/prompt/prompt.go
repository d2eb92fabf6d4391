// Package prompt builds the fixed templates sent to the LLM. All builders
// are pure: they interpolate contact, profile and search data into template
// strings and nothing else.
package prompt

import (
	"fmt"
	"strings"

	"github.com/sells-group/leadforge/internal/model"
)

// maxResultsInPrompt caps how many search results are embedded in an
// analysis prompt.
const maxResultsInPrompt = 3

const analysisTemplate = `You are a B2B research analyst enriching a LinkedIn contact.

Contact:
Name: %s
Company: %s
Position: %s
Email: %s

Search results for "%s":
%s
Ranked website candidates (best first):
%s
%s
Using only the evidence above, return a valid JSON object with exactly these keys:
{"phone": "<business phone or Not found>", "website": "<company website URL or Not found>", "industry": "<industry label or Not found>", "category": "<one of: Ideal Client, Champion, Referral Partner, Competitor, Other>", "categoryReason": "<one sentence justification>"}`

// Analysis builds the per-contact enrichment analysis prompt from the
// contact, its search results and ranked website candidates.
func Analysis(c model.Contact, profile model.UserProfile, results []model.SearchResult, candidates []model.WebsiteCandidate) string {
	return fmt.Sprintf(analysisTemplate,
		c.Name,
		c.Company,
		c.Position,
		c.Email,
		c.Company,
		formatResults(results),
		formatCandidates(candidates),
		Rules(profile),
	)
}

// Rules renders the five categorization rules, parameterized by the
// operator's profile. Precedence order is fixed: Ideal Client, Champion,
// Referral Partner, Competitor, Other.
func Rules(profile model.UserProfile) string {
	var b strings.Builder
	b.WriteString("Categorization rules, applied in order:\n")
	fmt.Fprintf(&b, "1. Ideal Client: the contact or their company fits the target market: %s\n", orUnknown(profile.TargetMarket))
	b.WriteString("2. Champion: a senior decision-maker at a company that already works with or could advocate for the business\n")
	fmt.Fprintf(&b, "3. Referral Partner: matches the referral partner description: %s\n", orUnknown(profile.ReferralPartners))
	fmt.Fprintf(&b, "4. Competitor: offers the same services as: %s\n", orUnknown(profile.BusinessType))
	b.WriteString("5. Other: none of the above apply\n")
	return b.String()
}

const batchTemplate = `You are a B2B research analyst categorizing a batch of LinkedIn contacts
for the operator of this business:

Business type: %s
Company: %s
About: %s

Company groupings in this batch:
%s
Contacts:
%s
%s
Return a valid JSON object of the form:
{"categorizations": [{"contactNumber": <1-based number from the list above>, "category": "<one of: Ideal Client, Champion, Referral Partner, Competitor, Other>", "reason": "<one sentence>"}]}
Include exactly one entry per contact.`

// Batch builds the batch categorization prompt: company groupings, the full
// numbered contact list, and the rules.
func Batch(contacts []model.Contact, profile model.UserProfile) string {
	return fmt.Sprintf(batchTemplate,
		orUnknown(profile.BusinessType),
		orUnknown(profile.Company),
		orUnknown(profile.AboutYourBusiness),
		formatGroupings(contacts),
		formatNumbered(contacts),
		Rules(profile),
	)
}

const singleTemplate = `You are a B2B research analyst categorizing one LinkedIn contact
for the operator of this business:

Business type: %s
Company: %s

Contact:
Name: %s
Company: %s
Position: %s

%s
Return a valid JSON object:
{"category": "<one of: Ideal Client, Champion, Referral Partner, Competitor, Other>", "reason": "<one sentence>"}`

// Single builds the single-contact categorization prompt used by the batch
// controller's per-contact fallback.
func Single(c model.Contact, profile model.UserProfile) string {
	return fmt.Sprintf(singleTemplate,
		orUnknown(profile.BusinessType),
		orUnknown(profile.Company),
		c.Name,
		c.Company,
		c.Position,
		Rules(profile),
	)
}

func formatResults(results []model.SearchResult) string {
	if len(results) == 0 {
		return "(no results)\n"
	}
	if len(results) > maxResultsInPrompt {
		results = results[:maxResultsInPrompt]
	}
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.Link, r.Snippet)
	}
	return b.String()
}

func formatCandidates(candidates []model.WebsiteCandidate) string {
	if len(candidates) == 0 {
		return "(none)\n"
	}
	var b strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&b, "- %s (score %d)\n", c.URL, c.Score)
	}
	return b.String()
}

// formatGroupings lists contacts grouped by case/whitespace-normalized
// company name.
func formatGroupings(contacts []model.Contact) string {
	groups := make(map[string][]string)
	var order []string
	for _, c := range contacts {
		key := strings.ToLower(strings.Join(strings.Fields(c.Company), " "))
		if key == "" {
			key = "(no company)"
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c.Name)
	}

	var b strings.Builder
	for _, key := range order {
		fmt.Fprintf(&b, "- %s: %s\n", key, strings.Join(groups[key], ", "))
	}
	return b.String()
}

func formatNumbered(contacts []model.Contact) string {
	var b strings.Builder
	for i, c := range contacts {
		fmt.Fprintf(&b, "%d. %s — %s at %s\n", i+1, c.Name, c.Position, c.Company)
	}
	return b.String()
}

func orUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(not provided)"
	}
	return v
}
