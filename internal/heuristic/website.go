// Package heuristic holds the deterministic post-processors applied to
// enrichment output: website normalization and candidate ranking, industry
// inference from job titles, and phone formatting.
package heuristic

import (
	"net/url"
	"sort"
	"strings"

	"github.com/sells-group/leadforge/internal/model"
)

// isSentinel reports whether v is empty or one of the degraded-data markers.
func isSentinel(v string) bool {
	switch strings.TrimSpace(v) {
	case "", model.SentinelNotFound, model.SentinelSearchFailed, model.SentinelParsingFailed:
		return true
	}
	return false
}

// NormalizeWebsite reduces a website candidate to scheme://host. Sentinel or
// unparseable candidates fall back to the first ranked fallback, then to
// "Not found".
func NormalizeWebsite(candidate string, fallbacks []string) string {
	fallback := model.SentinelNotFound
	if len(fallbacks) > 0 {
		fallback = fallbacks[0]
	}

	if isSentinel(candidate) {
		return fallback
	}

	raw := strings.TrimSpace(candidate)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fallback
	}

	return u.Scheme + "://" + u.Host
}

// excludedHosts are domains that never represent a contact's company website:
// social networks, aggregators, directories and government registries.
var excludedHosts = []string{
	"linkedin.com",
	"facebook.com",
	"twitter.com",
	"x.com",
	"instagram.com",
	"youtube.com",
	"tiktok.com",
	"wikipedia.org",
	"crunchbase.com",
	"bloomberg.com",
	"glassdoor.com",
	"indeed.com",
	"yelp.com",
	"zoominfo.com",
	"companieshouse.gov.uk",
	".gov",
}

func hostExcluded(host string) bool {
	for _, ex := range excludedHosts {
		if strings.Contains(host, ex) {
			return true
		}
	}
	return false
}

// RankWebsiteCandidates scores each search result's domain against the
// company name and common homepage signals, returning the top 5 candidates
// in descending score order.
//
// Score per candidate:
//   - 10 × number of company-name tokens (length > 2) found in the host
//   - +5 when the TLD is .com or .co.uk
//   - +3 when the host has at most 3 dot-separated labels
//   - +5 when the result path is the site root
func RankWebsiteCandidates(results []model.SearchResult, companyName string) []model.WebsiteCandidate {
	tokens := companyTokens(companyName)

	var candidates []model.WebsiteCandidate
	for _, r := range results {
		u, err := url.Parse(r.Link)
		if err != nil || u.Host == "" {
			continue
		}
		host := strings.ToLower(strings.TrimPrefix(u.Host, "www."))
		if hostExcluded(host) {
			continue
		}

		score := 0
		for _, tok := range tokens {
			if strings.Contains(host, tok) {
				score += 10
			}
		}
		if strings.HasSuffix(host, ".com") || strings.HasSuffix(host, ".co.uk") {
			score += 5
		}
		if len(strings.Split(host, ".")) <= 3 {
			score += 3
		}
		if u.Path == "" || u.Path == "/" {
			score += 5
		}

		candidates = append(candidates, model.WebsiteCandidate{
			URL:   u.Scheme + "://" + u.Host,
			Score: score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > 5 {
		candidates = candidates[:5]
	}
	return candidates
}

// companyTokens lower-cases and splits a company name, keeping tokens longer
// than 2 characters so fillers like "of" and "co" don't inflate scores.
func companyTokens(companyName string) []string {
	var tokens []string
	for _, tok := range strings.Fields(strings.ToLower(companyName)) {
		tok = strings.Trim(tok, ".,&()")
		if len(tok) > 2 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// CandidateURLs projects ranked candidates to their URLs, for use as
// NormalizeWebsite fallbacks.
func CandidateURLs(candidates []model.WebsiteCandidate) []string {
	urls := make([]string, 0, len(candidates))
	for _, c := range candidates {
		urls = append(urls, c.URL)
	}
	return urls
}
