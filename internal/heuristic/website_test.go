package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadforge/internal/model"
)

func TestNormalizeWebsite(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		fallbacks []string
		want      string
	}{
		{
			name:      "strips_path",
			candidate: "https://example.com/about",
			want:      "https://example.com",
		},
		{
			name:      "prepends_scheme",
			candidate: "example.com/about",
			want:      "https://example.com",
		},
		{
			name:      "keeps_http_scheme",
			candidate: "http://example.com/contact?ref=1",
			want:      "http://example.com",
		},
		{
			name:      "already_normal",
			candidate: "https://example.com",
			want:      "https://example.com",
		},
		{
			name:      "sentinel_uses_fallback",
			candidate: model.SentinelNotFound,
			fallbacks: []string{"https://acme.com", "https://acme.org"},
			want:      "https://acme.com",
		},
		{
			name:      "empty_uses_fallback",
			candidate: "",
			fallbacks: []string{"https://acme.com"},
			want:      "https://acme.com",
		},
		{
			name:      "sentinel_no_fallback",
			candidate: model.SentinelSearchFailed,
			want:      model.SentinelNotFound,
		},
		{
			name:      "unparseable_uses_fallback",
			candidate: "http://%zz",
			fallbacks: []string{"https://acme.com"},
			want:      "https://acme.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeWebsite(tt.candidate, tt.fallbacks))
		})
	}
}

func TestNormalizeWebsiteIdempotent(t *testing.T) {
	once := NormalizeWebsite("example.com/about", nil)
	twice := NormalizeWebsite(once, nil)
	assert.Equal(t, once, twice)
}

func TestRankWebsiteCandidates(t *testing.T) {
	results := []model.SearchResult{
		{Title: "Acme on LinkedIn", Link: "https://www.linkedin.com/company/acme"},
		{Title: "Acme Corp — Home", Link: "https://acmecorp.com/"},
		{Title: "Acme reviews", Link: "https://yelp.com/biz/acme"},
		{Title: "Acme blog post", Link: "https://blog.acmecorp.com/2024/launch"},
		{Title: "Unrelated directory", Link: "https://somedirectory.net/listing/acme"},
	}

	candidates := RankWebsiteCandidates(results, "Acme Corp")
	require.NotEmpty(t, candidates)

	// Social networks and review sites never appear.
	for _, c := range candidates {
		assert.NotContains(t, c.URL, "linkedin.com")
		assert.NotContains(t, c.URL, "yelp.com")
	}

	// The homepage with both tokens in the host outranks the blog subdomain.
	assert.Equal(t, "https://acmecorp.com", candidates[0].URL)
	assert.Greater(t, candidates[0].Score, candidates[1].Score)
}

func TestRankWebsiteCandidatesScoring(t *testing.T) {
	results := []model.SearchResult{
		{Link: "https://acmecorp.com/"},
	}
	candidates := RankWebsiteCandidates(results, "Acme Corp")
	require.Len(t, candidates, 1)

	// 10 for "acme" + 10 for "corp" + 5 for .com + 3 for short host + 5 for root path.
	assert.Equal(t, 33, candidates[0].Score)
}

func TestRankWebsiteCandidatesCapsAtFive(t *testing.T) {
	results := []model.SearchResult{
		{Link: "https://a.com/"},
		{Link: "https://b.com/"},
		{Link: "https://c.com/"},
		{Link: "https://d.com/"},
		{Link: "https://e.com/"},
		{Link: "https://f.com/"},
		{Link: "https://g.com/"},
	}
	candidates := RankWebsiteCandidates(results, "Acme")
	assert.Len(t, candidates, 5)
}

func TestRankWebsiteCandidatesStableOrder(t *testing.T) {
	// Equal scores keep input order.
	results := []model.SearchResult{
		{Link: "https://first.com/"},
		{Link: "https://second.com/"},
	}
	candidates := RankWebsiteCandidates(results, "Acme")
	require.Len(t, candidates, 2)
	assert.Equal(t, "https://first.com", candidates[0].URL)
	assert.Equal(t, "https://second.com", candidates[1].URL)
}

func TestCandidateURLs(t *testing.T) {
	urls := CandidateURLs([]model.WebsiteCandidate{
		{URL: "https://a.com", Score: 10},
		{URL: "https://b.com", Score: 5},
	})
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, urls)
	assert.Empty(t, CandidateURLs(nil))
}
