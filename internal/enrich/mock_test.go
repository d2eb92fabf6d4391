package enrich

import (
	"context"
	"strings"

	"github.com/sells-group/leadforge/internal/model"
	"github.com/sells-group/leadforge/pkg/anthropic"
	"github.com/sells-group/leadforge/pkg/serper"
)

// mockSearch implements serper.Client for testing.
type mockSearch struct {
	results map[string][]model.SearchResult // keyed by query substring
	err     error
	errFor  string // substring of queries that should fail
	queries []string
	calls   int
}

func (m *mockSearch) Search(_ context.Context, query string, _ int) (*serper.SearchResponse, error) {
	m.calls++
	m.queries = append(m.queries, query)

	if m.err != nil && (m.errFor == "" || strings.Contains(query, m.errFor)) {
		return nil, m.err
	}

	for key, results := range m.results {
		if strings.Contains(query, key) {
			return &serper.SearchResponse{Organic: results}, nil
		}
	}
	return &serper.SearchResponse{}, nil
}

// mockLLM implements anthropic.Client for testing. Responses are consumed in
// order; the last one repeats. Errs, when set, are consumed in lockstep with
// calls (nil means success).
type mockLLM struct {
	responses []string
	err       error   // when set, every call fails
	errs      []error // per-call errors, nil entries succeed
	prompts   []string
	calls     int
}

func (m *mockLLM) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	i := m.calls
	m.calls++
	for _, msg := range req.Messages {
		m.prompts = append(m.prompts, msg.Content)
	}

	if m.err != nil {
		return nil, m.err
	}
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}

	text := ""
	if len(m.responses) > 0 {
		if i >= len(m.responses) {
			i = len(m.responses) - 1
		}
		text = m.responses[i]
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}, nil
}
